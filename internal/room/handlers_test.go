package room

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/g4stly/sticks/internal/metrics"
	"github.com/g4stly/sticks/internal/protocol"
	"github.com/g4stly/sticks/internal/reactor"
	"github.com/g4stly/sticks/internal/registry"
)

// sentFrame records one call to the fake driver's SubmitSend/SubmitSendWaitAll.
type sentFrame struct {
	fd  int32
	buf []byte
}

// fakeIO is a hand-rolled ioDriver test double: it records every send and
// recv submission and lets the test fire continuations manually, the way
// the root package's FakeConn stands in for a real socket at the protocol
// layer. No real ring or reactor goroutine is involved.
type fakeIO struct {
	sends     []sentFrame
	recvArms  []peerUser
	waitAlls  []*reactor.WaitAll
	waitAllFD []int32
}

func (f *fakeIO) SubmitSend(fd int32, buf []byte, user any, cont reactor.Continuation) error {
	cp := append([]byte(nil), buf...)
	f.sends = append(f.sends, sentFrame{fd: fd, buf: cp})
	if cont != nil {
		cont(int32(len(buf)), fd, user)
	}
	return nil
}

func (f *fakeIO) SubmitRecv(fd int32, buf []byte, user any, cont reactor.Continuation) error {
	f.recvArms = append(f.recvArms, user.(peerUser))
	return nil
}

func (f *fakeIO) SubmitSendWaitAll(fd int32, buf []byte, wa *reactor.WaitAll) error {
	cp := append([]byte(nil), buf...)
	f.sends = append(f.sends, sentFrame{fd: fd, buf: cp})
	f.waitAlls = append(f.waitAlls, wa)
	f.waitAllFD = append(f.waitAllFD, fd)
	return nil
}

type fakeCloser struct {
	closed []int32
}

func (f *fakeCloser) Close(fd int32) { f.closed = append(f.closed, fd) }

func newTestHandlers() (*Handlers, *fakeIO, *fakeCloser) {
	io := &fakeIO{}
	cl := &fakeCloser{}
	h := &Handlers{
		IO:       io,
		Closer:   cl,
		Registry: registry.New[*Room](),
		Obs:      metrics.NoOpObserver{},
	}
	return h, io, cl
}

func TestHandleFirstRecvCreate(t *testing.T) {
	h, io, _ := newTestHandlers()

	buf := protocol.Frame{0x00}
	h.HandleFirstRecv(5, buf, 8)

	require.Equal(t, 1, h.Registry.Len())
	require.Len(t, io.sends, 1)
	require.Equal(t, int32(5), io.sends[0].fd)
	require.Len(t, io.sends[0].buf, 5) // 4-digit code + '\n'
	require.Equal(t, byte('\n'), io.sends[0].buf[4])
	require.Len(t, io.recvArms, 1)
	require.Equal(t, 0, io.recvArms[0].idx)
}

func TestHandleFirstRecvBadOpcodeCloses(t *testing.T) {
	h, _, cl := newTestHandlers()

	buf := protocol.Frame{0xff}
	h.HandleFirstRecv(9, buf, 8)

	require.Equal(t, 0, h.Registry.Len())
	require.Equal(t, []int32{9}, cl.closed)
}

func TestHandleFirstRecvZeroResultCloses(t *testing.T) {
	h, _, cl := newTestHandlers()
	h.HandleFirstRecv(9, protocol.Frame{}, 0)
	require.Equal(t, []int32{9}, cl.closed)
}

func TestJoinUnknownCodeRefused(t *testing.T) {
	h, io, cl := newTestHandlers()

	var buf protocol.Frame
	buf[0] = 0x01
	copy(buf[1:5], "9999")
	h.HandleFirstRecv(3, buf, 8)

	require.Equal(t, 0, h.Registry.Len())
	require.Len(t, io.sends, 1)
	require.Equal(t, []byte("-1\n"), io.sends[0].buf)
	require.Equal(t, []int32{3}, cl.closed)
}

func TestJoinToFullRoomRefused(t *testing.T) {
	h, io, cl := newTestHandlers()

	code, r := h.Registry.Create(func(code string) *Room { return NewRoom(code, 1) })
	r.FD[1] = 2 // already has a joiner

	var buf protocol.Frame
	buf[0] = 0x01
	copy(buf[1:5], code)
	h.HandleFirstRecv(3, buf, 8)

	require.Len(t, io.sends, 1)
	require.Equal(t, []byte("-1\n"), io.sends[0].buf)
	require.Equal(t, []int32{3}, cl.closed)
}

func TestCreatorAbandonsBeforeJoinerRemovesRoom(t *testing.T) {
	h, _, cl := newTestHandlers()

	_, r := h.Registry.Create(func(code string) *Room { return NewRoom(code, 1) })

	h.onSteadyRecv(0, 1, peerUser{room: r, idx: 0})

	require.Equal(t, 0, h.Registry.Len())
	require.Equal(t, []int32{1}, cl.closed)
}

func TestJoinerDisconnectMidGameNotifiesSurvivorOnce(t *testing.T) {
	h, io, cl := newTestHandlers()

	_, r := h.Registry.Create(func(code string) *Room { return NewRoom(code, 1) })
	r.FD[1] = 2
	r.State = Playing

	h.onSteadyRecv(0, 2, peerUser{room: r, idx: 1})

	require.Equal(t, Broken, r.State)
	require.Equal(t, []int32{2}, cl.closed)

	found := false
	for _, s := range io.sends {
		if s.fd == 1 && string(s.buf) == "-2\n" {
			found = true
		}
	}
	require.True(t, found, "survivor fd=1 must receive -2\\n")

	// Next event on the survivor's socket finalizes teardown.
	h.onSteadyRecv(8, 1, peerUser{room: r, idx: 0})
	require.Equal(t, 0, h.Registry.Len())
	require.ElementsMatch(t, []int32{2, 1}, cl.closed)
}

func TestOutOfTurnWriteDroppedSilently(t *testing.T) {
	h, io, _ := newTestHandlers()

	_, r := h.Registry.Create(func(code string) *Room { return NewRoom(code, 1) })
	r.FD[1] = 2
	r.State = Playing
	r.Turn = 0

	before := len(io.sends)
	h.onSteadyRecv(8, 2, peerUser{room: r, idx: 1})

	require.Equal(t, before, len(io.sends), "no STATE_PUSH frame should be sent")
	require.Equal(t, Playing, r.State)
	require.Len(t, io.recvArms, 1, "recv must still be re-armed")
}

func TestPendingRecvDroppedAndRearmed(t *testing.T) {
	h, io, _ := newTestHandlers()

	_, r := h.Registry.Create(func(code string) *Room { return NewRoom(code, 1) })

	h.onSteadyRecv(8, 1, peerUser{room: r, idx: 0})

	require.Equal(t, Pending, r.State)
	require.Len(t, io.recvArms, 1)
}

func TestHappyPathRelayThroughHandlers(t *testing.T) {
	h, io, _ := newTestHandlers()

	code, r := h.Registry.Create(func(code string) *Room { return NewRoom(code, 1) })
	_ = code
	r.FD[1] = 2
	r.State = Playing
	r.Turn = 0

	r.RBuf[0] = protocol.Frame{'3', '1', '1', '2', '2', '1', '1', '\n'}
	h.onSteadyRecv(8, 1, peerUser{room: r, idx: 0})

	require.Equal(t, protocol.Game{2, 2, 1, 1}, r.Game)
	require.Equal(t, 1, r.Turn)

	last := io.sends[len(io.sends)-1]
	require.Equal(t, int32(2), last.fd)
	require.Equal(t, []byte{'3', '3', '3', '1', '1', '2', '2', '\n'}, last.buf)
}
