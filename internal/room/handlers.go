package room

import (
	"github.com/g4stly/sticks/internal/errs"
	"github.com/g4stly/sticks/internal/interfaces"
	"github.com/g4stly/sticks/internal/protocol"
	"github.com/g4stly/sticks/internal/reactor"
	"github.com/g4stly/sticks/internal/registry"
)

// ioDriver is the narrow slice of *reactor.Reactor the handlers need. It
// exists so tests can drive the state machine against a fake without a
// real ring underneath — the same seam the teacher's Backend interface
// gave its device-I/O callers.
type ioDriver interface {
	SubmitSend(fd int32, buf []byte, user any, cont reactor.Continuation) error
	SubmitRecv(fd int32, buf []byte, user any, cont reactor.Continuation) error
	SubmitSendWaitAll(fd int32, buf []byte, wa *reactor.WaitAll) error
}

// closer abstracts socket teardown so tests don't need a real fd.
type closer interface {
	Close(fd int32)
}

// Handlers wires the Room state machine to an ioDriver, a Registry, a
// Logger, and an Observer. One Handlers instance serves every room.
type Handlers struct {
	IO       ioDriver
	Closer   closer
	Registry *registry.Registry[*Room]
	Log      interfaces.Logger
	Obs      interfaces.Observer
}

// joinAck, gameStart, joinRefused, peerGone are the fixed server->client
// frames spec.md §4.5 names that aren't STATE_PUSH frames.
var (
	joinAck     = []byte("0\n")
	gameStart   = []byte("2\n")
	joinRefused = []byte("-1\n")
	peerGone    = []byte("-2\n")
)

// peerUser is the continuation payload for a steady-state recv: which room,
// and which peer index owns the buffer that was just read.
type peerUser struct {
	room *Room
	idx  int
}

// HandleFirstRecv dispatches a brand-new connection's first 8-byte read:
// CREATE, JOIN, or bad opcode, per spec.md §4.5.
func (h *Handlers) HandleFirstRecv(fd int32, buf protocol.Frame, res int32) {
	if res <= 0 {
		h.Closer.Close(fd)
		return
	}

	switch protocol.DispatchOpcode(buf[0]) {
	case protocol.OpCreate:
		h.handleCreate(fd)
	case protocol.OpJoin:
		h.handleJoin(fd, buf)
	default:
		if h.Log != nil {
			h.Log.Infof("bad opcode 0x%02x on first recv, closing fd=%d", buf[0], fd)
		}
		if h.Obs != nil {
			h.Obs.ObserveBadOpcode()
		}
		h.Closer.Close(fd)
	}
}

func (h *Handlers) handleCreate(fd int32) {
	_, r := h.Registry.Create(func(code string) *Room { return NewRoom(code, fd) })

	if h.Log != nil {
		h.Log.Infof("room %s created, creator fd=%d", r.Code, fd)
	}
	if h.Obs != nil {
		h.Obs.ObserveRoomCreated()
	}

	reply := append([]byte(r.Code), '\n')
	h.IO.SubmitSend(fd, reply, nil, nil)
	h.IO.SubmitRecv(fd, r.RBuf[0][:], peerUser{room: r, idx: 0}, h.onSteadyRecv)
}

func (h *Handlers) handleJoin(fd int32, buf protocol.Frame) {
	code := string(buf[1:5])
	r, ok := h.Registry.Lookup(code)
	if !ok || r.HasJoiner() {
		if h.Log != nil {
			h.Log.Infof("join refused for code=%s fd=%d", code, fd)
		}
		if h.Obs != nil {
			h.Obs.ObserveJoinRefused()
		}
		h.IO.SubmitSend(fd, joinRefused, nil, func(res int32, sentFD int32, user any) {
			h.Closer.Close(sentFD)
		})
		return
	}

	r.FD[1] = fd

	if h.Log != nil {
		h.Log.Infof("joiner accepted into room %s fd=%d", r.Code, fd)
	}
	if h.Obs != nil {
		h.Obs.ObserveJoinOK()
	}

	h.IO.SubmitSend(fd, joinAck, nil, nil)
	h.startGame(r)
	h.IO.SubmitRecv(fd, r.RBuf[1][:], peerUser{room: r, idx: 1}, h.onSteadyRecv)
}

// startGame submits the WaitAll(2) game-start writes to both peers; once
// both land, onGameStarted transitions the room to playing and fires the
// first state push.
func (h *Handlers) startGame(r *Room) {
	wa := reactor.NewWaitAll(2, r, h.onGameStarted)
	h.IO.SubmitSendWaitAll(r.FD[0], gameStart, wa)
	h.IO.SubmitSendWaitAll(r.FD[1], gameStart, wa)
}

func (h *Handlers) onGameStarted(res int32, fd int32, user any) {
	r := user.(*Room)
	r.State = Playing

	frame := protocol.FirstStatePush(r.Game)
	dest := r.FD[r.Turn]
	h.IO.SubmitSend(dest, frame[:], nil, nil)
}

// onSteadyRecv is the continuation for every post-join recv: the relay
// logic from spec.md §4.5's "Steady-state relay" bullet list.
func (h *Handlers) onSteadyRecv(res int32, fd int32, user any) {
	pu := user.(peerUser)
	r, idx := pu.room, pu.idx

	if r.State == Broken {
		if _, ok := h.Registry.Remove(r.Code); ok && h.Obs != nil {
			h.Obs.ObserveRoomFreed()
		}
		h.Closer.Close(fd)
		return
	}

	if res <= 0 {
		h.handleDisconnect(r, idx, fd)
		return
	}

	if r.State == Pending {
		// Game-start has not completed yet (the creator, or a joiner whose
		// recv was armed before both start writes landed); drop and re-arm.
		h.rearm(r, idx)
		return
	}

	if r.State == Playing && idx == r.Turn {
		out, newTurn := protocol.BuildRelayFrame(r.Turn, r.RBuf[idx], &r.Game)
		r.Turn = newTurn
		if h.Obs != nil {
			h.Obs.ObserveStatePush()
		}
		h.IO.SubmitSend(r.FD[newTurn], out[:], nil, nil)
		h.rearm(r, idx)
		return
	}

	// Playing but not the turn holder: silently drop.
	h.rearm(r, idx)
}

func (h *Handlers) rearm(r *Room, idx int) {
	h.IO.SubmitRecv(r.FD[idx], r.RBuf[idx][:], peerUser{room: r, idx: idx}, h.onSteadyRecv)
}

func (h *Handlers) handleDisconnect(r *Room, idx int, fd int32) {
	h.Closer.Close(fd)

	if r.State == Pending {
		h.Registry.Remove(r.Code)
		if h.Log != nil {
			h.Log.Infof("room %s abandoned before joiner arrived", r.Code)
		}
		if h.Obs != nil {
			h.Obs.ObserveRoomFreed()
		}
		return
	}

	r.State = Broken
	other := OtherOf(idx)
	survivor := r.FD[other]
	if h.Log != nil {
		h.Log.Infof("peer %d in room %s gone, notifying survivor fd=%d", idx, r.Code, survivor)
	}
	if h.Obs != nil {
		h.Obs.ObservePeerGone()
	}
	h.IO.SubmitSend(survivor, peerGone, nil, nil)
}

// Err is a small convenience matching the teacher's WrapError idiom for
// building a structured error outside the hot path; nothing in this module
// calls it.
func Err(op string, code errs.ErrorCode, msg string) error {
	return errs.New(op, code, msg)
}
