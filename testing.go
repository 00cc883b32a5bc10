package sticks

import (
	"net"
	"sync"

	"github.com/g4stly/sticks/internal/constants"
)

// FakeConn wraps an in-memory net.Pipe endpoint so protocol/room tests can
// drive a connection without a real socket, while still letting a test
// force the next Write to fail (simulating a peer that has gone away).
// Modeled on the teacher's MockBackend: a hand-rolled double purpose-built
// for this package's seams rather than a generated mock.
type FakeConn struct {
	net.Conn

	mu        sync.Mutex
	writeErr  error
	writes    [][]byte
	closeCalls int
}

// NewFakePeerPipe returns two connected FakeConns, the way two accepted
// sockets would appear to a Room once both peers have joined.
func NewFakePeerPipe() (a, b *FakeConn) {
	ca, cb := net.Pipe()
	return &FakeConn{Conn: ca}, &FakeConn{Conn: cb}
}

// Write records the payload and either forwards it to the pipe or returns
// the injected error, whichever the test asked for.
func (f *FakeConn) Write(p []byte) (int, error) {
	f.mu.Lock()
	err := f.writeErr
	f.writeErr = nil
	f.mu.Unlock()

	if err != nil {
		return 0, err
	}

	cp := append([]byte(nil), p...)
	f.mu.Lock()
	f.writes = append(f.writes, cp)
	f.mu.Unlock()

	return f.Conn.Write(p)
}

// Close tracks how many times Close was called, then delegates.
func (f *FakeConn) Close() error {
	f.mu.Lock()
	f.closeCalls++
	f.mu.Unlock()
	return f.Conn.Close()
}

// FailNextWrite makes the next Write return err instead of reaching the
// pipe, simulating a peer disconnect mid-send.
func (f *FakeConn) FailNextWrite(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

// Writes returns a copy of every payload successfully handed to Write.
func (f *FakeConn) Writes() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.writes))
	copy(out, f.writes)
	return out
}

// CloseCalls reports how many times Close has been invoked.
func (f *FakeConn) CloseCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCalls
}

// FixedFrame builds an internal/constants.ReadSize-byte frame, the shape
// every STATE_PUSH/JOIN/CREATE message on the wire takes, padding with
// zero bytes.
func FixedFrame(b ...byte) [constants.ReadSize]byte {
	var frame [constants.ReadSize]byte
	copy(frame[:], b)
	return frame
}
