// Package sticks is the public surface of the relay server: wiring a Ring,
// a Reactor, a room Registry, metrics, and a logger into one listening
// Server. The heavy lifting lives in internal/room, internal/reactor, and
// internal/ring; this file is assembly, the way the teacher's top-level
// CreateAndServe wires a Backend into a device lifecycle.
package sticks

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/g4stly/sticks/internal/constants"
	"github.com/g4stly/sticks/internal/interfaces"
	"github.com/g4stly/sticks/internal/logging"
	"github.com/g4stly/sticks/internal/metrics"
	"github.com/g4stly/sticks/internal/protocol"
	"github.com/g4stly/sticks/internal/reactor"
	"github.com/g4stly/sticks/internal/registry"
	"github.com/g4stly/sticks/internal/ring"
	"github.com/g4stly/sticks/internal/room"
)

// Config configures a Server. Zero values pick the spec's defaults: port
// 7557, a default-sized ring, and the process-default logger. There are no
// environment variables or CLI flags backing this — see SPEC_FULL.md's
// Configuration section.
type Config struct {
	Port        int
	RingEntries uint32
	Logger      interfaces.Logger
	Observer    interfaces.Observer
}

// Server owns a listener's underlying fd, a Ring, a Reactor, and the room
// Registry for the lifetime of the process. Non-goal: graceful shutdown —
// spec.md explicitly scopes process lifecycle management out.
type Server struct {
	cfg      Config
	listener *net.TCPListener
	listenFD int32
	ring     ring.Ring
	reactor  *reactor.Reactor
	registry *registry.Registry[*room.Room]
	handlers *room.Handlers
	log      interfaces.Logger
}

// fdCloser adapts raw close(2) to room.Handlers' closer seam.
type fdCloser struct{}

func (fdCloser) Close(fd int32) { unix.Close(int(fd)) }

// New builds a Server without starting it. Call ListenAndServe to bind and
// run the reactor loop.
func New(cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = constants.DefaultPort
	}
	if cfg.RingEntries == 0 {
		cfg.RingEntries = constants.RingEntries
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = metrics.NewObserver(metrics.New())
	}

	reg := registry.New[*room.Room]()

	s := &Server{cfg: cfg, registry: reg, log: cfg.Logger}
	s.handlers = &room.Handlers{
		Registry: reg,
		Closer:   fdCloser{},
		Log:      cfg.Logger,
		Obs:      cfg.Observer,
	}
	return s
}

// ListenAndServe binds the TCP listener (via the standard library, per
// spec.md's "bind/listen are an external collaborator"), sets SO_REUSEADDR
// on the underlying socket, creates the Ring, and runs the reactor loop.
// It blocks until the reactor returns an error — the loop itself never
// exits under normal operation, matching spec.md §4.2.
func (s *Server) ListenAndServe() error {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return WrapError("LISTEN", err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		return NewError("LISTEN", ErrCodeListenerSetup, "listener is not a *net.TCPListener")
	}
	s.listener = tcpLn

	fd, err := listenerFD(tcpLn)
	if err != nil {
		return WrapError("LISTEN", err)
	}
	s.listenFD = fd

	r, err := ring.New(ring.Config{Entries: s.cfg.RingEntries})
	if err != nil {
		return WrapError("RING_INIT", err)
	}
	s.ring = r
	s.reactor = reactor.New(r)
	s.handlers.IO = s.reactor

	s.log.Infof("listening on %s (fd=%d)", addr, s.listenFD)

	if err := s.armAccept(); err != nil {
		return WrapError("ACCEPT_ARM", err)
	}

	return s.reactor.Run()
}

// listenerFD extracts the raw fd backing ln via SyscallConn, the standard
// way to hand a stdlib-managed socket off to manual syscall/io_uring use.
func listenerFD(ln *net.TCPListener) (int32, error) {
	raw, err := ln.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd int32
	ctrlErr := raw.Control(func(f uintptr) { fd = int32(f) })
	if ctrlErr != nil {
		return 0, ctrlErr
	}
	return fd, nil
}

// armAccept submits the listener's permanent accept op. Each completion
// re-arms itself before dispatching the first recv for the new connection,
// so the listener always has exactly one outstanding accept.
func (s *Server) armAccept() error {
	return s.reactor.SubmitAccept(s.listenFD, nil, s.onAccept)
}

func (s *Server) onAccept(res int32, listenerFD int32, user any) {
	if res < 0 {
		s.log.Errorf("accept failed: res=%d", res)
		_ = s.armAccept()
		return
	}

	connFD := res
	if err := s.armAccept(); err != nil {
		s.log.Errorf("failed to re-arm accept: %v", err)
	}

	buf := new(protocol.Frame)
	s.reactor.SubmitRecv(connFD, buf[:], firstRecvUser{fd: connFD, buf: buf}, s.onFirstRecv)
}

// firstRecvUser threads the just-accepted fd and its own scratch buffer
// through to onFirstRecv's continuation, mirroring AsyncOp's memory
// contract: the caller (here, Server) owns the buffer and keeps it valid
// until the completion fires. buf is a pointer so the bytes the ring wrote
// into the slice handed to SubmitRecv are the same ones read back here.
type firstRecvUser struct {
	fd  int32
	buf *protocol.Frame
}

func (s *Server) onFirstRecv(res int32, fd int32, user any) {
	fu := user.(firstRecvUser)
	s.handlers.HandleFirstRecv(fu.fd, *fu.buf, res)
}

// Close tears down the ring and listener. Not part of the reactor's normal
// run loop — useful for tests that construct a Server without serving
// forever.
func (s *Server) Close() error {
	if s.ring != nil {
		s.ring.Close()
	}
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
