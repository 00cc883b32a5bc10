// Package reactor drives the single-threaded completion-dispatch loop:
// submit accept/recv/send operations against a ring.Ring, then run each
// completion's continuation to completion before waiting for the next one.
// This is spec.md §4.1-4.3's AsyncOp, Reactor loop, and WaitAll, realized
// as a tagged continuation record (per spec.md §9's own suggestion) instead
// of routing every callback through a bare user-data pointer.
package reactor

import "github.com/g4stly/sticks/internal/ring"

// Kind identifies which operation an opContext is waiting on.
type Kind uint8

const (
	KindAccept Kind = iota
	KindRecv
	KindSend
	KindWaitAll
)

// Continuation is invoked once an op's completion arrives. fd is the
// socket the op was issued against (for accept, the listener fd); res
// mirrors the raw completion result (accepted fd, bytes transferred, or a
// negative -errno).
type Continuation func(res int32, fd int32, user any)

// opContext is the per-op heap record AsyncOp owns between submission and
// completion. It is recycled through a sync.Pool (see pool.go) instead of
// freed and reallocated on every submission, the way the teacher's
// queue.BufferPool recycles I/O buffers rather than the runner struct
// itself — here the struct is small enough to pool directly.
type opContext struct {
	kind Kind
	fd   int32
	user any
	cont Continuation

	// wa is set only for KindWaitAll-wrapped shims; see waitall.go.
	wa *WaitAll
}

func (o *opContext) reset() {
	o.kind = 0
	o.fd = 0
	o.user = nil
	o.cont = nil
	o.wa = nil
}

// Reactor owns a ring and the in-flight op table, dispatching completions
// to their continuations one at a time on a single goroutine.
type Reactor struct {
	ring    ring.Ring
	pending map[uint64]*opContext
	nextTag uint64
}

// New wraps r in a Reactor with its own pending-op table.
func New(r ring.Ring) *Reactor {
	return &Reactor{ring: r, pending: make(map[uint64]*opContext)}
}

func (re *Reactor) register(ctx *opContext) uint64 {
	tag := re.nextTag
	re.nextTag++
	re.pending[tag] = ctx
	return tag
}

// SubmitAccept arms one accept on listenerFD; its continuation fires once,
// for a single accepted connection. cont and user may be
// nil for fire-and-forget (the context is simply dropped on completion).
func (re *Reactor) SubmitAccept(listenerFD int32, user any, cont Continuation) error {
	ctx := getOpContext()
	ctx.kind = KindAccept
	ctx.fd = listenerFD
	ctx.user = user
	ctx.cont = cont

	tag := re.register(ctx)
	if err := re.ring.PrepareAccept(listenerFD, tag); err != nil {
		delete(re.pending, tag)
		putOpContext(ctx)
		return err
	}
	_, err := re.ring.Submit()
	return err
}

// SubmitRecv arms a recv of up to len(buf) bytes on fd. The caller owns buf
// and must keep it valid until the completion fires.
func (re *Reactor) SubmitRecv(fd int32, buf []byte, user any, cont Continuation) error {
	ctx := getOpContext()
	ctx.kind = KindRecv
	ctx.fd = fd
	ctx.user = user
	ctx.cont = cont

	tag := re.register(ctx)
	if err := re.ring.PrepareRecv(fd, buf, tag); err != nil {
		delete(re.pending, tag)
		putOpContext(ctx)
		return err
	}
	_, err := re.ring.Submit()
	return err
}

// SubmitSend arms a send of exactly len(buf) bytes on fd.
func (re *Reactor) SubmitSend(fd int32, buf []byte, user any, cont Continuation) error {
	ctx := getOpContext()
	ctx.kind = KindSend
	ctx.fd = fd
	ctx.user = user
	ctx.cont = cont

	tag := re.register(ctx)
	if err := re.ring.PrepareSend(fd, buf, tag); err != nil {
		delete(re.pending, tag)
		putOpContext(ctx)
		return err
	}
	_, err := re.ring.Submit()
	return err
}

// Run dispatches one completion at a time until WaitCompletion returns an
// error, which Run then returns. There is no other way to stop it; shutdown
// is out of scope per spec.md §4.2.
func (re *Reactor) Run() error {
	for {
		comp, err := re.ring.WaitCompletion()
		if err != nil {
			return err
		}
		re.dispatch(comp.UserData, comp.Res)
	}
}

// DispatchForTest exposes dispatch to other internal packages' tests (e.g.
// internal/room's game-start test) that need to drive a real Reactor one
// completion at a time without running Run's infinite loop against a fake
// ring that can only yield a fixed, finite completion sequence.
func (re *Reactor) DispatchForTest(tag uint64, res int32) {
	re.dispatch(tag, res)
}

// dispatch looks up tag's context, invokes its continuation (or the
// shared WaitAll shim), and releases the context exactly once.
func (re *Reactor) dispatch(tag uint64, res int32) {
	ctx, ok := re.pending[tag]
	if !ok {
		return
	}
	delete(re.pending, tag)

	cont := ctx.cont
	user := ctx.user
	fd := ctx.fd
	wa := ctx.wa
	putOpContext(ctx)

	if wa != nil {
		wa.arrive(res, fd, user)
		return
	}
	if cont != nil {
		cont(res, fd, user)
	}
}
