package reactor

// WaitAll is the N-shot barrier from spec.md §4.3: constructed with a fixed
// count, it fires its continuation exactly once, when the Nth sibling
// completion lands, carrying that last arrival's (res, fd, user) triplet.
// Used for the room's game-start rendezvous (WaitAll(2) across both peers'
// "game-start" writes). Exported (rather than spec.md's opaque record) so
// internal/room can hold a reference across two SubmitSendWaitAll calls.
type WaitAll struct {
	remaining int
	user      any
	cont      Continuation
	res       int32
	fd        int32
}

// NewWaitAll constructs a barrier for exactly n sibling completions. n is
// fixed at creation; spec.md explicitly does not require dynamic growth.
func NewWaitAll(n int, user any, cont Continuation) *WaitAll {
	return &WaitAll{remaining: n, user: user, cont: cont}
}

// arrive is the shared shim every sibling completion calls through
// Reactor.dispatch. It decrements the count and, on reaching zero, invokes
// the real continuation exactly once.
func (w *WaitAll) arrive(res int32, fd int32, user any) {
	w.remaining--
	w.res, w.fd = res, fd
	if w.remaining <= 0 && w.cont != nil {
		w.cont(w.res, w.fd, w.user)
	}
}

// SubmitSendWaitAll arms a send on fd whose completion is routed through wa
// instead of a standalone continuation — the sibling shim used to
// rendezvous game-start writes to both peers.
func (re *Reactor) SubmitSendWaitAll(fd int32, buf []byte, wa *WaitAll) error {
	ctx := getOpContext()
	ctx.kind = KindSend
	ctx.fd = fd
	ctx.wa = wa

	tag := re.register(ctx)
	if err := re.ring.PrepareSend(fd, buf, tag); err != nil {
		delete(re.pending, tag)
		putOpContext(ctx)
		return err
	}
	_, err := re.ring.Submit()
	return err
}
