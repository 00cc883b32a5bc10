package reactor

import "sync"

// opContextPool recycles the small per-op heap record across submissions
// instead of allocating fresh on every SubmitAccept/Recv/Send, the same
// shape as the teacher's queue.GetBuffer/PutBuffer bucketed sync.Pool —
// here there's only one "bucket" since every opContext is the same size.
var opContextPool = sync.Pool{New: func() any { return &opContext{} }}

func getOpContext() *opContext {
	return opContextPool.Get().(*opContext)
}

// putOpContext resets and returns ctx to the pool. Called exactly once per
// context: from Reactor.dispatch, after its continuation has been read out
// but before it runs — so a continuation that itself submits a new op
// never collides with its own not-yet-recycled record — or from the
// Submit* call whose Prepare* step failed.
func putOpContext(ctx *opContext) {
	ctx.reset()
	opContextPool.Put(ctx)
}
