// Package ring wraps a kernel io_uring instance behind the three
// operations the relay server actually needs: accept, recv, send. This is
// the concrete realization of spec.md's "kernel-level asynchronous I/O
// completion queue" — itself an external collaborator the spec treats as
// an abstract submit/complete primitive, not something to reimplement from
// scratch. The default build talks to the kernel directly via raw
// io_uring_setup/io_uring_enter syscalls (minimal.go, ported from the
// teacher's hand-rolled ring); building with the sticks_giouring tag swaps
// in github.com/pawelgaczynski/giouring instead.
package ring

import "errors"

// ErrRingFull is returned when the submission queue has no free slot. The
// reactor's Submit* methods hand it back to their caller unchanged; neither
// this package nor the reactor terminates the process on it, and
// internal/room's handlers discard the error their submissions return.
var ErrRingFull = errors.New("ring: submission queue full")

// Completion is one entry read off the completion queue.
type Completion struct {
	UserData uint64
	Res      int32 // >=0 on success (bytes transferred or accepted fd); <0 is -errno
}

// Ring is the narrow surface internal/reactor drives. Every Prepare* call
// writes an SQE into ring memory without making it visible to the kernel;
// Submit flushes all prepared SQEs with a single io_uring_enter. This
// separation lets the reactor batch an accept re-arm with a send in one
// syscall, the same batching PrepareIOCmd/FlushSubmissions gave the
// teacher's control plane.
type Ring interface {
	// PrepareAccept arms an accept on listenerFD.
	PrepareAccept(listenerFD int32, userData uint64) error

	// PrepareRecv arms a recv of up to len(buf) bytes on fd into buf.
	PrepareRecv(fd int32, buf []byte, userData uint64) error

	// PrepareSend arms a send of exactly len(buf) bytes on fd from buf.
	PrepareSend(fd int32, buf []byte, userData uint64) error

	// Submit flushes every prepared SQE in one io_uring_enter call and
	// returns the number submitted.
	Submit() (uint32, error)

	// WaitCompletion blocks for at least one completion and returns it.
	// The reactor calls this once per loop iteration.
	WaitCompletion() (Completion, error)

	// Close tears down the ring's file descriptor and mappings.
	Close() error
}

// Config configures a new Ring.
type Config struct {
	Entries uint32 // submission queue depth
}
