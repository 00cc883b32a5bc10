//go:build !sticks_giouring

// Package ring's default build talks to the kernel with raw
// io_uring_setup/io_uring_enter syscalls instead of a binding, the same
// way the teacher's minimal.go hand-rolls URING_CMD submission rather than
// linking a full io_uring library. Build with -tags sticks_giouring to
// swap in the github.com/pawelgaczynski/giouring-backed ring instead.
package ring

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/g4stly/sticks/internal/logging"
)

const (
	__NR_io_uring_setup = 425
	__NR_io_uring_enter = 426
)

const ioringEnterGetEvents = 1 << 0

// sqe is the standard 64-byte submission queue entry. Unlike the teacher's
// sqe128 (needed for ublk's URING_CMD payload), accept/recv/send fit the
// kernel's default SQE layout.
type sqe struct {
	opcode      uint8
	flags       uint8
	ioprio      uint16
	fd          int32
	off         uint64
	addr        uint64
	length      uint32
	opcodeFlags uint32
	userData    uint64
	bufIndex    uint16
	personality uint16
	spliceFdIn  int32
	pad         [2]uint64
}

// cqe is the standard 16-byte completion queue entry.
type cqe struct {
	userData uint64
	res      int32
	flags    uint32
}

type sqRingOffsets struct {
	head        uint32
	tail        uint32
	ringMask    uint32
	ringEntries uint32
	flags       uint32
	dropped     uint32
	array       uint32
	resv1       uint32
	userAddr    uint64
}

type cqRingOffsets struct {
	head        uint32
	tail        uint32
	ringMask    uint32
	ringEntries uint32
	overflow    uint32
	cqes        uint32
	flags       uint32
	resv1       uint32
	userAddr    uint64
}

type params struct {
	sqEntries    uint32
	cqEntries    uint32
	flags        uint32
	sqThreadCPU  uint32
	sqThreadIdle uint32
	features     uint32
	wqFD         uint32
	resv         [3]uint32
	sqOff        sqRingOffsets
	cqOff        cqRingOffsets
}

// minimalRing submits accept/recv/send SQEs straight into mmap'd ring
// memory. One mutex guards the mmap'd SQ: PrepareAccept/Recv/Send are
// called only from the single reactor goroutine in practice, but the lock
// costs nothing and keeps the type safe to reuse from tests that submit
// from more than one goroutine.
type minimalRing struct {
	fd     int
	p      params
	sqMem  []byte
	cqMem  []byte
	sqTail uint32 // local shadow, flushed to shared memory on Submit

	mu sync.Mutex
}

// New creates a ring backed by a freshly created io_uring instance.
func New(cfg Config) (Ring, error) {
	logger := logging.Default()
	logger.Debug("creating minimal io_uring ring", "entries", cfg.Entries)

	var p params
	p.sqEntries = cfg.Entries

	fd, _, errno := syscall.Syscall(__NR_io_uring_setup, uintptr(cfg.Entries), uintptr(unsafe.Pointer(&p)), 0)
	if errno != 0 {
		return nil, fmt.Errorf("io_uring_setup: %w", errno)
	}

	sqSize := p.sqOff.array + p.sqEntries*4
	cqSize := p.cqOff.cqes + p.cqEntries*uint32(unsafe.Sizeof(cqe{}))

	sqMem, err := unix.Mmap(int(fd), 0, int(sqSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		syscall.Close(int(fd))
		return nil, fmt.Errorf("mmap sq ring: %w", err)
	}

	cqMem, err := unix.Mmap(int(fd), 0x8000000, int(cqSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		unix.Munmap(sqMem)
		syscall.Close(int(fd))
		return nil, fmt.Errorf("mmap cq ring: %w", err)
	}

	r := &minimalRing{fd: int(fd), p: p, sqMem: sqMem, cqMem: cqMem}
	r.sqTail = r.loadU32(r.sqMem, p.sqOff.tail)

	logger.Info("created minimal io_uring ring", "entries", cfg.Entries, "fd", fd)
	return r, nil
}

func (r *minimalRing) loadU32(mem []byte, off uint32) uint32 {
	return *(*uint32)(unsafe.Pointer(&mem[off]))
}

func (r *minimalRing) storeU32(mem []byte, off uint32, v uint32) {
	*(*uint32)(unsafe.Pointer(&mem[off])) = v
}

func (r *minimalRing) prepare(s sqe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	head := r.loadU32(r.sqMem, r.p.sqOff.head)
	if r.sqTail-head >= r.p.sqEntries {
		return ErrRingFull
	}

	mask := r.p.sqOff.ringMask
	if mask == 0 {
		mask = r.p.sqEntries - 1
	}
	idx := r.sqTail & mask

	// The SQE array itself lives immediately after the ring header region
	// in kernel-allocated layouts; here we treat sqMem as containing both
	// the header and a flat array of sqe-sized slots starting at a fixed
	// offset computed from sqOff.array, matching how the kernel lays out
	// the mmap'd SQ region.
	slotOff := r.p.sqOff.array + idx*uint32(unsafe.Sizeof(sqe{}))
	if int(slotOff)+int(unsafe.Sizeof(sqe{})) <= len(r.sqMem) {
		*(*sqe)(unsafe.Pointer(&r.sqMem[slotOff])) = s
	}

	arrOff := r.p.sqOff.array + idx*4
	r.storeU32(r.sqMem, arrOff, idx)

	r.sqTail++
	return nil
}

func (r *minimalRing) PrepareAccept(listenerFD int32, userData uint64) error {
	return r.prepare(sqe{opcode: opAccept, fd: listenerFD, userData: userData})
}

func (r *minimalRing) PrepareRecv(fd int32, buf []byte, userData uint64) error {
	var addr uint64
	if len(buf) > 0 {
		addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
	}
	return r.prepare(sqe{opcode: opRecv, fd: fd, addr: addr, length: uint32(len(buf)), userData: userData})
}

func (r *minimalRing) PrepareSend(fd int32, buf []byte, userData uint64) error {
	var addr uint64
	if len(buf) > 0 {
		addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
	}
	return r.prepare(sqe{opcode: opSend, fd: fd, addr: addr, length: uint32(len(buf)), userData: userData})
}

func (r *minimalRing) Submit() (uint32, error) {
	r.mu.Lock()
	toSubmit := r.sqTail - r.loadU32(r.sqMem, r.p.sqOff.tail)
	sfence()
	r.storeU32(r.sqMem, r.p.sqOff.tail, r.sqTail)
	r.mu.Unlock()

	if toSubmit == 0 {
		return 0, nil
	}

	submitted, _, errno := syscall.Syscall6(__NR_io_uring_enter, uintptr(r.fd), uintptr(toSubmit), 0, 0, 0, 0)
	if errno != 0 {
		return 0, fmt.Errorf("io_uring_enter: %w", errno)
	}
	return uint32(submitted), nil
}

// WaitCompletion blocks (via io_uring_enter's GETEVENTS flag) until at
// least one CQE is available, then consumes exactly one.
func (r *minimalRing) WaitCompletion() (Completion, error) {
	for {
		r.mu.Lock()
		head := r.loadU32(r.cqMem, r.p.cqOff.head)
		tail := r.loadU32(r.cqMem, r.p.cqOff.tail)
		if head != tail {
			mask := r.p.cqOff.ringMask
			if mask == 0 {
				mask = r.p.cqEntries - 1
			}
			idx := head & mask
			slotOff := r.p.cqOff.cqes + idx*uint32(unsafe.Sizeof(cqe{}))
			c := *(*cqe)(unsafe.Pointer(&r.cqMem[slotOff]))
			r.storeU32(r.cqMem, r.p.cqOff.head, head+1)
			r.mu.Unlock()
			return Completion{UserData: c.userData, Res: c.res}, nil
		}
		r.mu.Unlock()

		_, _, errno := syscall.Syscall6(__NR_io_uring_enter, uintptr(r.fd), 0, 1, uintptr(ioringEnterGetEvents), 0, 0)
		if errno != 0 {
			return Completion{}, fmt.Errorf("io_uring_enter wait: %w", errno)
		}
	}
}

func (r *minimalRing) Close() error {
	unix.Munmap(r.sqMem)
	unix.Munmap(r.cqMem)
	return syscall.Close(r.fd)
}
