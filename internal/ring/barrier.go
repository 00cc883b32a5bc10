//go:build linux && cgo

package ring

/*
#include <stdint.h>

static inline void sfence_impl(void) {
    __asm__ __volatile__("sfence" ::: "memory");
}
*/
import "C"

// sfence issues a store fence (x86 SFENCE) so every SQE write the reactor
// just made is globally visible before the SQ tail publish that follows.
// Ported verbatim from the teacher's barrier.go: the memory-ordering
// requirement is the ring's, not the ublk control plane's, so it carries
// over unchanged.
func sfence() {
	C.sfence_impl()
}
