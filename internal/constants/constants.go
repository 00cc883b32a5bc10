// Package constants collects the small set of fixed sizes and defaults the
// relay server is built around.
package constants

const (
	// DefaultPort is the TCP port the server listens on when none is given.
	DefaultPort = 7557

	// ReadSize is the fixed size of every recv buffer: rbuffer[0], rbuffer[1],
	// and the transient first-recv buffer are each this many bytes, the most
	// any single recv reads.
	ReadSize = 8

	// RoomCodeLength is the number of ASCII digits in a room code.
	RoomCodeLength = 4

	// RingEntries is the submission/completion queue depth handed to the
	// kernel at startup. One listener accept slot plus two recvs and two
	// sends per live room comfortably fits within this for the scale the
	// spec targets (no multi-core scaling, no persistence).
	RingEntries = 256
)
