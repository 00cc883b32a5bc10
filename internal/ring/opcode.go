package ring

// Kernel io_uring opcodes for the three operations this package issues.
// Unlike the teacher's IORING_OP_URING_CMD (probed at build time because
// ublk control commands are a newer, less stable ABI surface), ACCEPT,
// SEND, and RECV have been stable since early io_uring and need no probe.
const (
	opAccept uint8 = 13
	opSend   uint8 = 26
	opRecv   uint8 = 27
)
