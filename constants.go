package sticks

import "github.com/g4stly/sticks/internal/constants"

// Re-export the fixed sizes a caller embedding Server might want without
// reaching into internal packages.
const (
	DefaultPort    = constants.DefaultPort
	ReadSize       = constants.ReadSize
	RoomCodeLength = constants.RoomCodeLength
	RingEntries    = constants.RingEntries
)
