// Package registry maps 4-digit room codes to live rooms. It is the one
// piece of spec.md explicitly delegated to Go's built-in map: the "generic
// hash table" the spec calls an external collaborator is exactly the type
// this package wraps, not something this package reimplements.
package registry

import (
	"github.com/g4stly/sticks/internal/constants"
	"github.com/g4stly/sticks/internal/util"
)

// Registry is a process-lifetime mapping from room code to room. It carries
// no mutex: per spec.md §5, mutation happens only from the single reactor
// goroutine, so there is never a concurrent writer to guard against.
type Registry[T any] struct {
	rooms map[string]T
}

// New returns an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{rooms: make(map[string]T)}
}

// Create draws a unique 4-digit code, constructs the room via newRoom, and
// inserts it. Collisions redraw the whole code until insertion succeeds;
// with a 10000-code space and at most a handful of live rooms, this
// converges immediately in practice.
func (r *Registry[T]) Create(newRoom func(code string) T) (string, T) {
	for {
		code := randomCode()
		if _, exists := r.rooms[code]; exists {
			continue
		}
		room := newRoom(code)
		r.rooms[code] = room
		return code, room
	}
}

// Lookup returns the room for code, if any.
func (r *Registry[T]) Lookup(code string) (T, bool) {
	room, ok := r.rooms[code]
	return room, ok
}

// Remove detaches code from the registry and returns the room that was
// there, if any. The caller takes ownership of any further teardown.
func (r *Registry[T]) Remove(code string) (T, bool) {
	room, ok := r.rooms[code]
	if ok {
		delete(r.rooms, code)
	}
	return room, ok
}

// Len reports the number of live rooms, mainly for metrics/tests.
func (r *Registry[T]) Len() int {
	return len(r.rooms)
}

func randomCode() string {
	var b [constants.RoomCodeLength]byte
	for i := range b {
		b[i] = util.RandomDigit()
	}
	return string(b[:])
}
