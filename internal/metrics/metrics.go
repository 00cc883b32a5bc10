// Package metrics tracks operational counters for the relay server: room
// lifecycle events, join outcomes, and relay traffic. It mirrors the
// teacher's atomic-counter-plus-snapshot shape, scaled down to the handful
// of events spec.md's §6 "Logging" and §8 "Testable properties" sections
// actually call out.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/g4stly/sticks/internal/interfaces"
)

// Metrics tracks counters for the lifetime of a running server.
type Metrics struct {
	RoomsCreated  atomic.Uint64
	RoomsFreed    atomic.Uint64
	JoinsOK       atomic.Uint64
	JoinsRefused  atomic.Uint64
	BadOpcodes    atomic.Uint64
	StatePushes   atomic.Uint64
	PeerGoneSends atomic.Uint64

	StartTime atomic.Int64
}

// New creates a new, zeroed Metrics instance with StartTime set to now.
func New() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// Snapshot is a point-in-time copy of the counters, safe to read without
// further synchronization.
type Snapshot struct {
	RoomsCreated  uint64
	RoomsFreed    uint64
	LiveRooms     int64 // RoomsCreated - RoomsFreed; can't go negative in a correct server
	JoinsOK       uint64
	JoinsRefused  uint64
	BadOpcodes    uint64
	StatePushes   uint64
	PeerGoneSends uint64
	UptimeNs      uint64
}

// Snapshot takes a consistent-enough snapshot of the counters. Because all
// writers run on the single reactor goroutine, a torn read across counters
// is impossible by construction — there is no concurrent writer to race
// with a concurrent reader of a different field.
func (m *Metrics) Snapshot() Snapshot {
	created := m.RoomsCreated.Load()
	freed := m.RoomsFreed.Load()
	return Snapshot{
		RoomsCreated:  created,
		RoomsFreed:    freed,
		LiveRooms:     int64(created) - int64(freed),
		JoinsOK:       m.JoinsOK.Load(),
		JoinsRefused:  m.JoinsRefused.Load(),
		BadOpcodes:    m.BadOpcodes.Load(),
		StatePushes:   m.StatePushes.Load(),
		PeerGoneSends: m.PeerGoneSends.Load(),
		UptimeNs:      uint64(time.Now().UnixNano() - m.StartTime.Load()),
	}
}

// Reset zeroes all counters; useful for tests.
func (m *Metrics) Reset() {
	m.RoomsCreated.Store(0)
	m.RoomsFreed.Store(0)
	m.JoinsOK.Store(0)
	m.JoinsRefused.Store(0)
	m.BadOpcodes.Store(0)
	m.StatePushes.Store(0)
	m.PeerGoneSends.Store(0)
	m.StartTime.Store(time.Now().UnixNano())
}

// Observer adapts a *Metrics to interfaces.Observer.
type Observer struct {
	m *Metrics
}

// NewObserver wraps m as an interfaces.Observer.
func NewObserver(m *Metrics) *Observer { return &Observer{m: m} }

func (o *Observer) ObserveRoomCreated() { o.m.RoomsCreated.Add(1) }
func (o *Observer) ObserveRoomFreed()   { o.m.RoomsFreed.Add(1) }
func (o *Observer) ObserveJoinOK()      { o.m.JoinsOK.Add(1) }
func (o *Observer) ObserveJoinRefused() { o.m.JoinsRefused.Add(1) }
func (o *Observer) ObserveBadOpcode()   { o.m.BadOpcodes.Add(1) }
func (o *Observer) ObserveStatePush()   { o.m.StatePushes.Add(1) }
func (o *Observer) ObservePeerGone()    { o.m.PeerGoneSends.Add(1) }

// NoOpObserver discards every event. Used where a caller (most unit tests)
// doesn't care about metrics.
type NoOpObserver struct{}

func (NoOpObserver) ObserveRoomCreated() {}
func (NoOpObserver) ObserveRoomFreed()   {}
func (NoOpObserver) ObserveJoinOK()      {}
func (NoOpObserver) ObserveJoinRefused() {}
func (NoOpObserver) ObserveBadOpcode()   {}
func (NoOpObserver) ObserveStatePush()   {}
func (NoOpObserver) ObservePeerGone()    {}

var (
	_ interfaces.Observer = (*Observer)(nil)
	_ interfaces.Observer = NoOpObserver{}
)
