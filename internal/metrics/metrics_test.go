package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObserverIncrementsCounters(t *testing.T) {
	m := New()
	obs := NewObserver(m)

	obs.ObserveRoomCreated()
	obs.ObserveRoomCreated()
	obs.ObserveRoomFreed()
	obs.ObserveJoinOK()
	obs.ObserveJoinRefused()
	obs.ObserveBadOpcode()
	obs.ObserveStatePush()
	obs.ObserveStatePush()
	obs.ObserveStatePush()
	obs.ObservePeerGone()

	snap := m.Snapshot()
	require.EqualValues(t, 2, snap.RoomsCreated)
	require.EqualValues(t, 1, snap.RoomsFreed)
	require.EqualValues(t, 1, snap.LiveRooms)
	require.EqualValues(t, 1, snap.JoinsOK)
	require.EqualValues(t, 1, snap.JoinsRefused)
	require.EqualValues(t, 1, snap.BadOpcodes)
	require.EqualValues(t, 3, snap.StatePushes)
	require.EqualValues(t, 1, snap.PeerGoneSends)
}

func TestResetZeroesCounters(t *testing.T) {
	m := New()
	obs := NewObserver(m)
	obs.ObserveRoomCreated()
	obs.ObserveStatePush()

	m.Reset()

	snap := m.Snapshot()
	require.Zero(t, snap.RoomsCreated)
	require.Zero(t, snap.StatePushes)
}

func TestNoOpObserverDoesNotPanic(t *testing.T) {
	var obs NoOpObserver
	obs.ObserveRoomCreated()
	obs.ObserveRoomFreed()
	obs.ObserveJoinOK()
	obs.ObserveJoinRefused()
	obs.ObserveBadOpcode()
	obs.ObserveStatePush()
	obs.ObservePeerGone()
}
