package sticks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/g4stly/sticks/internal/constants"
)

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Config{})

	require.Equal(t, constants.DefaultPort, s.cfg.Port)
	require.Equal(t, uint32(constants.RingEntries), s.cfg.RingEntries)
	require.NotNil(t, s.cfg.Logger)
	require.NotNil(t, s.cfg.Observer)
	require.NotNil(t, s.handlers)
	require.NotNil(t, s.registry)
}

func TestNewHonorsExplicitConfig(t *testing.T) {
	s := New(Config{Port: 9999, RingEntries: 64})

	require.Equal(t, 9999, s.cfg.Port)
	require.Equal(t, uint32(64), s.cfg.RingEntries)
}
