package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAssignsUniqueCode(t *testing.T) {
	reg := New[string]()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, room := reg.Create(func(code string) string { return code })
		require.Len(t, code, 4)
		require.Equal(t, code, room)
		require.False(t, seen[code], "code %q reused", code)
		seen[code] = true
	}
	require.Equal(t, 50, reg.Len())
}

func TestLookupAndRemove(t *testing.T) {
	reg := New[int]()
	code, _ := reg.Create(func(code string) int { return 7 })

	got, ok := reg.Lookup(code)
	require.True(t, ok)
	require.Equal(t, 7, got)

	removed, ok := reg.Remove(code)
	require.True(t, ok)
	require.Equal(t, 7, removed)

	_, ok = reg.Lookup(code)
	require.False(t, ok)

	_, ok = reg.Remove(code)
	require.False(t, ok)
}

func TestCreateRetriesOnCollision(t *testing.T) {
	reg := New[string]()
	first, _ := reg.Create(func(code string) string { return code })

	// Occupy every remaining code but one, so every draw except that one
	// collides and the second Create has to keep redrawing until it lands
	// on the single free code.
	free := ""
	for i := 0; i < 10000; i++ {
		code := fmt.Sprintf("%04d", i)
		if code == first {
			continue
		}
		if free == "" {
			free = code
			continue
		}
		reg.rooms[code] = code
	}

	second, _ := reg.Create(func(code string) string { return code })
	require.NotEqual(t, first, second)
	require.Equal(t, free, second)
}
