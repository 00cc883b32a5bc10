package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFirstByte(t *testing.T) {
	require.Equal(t, byte(0), NormalizeFirstByte(0x00))
	require.Equal(t, byte(0), NormalizeFirstByte('0'))
	require.Equal(t, byte(1), NormalizeFirstByte(0x01))
	require.Equal(t, byte(1), NormalizeFirstByte('1'))
}

func TestDispatchOpcode(t *testing.T) {
	require.Equal(t, OpCreate, DispatchOpcode(0x00))
	require.Equal(t, OpCreate, DispatchOpcode('0'))
	require.Equal(t, OpJoin, DispatchOpcode(0x01))
	require.Equal(t, OpJoin, DispatchOpcode('1'))
	require.Equal(t, OpBad, DispatchOpcode('2'))
	require.Equal(t, OpBad, DispatchOpcode(0xff))
}

func TestQuadrantRotationSelfInverse(t *testing.T) {
	for _, q := range []byte{'1', '2', '3', '4'} {
		require.Equal(t, q, RotateQuadrant(RotateQuadrant(q)))
	}
}

func TestQuadrantRotationPermutation(t *testing.T) {
	require.Equal(t, byte('3'), RotateQuadrant('1'))
	require.Equal(t, byte('4'), RotateQuadrant('2'))
	require.Equal(t, byte('1'), RotateQuadrant('3'))
	require.Equal(t, byte('2'), RotateQuadrant('4'))
}

func TestRotateQuadrantLeavesSentinelUnchanged(t *testing.T) {
	require.Equal(t, byte('0'), RotateQuadrant('0'))
}

func TestFirstStatePush(t *testing.T) {
	frame := FirstStatePush(InitialGame())
	require.Equal(t, Frame{'3', '0', '0', '1', '1', '1', '1', '\n'}, frame)
}

// TestHappyPathRelay reproduces spec scenario 1: the creator moves in
// quadrant 1, and the server relays a transformed frame to the joiner.
func TestHappyPathRelay(t *testing.T) {
	game := InitialGame()

	incoming := Frame{'3', '1', '1', '2', '2', '1', '1', '\n'}
	out, newTurn := BuildRelayFrame(0, incoming, &game)

	require.Equal(t, Game{2, 2, 1, 1}, game)
	require.Equal(t, 1, newTurn)
	require.Equal(t, Frame{'3', '3', '3', '1', '1', '2', '2', '\n'}, out)
}

func TestRelayRotationRoundTrip(t *testing.T) {
	game := InitialGame()

	first := Frame{'3', '1', '2', '2', '2', '1', '1', '\n'}
	relayed, turnAfterFirst := BuildRelayFrame(0, first, &game)
	require.Equal(t, 1, turnAfterFirst)

	// If the receiving peer echoes the exact bytes it was just sent,
	// relaying that echo back produces the original frame byte for byte —
	// the rotation and the quadrant permutation are each self-inverse.
	back, turnAfterReply := BuildRelayFrame(turnAfterFirst, relayed, &game)
	require.Equal(t, 0, turnAfterReply)
	require.Equal(t, first, back)
}

func TestBuildRelayFrameEmitOrderForPeerZero(t *testing.T) {
	game := Game{5, 6, 7, 8}
	incoming := Frame{'3', '1', '1', '0', '0', '0', '0', '\n'}

	out, newTurn := BuildRelayFrame(1, incoming, &game)

	require.Equal(t, 0, newTurn)
	// turn==1 persistence: game[0..3] = incoming[5,6,3,4]
	require.Equal(t, Game{0, 0, 0, 0}, game)
	require.Equal(t, Frame{'3', '3', '3', '0', '0', '0', '0', '\n'}, out)
}
