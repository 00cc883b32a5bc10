// Package protocol implements the relay server's 8-byte wire frames: the
// client opcode dispatch on first recv, and the game-state rotation applied
// on every STATE_PUSH relay. Everything here is pure and allocation-light so
// internal/room can call it straight from a completion continuation without
// ever blocking.
package protocol

import "github.com/g4stly/sticks/internal/constants"

// Opcode identifies the first-recv dispatch branch a connection takes.
type Opcode byte

const (
	OpCreate Opcode = 0
	OpJoin   Opcode = 1
	OpBad    Opcode = 0xff
)

// StatePushByte is the literal wire byte for a STATE_PUSH frame. Unlike the
// first-recv opcode byte, this one is never normalized — a client must send
// the ASCII character '3', not 0x03. See NormalizeFirstByte.
const StatePushByte = '3'

// Frame is a fixed 8-byte read/write unit: every STATE_PUSH frame and every
// first recv is exactly this many bytes.
type Frame [constants.ReadSize]byte

// NormalizeFirstByte implements the spec's lenient first-byte rule: a byte
// ≥ '0' is treated as its ASCII-digit value minus '0'; anything smaller
// (e.g. a raw 0x00 or 0x01) passes through unchanged. This is why a raw
// 0x00 and an ASCII '0' both dispatch to CREATE.
func NormalizeFirstByte(b byte) byte {
	if b >= '0' {
		return b - '0'
	}
	return b
}

// DispatchOpcode classifies a first-recv frame's opening byte into a
// first-recv Opcode. STATE_PUSH is not reachable here — it only ever
// appears on a steady-state recv after a Room already exists.
func DispatchOpcode(b byte) Opcode {
	switch NormalizeFirstByte(b) {
	case 0:
		return OpCreate
	case 1:
		return OpJoin
	default:
		return OpBad
	}
}

// quadRotate maps quadrant digit '1'..'4' through the fixed 180° rotation
// {1->3, 2->4, 3->1, 4->2}. Any other input byte is returned unchanged —
// the sentinel byte '0' used by the first state push is one such case.
var quadRotate = [4]byte{'3', '4', '1', '2'}

// RotateQuadrant applies the fixed 180° quadrant permutation to an ASCII
// quadrant digit, or returns q unchanged if it is outside '1'..'4' (the
// '0' sentinel used by the first push).
func RotateQuadrant(q byte) byte {
	if q < '1' || q > '4' {
		return q
	}
	return quadRotate[q-'1']
}

// Game is the 2x2 board, cells 0..3, each a small nonnegative integer in
// the sender's own orientation.
type Game [4]int

// InitialGame is the board state before any move has been made.
func InitialGame() Game { return Game{1, 1, 1, 1} }

// PersistIncoming updates game in place from an incoming STATE_PUSH frame,
// using the mapping appropriate to whichever peer is the current turn
// holder (turn is the Room's turn value *before* the flip performed by
// BuildRelayFrame).
func (g *Game) PersistIncoming(turn int, incoming Frame) {
	d := func(i int) int { return int(incoming[i] - '0') }
	if turn == 0 {
		g[0], g[1], g[2], g[3] = d(3), d(4), d(5), d(6)
		return
	}
	g[0], g[1], g[2], g[3] = d(5), d(6), d(3), d(4)
}

// emitOrder returns the cell order to write into the outgoing frame for the
// peer about to receive it (destTurn is the turn value *after* the flip).
func (g Game) emitOrder(destTurn int) (int, int, int, int) {
	if destTurn == 1 {
		return g[2], g[3], g[0], g[1]
	}
	return g[0], g[1], g[2], g[3]
}

// BuildRelayFrame persists incoming's cells into game, rotates the
// quadrant identifiers, and builds the outgoing frame for the new turn
// holder. It returns the frame to send and the post-flip turn index,
// mirroring spec §4.6 steps 1-4 exactly.
func BuildRelayFrame(turn int, incoming Frame, game *Game) (Frame, int) {
	game.PersistIncoming(turn, incoming)

	newTurn := 1 - turn
	c0, c1, c2, c3 := game.emitOrder(newTurn)

	var out Frame
	out[0] = StatePushByte
	out[1] = RotateQuadrant(incoming[1])
	out[2] = RotateQuadrant(incoming[2])
	out[3] = byte('0' + c0)
	out[4] = byte('0' + c1)
	out[5] = byte('0' + c2)
	out[6] = byte('0' + c3)
	out[7] = '\n'

	return out, newTurn
}

// FirstStatePush builds the sentinel frame sent to the turn holder (turn 0,
// the creator) immediately after game-start: both quadrant fields are '0'
// and the cells are the unrotated initial board.
func FirstStatePush(game Game) Frame {
	var out Frame
	out[0] = StatePushByte
	out[1] = '0'
	out[2] = '0'
	out[3] = byte('0' + game[0])
	out[4] = byte('0' + game[1])
	out[5] = byte('0' + game[2])
	out[6] = byte('0' + game[3])
	out[7] = '\n'
	return out
}
