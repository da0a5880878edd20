package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRackTakePrefersExactLetter(t *testing.T) {
	r := RackFromString("A?A", 7, unitValues)

	tile, err := r.Take('A')
	require.NoError(t, err)
	assert.False(t, tile.Blank)

	tile, err = r.Take('a')
	require.NoError(t, err)
	assert.False(t, tile.Blank)

	tile, err = r.Take('A')
	require.NoError(t, err)
	assert.True(t, tile.Blank)
	assert.Equal(t, 'A', tile.Letter)
	assert.Equal(t, 0, tile.Value)

	_, err = r.Take('A')
	assert.ErrorIs(t, err, ErrTileNotInRack)
	assert.True(t, r.IsEmpty())
}

func TestRackCounts(t *testing.T) {
	r := RackFromString("CAT", 7, unitValues)

	assert.Equal(t, 7, r.Capacity())
	assert.Equal(t, 3, r.Count())
	assert.Equal(t, 4, r.Missing())
	assert.Equal(t, "CAT", r.String())
	assert.Equal(t, 3, r.Value())
}

func TestDrawPileRefill(t *testing.T) {
	pile := NewDrawPile([]*Tile{NewTile('X', 8), NewTile('Y', 4)}, nil)
	r := RackFromString("AB", 5, unitValues)

	drawn := pile.Refill(r)

	assert.Equal(t, 2, drawn)
	assert.Equal(t, 4, r.Count())
	assert.Equal(t, 0, pile.Len())

	_, ok := pile.Draw()
	assert.False(t, ok)
	assert.Equal(t, 0, pile.Refill(r))
}

func TestDrawPileShuffleUsesSwap(t *testing.T) {
	tiles := []*Tile{NewTile('A', 1), NewTile('B', 3)}
	reverse := func(n int, swap func(i, j int)) { swap(0, n-1) }

	pile := NewDrawPile(tiles, reverse)

	top, ok := pile.Draw()
	require.True(t, ok)
	assert.Equal(t, 'A', top.Letter)
	assert.Equal(t, 'A', tiles[0].Letter, "source slice untouched")
}

func TestLetterMask(t *testing.T) {
	rack := WordMask("CAT")

	assert.True(t, WordMask("ACT").SubsetOf(rack))
	assert.False(t, WordMask("CATS").SubsetOf(rack))
	assert.True(t, WordMask("ZEBRA").SubsetOf(AllLetters))
	assert.Equal(t, LetterBit('a'), LetterBit('A'))
	assert.NotZero(t, LetterBit('É'))
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove("7:7:H:cats")
	require.NoError(t, err)
	assert.Equal(t, Move{Col: 7, Row: 7, Axis: Horizontal, Word: "CATS"}, m)
	assert.Equal(t, "7:7:H:CATS", m.String())

	w := m.ToWord()
	assert.Equal(t, Position{Row: 7, Col: 7}, w.Anchor)
	assert.Equal(t, m, w.Move())

	for _, bad := range []string{"", "1:2:H", "x:2:H:A", "1:y:H:A", "1:2:D:A", "1:2:V:"} {
		_, err := ParseMove(bad)
		assert.ErrorIs(t, err, ErrInvalidMove, bad)
	}
}

func TestWordPositionsOffBoard(t *testing.T) {
	b := NewBoard(TopologyBounded, 3)
	w := &Word{Anchor: Position{Row: 0, Col: 1}, Axis: Horizontal, Text: "CAT"}

	_, ok := w.Positions(b)
	assert.False(t, ok)

	w.Axis = Vertical
	positions, ok := w.Positions(b)
	assert.True(t, ok)
	assert.Equal(t, []Position{{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 2, Col: 1}}, positions)
}
