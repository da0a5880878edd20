package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/dictionary"
	"github.com/mcoot/crosswordrobot/internal/storage/memory"
	"github.com/mcoot/crosswordrobot/internal/tileset"
)

// CommonWords is a small word list, most common first, used across tests
var CommonWords = []string{
	"the", "at", "to", "do", "go", "so", "as", "it", "is", "on", "no", "an",
	"cat", "dog", "act", "sat", "tas", "cats", "dogs", "god", "gods", "ta",
	"aa", "taco", "coat", "scat", "cast", "acts", "tact", "dot", "dots",
}

// Dictionary returns a loaded dictionary service backed by memory storage
func Dictionary(t testing.TB, words ...string) *dictionary.Service {
	t.Helper()
	if len(words) == 0 {
		words = CommonWords
	}
	d := dictionary.New(memory.New())
	require.NoError(t, d.LoadWords(words))
	return d
}

// Values returns the default tile set's letter values
func Values(letter rune) int {
	return defaultTiles.Value(letter)
}

var defaultTiles = tileset.Default()

// Board builds a board from text rows using the default letter values
func Board(t testing.TB, topology model.Topology, size int, rows ...string) *model.Board {
	t.Helper()
	b, err := model.BoardFromRows(topology, size, rows, Values)
	require.NoError(t, err)
	return b
}

// Rack builds a rack from letters ('?' for a blank) using default values
func Rack(letters string, capacity int) *model.Rack {
	return model.RackFromString(letters, capacity, Values)
}
