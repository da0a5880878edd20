package tileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	ts := Default()

	assert.Equal(t, DefaultName, ts.Name)
	assert.Equal(t, 100, ts.Size())
	assert.Equal(t, 10, ts.Value('Q'))
	assert.Equal(t, 10, ts.Value('z'))
	assert.Equal(t, 0, ts.Value('?'))

	tiles := ts.Tiles()
	require.Len(t, tiles, 100)
	blanks := 0
	for _, tile := range tiles {
		if tile.Blank {
			blanks++
		}
	}
	assert.Equal(t, 2, blanks)
}

func TestNewPileShuffles(t *testing.T) {
	ts := Default()
	called := false

	pile := ts.NewPile(func(n int, swap func(i, j int)) {
		called = true
		assert.Equal(t, 100, n)
	})

	assert.True(t, called)
	assert.Equal(t, 100, pile.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: tiny
blanks: 1
letters:
  - {letter: a, count: 3, value: 1}
  - {letter: Z, count: 1, value: 9}
`), 0o600))

	ts, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "tiny", ts.Name)
	assert.Equal(t, 5, ts.Size())
	assert.Equal(t, 1, ts.Value('A'))
}

func TestParseRejectsBadSets(t *testing.T) {
	cases := map[string]string{
		"no name":    "letters: [{letter: A, count: 1, value: 1}]",
		"long":       "name: x\nletters: [{letter: AB, count: 1, value: 1}]",
		"digit":      "name: x\nletters: [{letter: '1', count: 1, value: 1}]",
		"duplicate":  "name: x\nletters: [{letter: A, count: 1, value: 1}, {letter: a, count: 1, value: 1}]",
		"negative":   "name: x\nletters: [{letter: A, count: -1, value: 1}]",
		"bad blanks": "name: x\nblanks: -2",
		"not yaml":   "name: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidTileSet)
		})
	}
}
