// Package tileset describes how many tiles of each letter a game uses and
// what they are worth.
package tileset

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/crosswordrobot/internal/model"
)

// DefaultName is the name of the built-in English distribution
const DefaultName = "english"

var ErrInvalidTileSet = errors.New("invalid tile set")

//go:embed english.yaml
var englishYAML []byte

// LetterSpec is one letter's entry in a tile set
type LetterSpec struct {
	Letter string `yaml:"letter"`
	Count  int    `yaml:"count"`
	Value  int    `yaml:"value"`
}

// TileSet is a letter distribution
type TileSet struct {
	Name    string       `yaml:"name"`
	Blanks  int          `yaml:"blanks"`
	Letters []LetterSpec `yaml:"letters"`

	values map[rune]int
}

// Default returns the built-in English distribution
func Default() *TileSet {
	ts, err := Parse(englishYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in tile set: %v", err))
	}
	return ts
}

// Parse decodes a YAML tile set
func Parse(data []byte) (*TileSet, error) {
	var ts TileSet
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTileSet, err)
	}
	if err := ts.index(); err != nil {
		return nil, err
	}
	return &ts, nil
}

// Load reads a YAML tile set from a reader
func Load(r io.Reader) (*TileSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFile reads a YAML tile set from disk
func LoadFile(path string) (*TileSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (ts *TileSet) index() error {
	if ts.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTileSet)
	}
	if ts.Blanks < 0 {
		return fmt.Errorf("%w: negative blank count", ErrInvalidTileSet)
	}
	ts.values = make(map[rune]int, len(ts.Letters))
	for _, spec := range ts.Letters {
		if utf8.RuneCountInString(spec.Letter) != 1 {
			return fmt.Errorf("%w: letter %q", ErrInvalidTileSet, spec.Letter)
		}
		r := unicode.ToUpper([]rune(spec.Letter)[0])
		if !unicode.IsLetter(r) {
			return fmt.Errorf("%w: letter %q", ErrInvalidTileSet, spec.Letter)
		}
		if _, dup := ts.values[r]; dup {
			return fmt.Errorf("%w: duplicate letter %q", ErrInvalidTileSet, spec.Letter)
		}
		if spec.Count < 0 || spec.Value < 0 {
			return fmt.Errorf("%w: letter %q has negative count or value", ErrInvalidTileSet, spec.Letter)
		}
		ts.values[r] = spec.Value
	}
	return nil
}

// Value returns a letter's point value. Letters outside the set are worth 0.
func (ts *TileSet) Value(letter rune) int {
	return ts.values[unicode.ToUpper(letter)]
}

// Size returns the total number of tiles
func (ts *TileSet) Size() int {
	n := ts.Blanks
	for _, spec := range ts.Letters {
		n += spec.Count
	}
	return n
}

// Tiles returns one unshuffled tile per count
func (ts *TileSet) Tiles() []*model.Tile {
	tiles := make([]*model.Tile, 0, ts.Size())
	for _, spec := range ts.Letters {
		r := unicode.ToUpper([]rune(spec.Letter)[0])
		for range spec.Count {
			tiles = append(tiles, model.NewTile(r, spec.Value))
		}
	}
	for range ts.Blanks {
		tiles = append(tiles, model.NewBlank())
	}
	return tiles
}

// NewPile returns a freshly shuffled draw pile
func (ts *TileSet) NewPile(shuffle func(n int, swap func(i, j int))) *model.DrawPile {
	return model.NewDrawPile(ts.Tiles(), shuffle)
}
