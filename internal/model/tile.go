package model

import (
	"encoding/json"
	"strings"
	"unicode"
)

// BlankLetter marks a blank tile that has not been assigned a letter
const BlankLetter = '?'

// Tile is a lettered playing piece. Tiles are never mutated once created;
// resolving a blank produces a new tile.
type Tile struct {
	Letter rune
	Value  int
	Blank  bool
}

// NewTile creates a regular lettered tile
func NewTile(letter rune, value int) *Tile {
	return &Tile{Letter: unicode.ToUpper(letter), Value: value}
}

// NewBlank creates an unassigned blank tile
func NewBlank() *Tile {
	return &Tile{Letter: BlankLetter, Blank: true}
}

// Resolve returns a copy of a blank standing for letter. Regular tiles are
// returned unchanged.
func (t *Tile) Resolve(letter rune) *Tile {
	if !t.Blank {
		return t
	}
	return &Tile{Letter: unicode.ToUpper(letter), Blank: true}
}

// Unassigned reports whether the tile is a blank still waiting for a letter
func (t *Tile) Unassigned() bool {
	return t.Blank && t.Letter == BlankLetter
}

type tileJSON struct {
	Letter string `json:"letter"`
	Value  int    `json:"value"`
	Blank  bool   `json:"blank,omitempty"`
}

// MarshalJSON encodes the letter as a string
func (t *Tile) MarshalJSON() ([]byte, error) {
	return json.Marshal(tileJSON{Letter: string(t.Letter), Value: t.Value, Blank: t.Blank})
}

// UnmarshalJSON decodes a tile written by MarshalJSON
func (t *Tile) UnmarshalJSON(data []byte) error {
	var in tileJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r := []rune(in.Letter)
	if len(r) != 1 {
		return ErrInvalidLetter
	}
	*t = Tile{Letter: r[0], Value: in.Value, Blank: in.Blank}
	return nil
}

// Rack is a player's fixed-capacity row of tiles. Empty slots are nil.
type Rack struct {
	Slots []*Tile `json:"slots"`
}

// NewRack creates an empty rack
func NewRack(capacity int) *Rack {
	return &Rack{Slots: make([]*Tile, capacity)}
}

// RackFromString builds a rack from letters, '?' or '_' standing for a blank
func RackFromString(letters string, capacity int, values func(rune) int) *Rack {
	runes := []rune(strings.ToUpper(letters))
	r := NewRack(max(capacity, len(runes)))
	for _, ch := range runes {
		if ch == BlankLetter || ch == '_' {
			r.Add(NewBlank())
			continue
		}
		r.Add(NewTile(ch, values(ch)))
	}
	return r
}

// Capacity returns the number of slots
func (r *Rack) Capacity() int {
	return len(r.Slots)
}

// Count returns the number of tiles held
func (r *Rack) Count() int {
	n := 0
	for _, t := range r.Slots {
		if t != nil {
			n++
		}
	}
	return n
}

// Missing returns the number of empty slots
func (r *Rack) Missing() int {
	return r.Capacity() - r.Count()
}

// IsEmpty returns true if the rack holds no tiles
func (r *Rack) IsEmpty() bool {
	return r.Count() == 0
}

// Add puts a tile into the first empty slot, returning false if full
func (r *Rack) Add(t *Tile) bool {
	for i, s := range r.Slots {
		if s == nil {
			r.Slots[i] = t
			return true
		}
	}
	return false
}

// Index returns the slot of a regular tile with the letter, or -1
func (r *Rack) Index(letter rune) int {
	for i, t := range r.Slots {
		if t != nil && !t.Blank && t.Letter == letter {
			return i
		}
	}
	return -1
}

// BlankIndex returns the slot of the first blank, or -1
func (r *Rack) BlankIndex() int {
	for i, t := range r.Slots {
		if t != nil && t.Blank {
			return i
		}
	}
	return -1
}

// Take removes a tile for the letter, preferring an exact match over a
// blank. A blank is returned resolved to the letter.
func (r *Rack) Take(letter rune) (*Tile, error) {
	letter = unicode.ToUpper(letter)
	if i := r.Index(letter); i >= 0 {
		t := r.Slots[i]
		r.Slots[i] = nil
		return t, nil
	}
	if i := r.BlankIndex(); i >= 0 {
		t := r.Slots[i]
		r.Slots[i] = nil
		return t.Resolve(letter), nil
	}
	return nil, ErrTileNotInRack
}

// Letters returns the letters held, blanks as BlankLetter
func (r *Rack) Letters() []rune {
	letters := make([]rune, 0, len(r.Slots))
	for _, t := range r.Slots {
		if t == nil {
			continue
		}
		if t.Blank {
			letters = append(letters, BlankLetter)
		} else {
			letters = append(letters, t.Letter)
		}
	}
	return letters
}

func (r *Rack) String() string {
	return string(r.Letters())
}

// Value returns the summed point value of the tiles held
func (r *Rack) Value() int {
	total := 0
	for _, t := range r.Slots {
		if t != nil {
			total += t.Value
		}
	}
	return total
}

// Clone returns a copy with its own slot slice
func (r *Rack) Clone() *Rack {
	return &Rack{Slots: append([]*Tile(nil), r.Slots...)}
}

// DrawPile is the bag of tiles not yet drawn
type DrawPile struct {
	Tiles []*Tile `json:"tiles"`
}

// NewDrawPile creates a pile, shuffling it with the supplied function
func NewDrawPile(tiles []*Tile, shuffle func(n int, swap func(i, j int))) *DrawPile {
	p := &DrawPile{Tiles: append([]*Tile(nil), tiles...)}
	if shuffle != nil {
		shuffle(len(p.Tiles), func(i, j int) {
			p.Tiles[i], p.Tiles[j] = p.Tiles[j], p.Tiles[i]
		})
	}
	return p
}

// Len returns the number of tiles left
func (p *DrawPile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Tiles)
}

// Draw removes the top tile, reporting false when the pile is empty
func (p *DrawPile) Draw() (*Tile, bool) {
	if p.Len() == 0 {
		return nil, false
	}
	last := len(p.Tiles) - 1
	t := p.Tiles[last]
	p.Tiles = p.Tiles[:last]
	return t, true
}

// Refill draws into the rack until it is full or the pile runs out and
// returns the number of tiles drawn
func (p *DrawPile) Refill(r *Rack) int {
	drawn := 0
	for r.Missing() > 0 {
		t, ok := p.Draw()
		if !ok {
			break
		}
		r.Add(t)
		drawn++
	}
	return drawn
}
