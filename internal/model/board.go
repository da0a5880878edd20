package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Position identifies a cell on the board
type Position struct {
	Row int `json:"row"` // 0-indexed from top, may be negative when unbounded
	Col int `json:"col"`
}

// String returns the position as "col,row"
func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.Col, p.Row)
}

// Side names one of the four orthogonal neighbours of a cell
type Side int

const (
	Up Side = iota
	Down
	Left
	Right
)

// Sides lists every neighbour direction
var Sides = [...]Side{Up, Down, Left, Right}

func (s Side) step() (axis Axis, n int) {
	switch s {
	case Up:
		return Vertical, -1
	case Down:
		return Vertical, 1
	case Left:
		return Horizontal, -1
	default:
		return Horizontal, 1
	}
}

// Topology controls what happens at the edges of the grid
type Topology string

const (
	// TopologyBounded is a fixed Size x Size grid
	TopologyBounded Topology = "bounded"
	// TopologyUnbounded grows on demand in every direction
	TopologyUnbounded Topology = "unbounded"
	// TopologyToroidal is a Size x Size grid whose edges wrap around
	TopologyToroidal Topology = "toroidal"
)

// ParseTopology converts a topology name, defaulting to bounded
func ParseTopology(s string) (Topology, error) {
	switch Topology(strings.ToLower(s)) {
	case "", TopologyBounded:
		return TopologyBounded, nil
	case TopologyUnbounded:
		return TopologyUnbounded, nil
	case TopologyToroidal:
		return TopologyToroidal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTopology, s)
}

// Epoch is a validation/search pass number. Cells remember the last epoch
// that touched them so per-pass state never needs an O(n) reset.
type Epoch uint64

// Board is a grid of cells holding at most one tile each.
// Cells are stored sparsely and created on demand, which lets the same type
// serve bounded, unbounded and wrap-around grids.
type Board struct {
	topology Topology
	size     int
	layout   string
	cells    map[Position]*Cell
	tiles    int
	epoch    Epoch
}

// NewBoard creates an empty board. Size is ignored for unbounded boards.
func NewBoard(topology Topology, size int) *Board {
	if topology == "" {
		topology = TopologyBounded
	}
	return &Board{
		topology: topology,
		size:     size,
		cells:    make(map[Position]*Cell),
	}
}

// Topology returns the board's edge behaviour
func (b *Board) Topology() Topology {
	return b.topology
}

// Size returns the grid dimension (0 for unbounded boards)
func (b *Board) Size() int {
	if b.topology == TopologyUnbounded {
		return 0
	}
	return b.size
}

// Layout returns the name of the bonus layout applied to the board
func (b *Board) Layout() string {
	return b.layout
}

// Normalize maps a position onto the board. The second result is false when
// the position is off a bounded board.
func (b *Board) Normalize(pos Position) (Position, bool) {
	switch b.topology {
	case TopologyUnbounded:
		return pos, true
	case TopologyToroidal:
		if b.size <= 0 {
			return pos, false
		}
		return Position{Row: wrap(pos.Row, b.size), Col: wrap(pos.Col, b.size)}, true
	default:
		ok := pos.Row >= 0 && pos.Row < b.size && pos.Col >= 0 && pos.Col < b.size
		return pos, ok
	}
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// IsValidPosition returns true if the position lies on the board
func (b *Board) IsValidPosition(pos Position) bool {
	_, ok := b.Normalize(pos)
	return ok
}

// Step moves n cells along an axis (negative n moves backwards)
func (b *Board) Step(pos Position, axis Axis, n int) (Position, bool) {
	if axis == Horizontal {
		pos.Col += n
	} else {
		pos.Row += n
	}
	return b.Normalize(pos)
}

// Neighbor returns the adjacent position on the given side
func (b *Board) Neighbor(pos Position, side Side) (Position, bool) {
	axis, n := side.step()
	return b.Step(pos, axis, n)
}

// LineLength returns how many distinct cells a line along an axis holds,
// or 0 when lines are unbounded
func (b *Board) LineLength() int {
	if b.topology == TopologyUnbounded {
		return 0
	}
	return b.size
}

// Cell returns the cell at pos, creating it if needed.
// Returns nil for positions off the board.
func (b *Board) Cell(pos Position) *Cell {
	pos, ok := b.Normalize(pos)
	if !ok {
		return nil
	}
	if c, ok := b.cells[pos]; ok {
		return c
	}
	c := &Cell{Pos: pos, LetterMultiplier: 1, WordMultiplier: 1}
	if b.layout != "" {
		c.LetterMultiplier, c.WordMultiplier = bonusAt(b.layout, pos)
	}
	b.cells[pos] = c
	return c
}

// Peek returns the cell at pos without creating it
func (b *Board) Peek(pos Position) *Cell {
	pos, ok := b.Normalize(pos)
	if !ok {
		return nil
	}
	return b.cells[pos]
}

// Multipliers returns the letter and word multipliers at pos without
// creating the cell
func (b *Board) Multipliers(pos Position) (letter, word int) {
	if c := b.Peek(pos); c != nil {
		return c.LetterMultiplier, c.WordMultiplier
	}
	pos, _ = b.Normalize(pos)
	if b.layout == "" {
		return 1, 1
	}
	return bonusAt(b.layout, pos)
}

// Tile returns the tile at the given position, or nil if empty
func (b *Board) Tile(pos Position) *Tile {
	if c := b.Peek(pos); c != nil {
		return c.Tile
	}
	return nil
}

// Letter returns the letter at the given position, or 0 if empty
func (b *Board) Letter(pos Position) rune {
	if t := b.Tile(pos); t != nil {
		return t.Letter
	}
	return 0
}

// IsOccupied returns true if a tile sits at the position
func (b *Board) IsOccupied(pos Position) bool {
	return b.Tile(pos) != nil
}

// IsEmpty returns true if the position is on the board and holds no tile
func (b *Board) IsEmpty(pos Position) bool {
	return b.IsValidPosition(pos) && b.Tile(pos) == nil
}

// Place puts a tile on an empty cell
func (b *Board) Place(pos Position, tile *Tile, isNew bool) error {
	c := b.Cell(pos)
	if c == nil {
		return ErrInvalidPosition
	}
	if c.Tile != nil {
		return ErrCellOccupied
	}
	c.Tile = tile
	c.New = isNew
	b.tiles++
	return nil
}

// Remove takes the tile off a cell and returns it
func (b *Board) Remove(pos Position) *Tile {
	c := b.Peek(pos)
	if c == nil || c.Tile == nil {
		return nil
	}
	t := c.Tile
	c.Tile = nil
	c.New = false
	b.tiles--
	return t
}

// ClearNew forgets which tiles were placed in the most recent move
func (b *Board) ClearNew() {
	for _, c := range b.cells {
		c.New = false
	}
}

// TileCount returns the number of tiles on the board
func (b *Board) TileCount() int {
	return b.tiles
}

// IsFull returns true if every cell of a finite board holds a tile
func (b *Board) IsFull() bool {
	if b.topology == TopologyUnbounded {
		return false
	}
	return b.tiles == b.size*b.size
}

// OccupiedPositions returns every occupied position in row-major order
func (b *Board) OccupiedPositions() []Position {
	positions := make([]Position, 0, b.tiles)
	for pos, c := range b.cells {
		if c.Tile != nil {
			positions = append(positions, pos)
		}
	}
	slices.SortFunc(positions, comparePositions)
	return positions
}

func comparePositions(a, b Position) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

// NextEpoch starts a new pass and returns its epoch
func (b *Board) NextEpoch() Epoch {
	b.epoch++
	return b.epoch
}

// Epoch returns the most recently started pass
func (b *Board) Epoch() Epoch {
	return b.epoch
}

// Center returns the starting cell for the first move
func (b *Board) Center() Position {
	if b.topology == TopologyUnbounded {
		return Position{}
	}
	return Position{Row: b.size / 2, Col: b.size / 2}
}

// LineMask returns the letters already placed on the line through pos
func (b *Board) LineMask(pos Position, axis Axis) LetterMask {
	var mask LetterMask
	for p, c := range b.cells {
		if c.Tile == nil {
			continue
		}
		if (axis == Horizontal && p.Row == pos.Row) || (axis == Vertical && p.Col == pos.Col) {
			mask = MaskOf(mask, c.Tile.Letter)
		}
	}
	return mask
}

// Clone returns a deep copy of the board's tiles and flags.
// Per-pass annotations are not copied.
func (b *Board) Clone() *Board {
	n := &Board{
		topology: b.topology,
		size:     b.size,
		layout:   b.layout,
		cells:    make(map[Position]*Cell, len(b.cells)),
		tiles:    b.tiles,
		epoch:    b.epoch,
	}
	for pos, c := range b.cells {
		n.cells[pos] = &Cell{
			Pos:              c.Pos,
			Tile:             c.Tile,
			New:              c.New,
			LetterMultiplier: c.LetterMultiplier,
			WordMultiplier:   c.WordMultiplier,
		}
	}
	return n
}

// ApplyBonusLayout sets letter/word multipliers from a named layout
func (b *Board) ApplyBonusLayout(name string) error {
	if name != "" {
		if err := checkLayout(name, b); err != nil {
			return err
		}
	}
	b.layout = name
	for pos, c := range b.cells {
		c.LetterMultiplier, c.WordMultiplier = 1, 1
		if name != "" {
			c.LetterMultiplier, c.WordMultiplier = bonusAt(name, pos)
		}
	}
	return nil
}

// Extent returns the top-left and bottom-right corners of the area to render
func (b *Board) Extent() (Position, Position, bool) {
	if b.topology != TopologyUnbounded {
		if b.size <= 0 {
			return Position{}, Position{}, false
		}
		return Position{}, Position{Row: b.size - 1, Col: b.size - 1}, true
	}
	positions := b.OccupiedPositions()
	if len(positions) == 0 {
		return Position{}, Position{}, false
	}
	minPos, maxPos := positions[0], positions[0]
	for _, p := range positions[1:] {
		minPos.Row = min(minPos.Row, p.Row)
		minPos.Col = min(minPos.Col, p.Col)
		maxPos.Row = max(maxPos.Row, p.Row)
		maxPos.Col = max(maxPos.Col, p.Col)
	}
	return minPos, maxPos, true
}

// Rows renders the board as text, '.' for empty cells and lower case for
// resolved blanks
func (b *Board) Rows() []string {
	topLeft, bottomRight, ok := b.Extent()
	if !ok {
		return nil
	}
	rows := make([]string, 0, bottomRight.Row-topLeft.Row+1)
	for row := topLeft.Row; row <= bottomRight.Row; row++ {
		var sb strings.Builder
		for col := topLeft.Col; col <= bottomRight.Col; col++ {
			t := b.Tile(Position{Row: row, Col: col})
			switch {
			case t == nil:
				sb.WriteRune(EmptyMarker)
			case t.Blank:
				sb.WriteRune(unicode.ToLower(t.Letter))
			default:
				sb.WriteRune(t.Letter)
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// EmptyMarker is the character used for empty cells in text boards
const EmptyMarker = '.'

// BoardFromRows builds a board from text rows. Upper case letters are regular
// tiles, lower case letters are blanks standing for that letter, and '.' or
// ' ' mark empty cells. For bounded and toroidal boards a size of 0 is taken
// from the rows.
func BoardFromRows(topology Topology, size int, rows []string, values func(rune) int) (*Board, error) {
	if size == 0 {
		size = len(rows)
		for _, r := range rows {
			size = max(size, len([]rune(r)))
		}
	}
	b := NewBoard(topology, size)
	for row, line := range rows {
		for col, ch := range []rune(line) {
			if ch == EmptyMarker || ch == ' ' {
				continue
			}
			if !unicode.IsLetter(ch) {
				return nil, fmt.Errorf("%w: %q at row %d col %d", ErrInvalidLetter, ch, row, col)
			}
			var tile *Tile
			if unicode.IsLower(ch) {
				tile = NewBlank().Resolve(unicode.ToUpper(ch))
			} else {
				tile = NewTile(ch, values(ch))
			}
			if err := b.Place(Position{Row: row, Col: col}, tile, false); err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", row, col, err)
			}
		}
	}
	return b, nil
}

type boardJSON struct {
	Topology Topology     `json:"topology"`
	Size     int          `json:"size,omitempty"`
	Layout   string       `json:"layout,omitempty"`
	Tiles    []placedTile `json:"tiles"`
}

type placedTile struct {
	Row  int   `json:"row"`
	Col  int   `json:"col"`
	Tile *Tile `json:"tile"`
	New  bool  `json:"new,omitempty"`
}

// MarshalJSON encodes the occupied cells only
func (b *Board) MarshalJSON() ([]byte, error) {
	out := boardJSON{
		Topology: b.topology,
		Size:     b.Size(),
		Layout:   b.layout,
		Tiles:    make([]placedTile, 0, b.tiles),
	}
	for _, pos := range b.OccupiedPositions() {
		c := b.cells[pos]
		out.Tiles = append(out.Tiles, placedTile{Row: pos.Row, Col: pos.Col, Tile: c.Tile, New: c.New})
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the board from its encoded tiles
func (b *Board) UnmarshalJSON(data []byte) error {
	var in boardJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = *NewBoard(in.Topology, in.Size)
	if err := b.ApplyBonusLayout(in.Layout); err != nil {
		return err
	}
	for _, pt := range in.Tiles {
		if err := b.Place(Position{Row: pt.Row, Col: pt.Col}, pt.Tile, pt.New); err != nil {
			return err
		}
	}
	return nil
}
