package model

// Axis is one of the two grid directions a word can run along
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Axes lists both axes in scan order
var Axes = [...]Axis{Horizontal, Vertical}

// Perpendicular returns the other axis
func (a Axis) Perpendicular() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (a Axis) String() string {
	if a == Vertical {
		return "V"
	}
	return "H"
}

// ParseAxis accepts H/V (any case) or the full axis names
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "H", "h", "horizontal", "across":
		return Horizontal, nil
	case "V", "v", "vertical", "down":
		return Vertical, nil
	}
	return 0, ErrInvalidMove
}

// MarshalText encodes the axis as "H" or "V"
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes "H" or "V"
func (a *Axis) UnmarshalText(text []byte) error {
	v, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// AxisMask is a set of axes
type AxisMask uint8

// Has reports whether the axis is in the set
func (m AxisMask) Has(a Axis) bool {
	return m&(1<<a) != 0
}

// With returns the set plus the axis
func (m AxisMask) With(a Axis) AxisMask {
	return m | 1<<a
}

// Cell is one square of the board
type Cell struct {
	Pos  Position
	Tile *Tile
	New  bool // placed by the most recent move

	// Seen is the last pass that visited the cell
	Seen Epoch

	// Per-pass annotations, only meaningful when stamp matches the pass
	// reading them.
	ValidAxes   AxisMask
	NonWord     bool
	Terminating []*Word
	stamp       Epoch

	LetterMultiplier int
	WordMultiplier   int
}

// IsEmpty returns true if no tile is on the cell
func (c *Cell) IsEmpty() bool {
	return c.Tile == nil
}

// Visit stamps the cell for the pass and reports whether this was the first
// visit in that pass
func (c *Cell) Visit(epoch Epoch) bool {
	if c.Seen == epoch {
		return false
	}
	c.Seen = epoch
	return true
}

// Annotate prepares the cell's annotations for writing in a pass, dropping
// anything left by an earlier pass
func (c *Cell) Annotate(epoch Epoch) {
	if c.stamp == epoch {
		return
	}
	c.stamp = epoch
	c.ValidAxes = 0
	c.NonWord = false
	c.Terminating = nil
}

// TerminatingWords returns the words ending next to this cell as recorded in
// the given pass
func (c *Cell) TerminatingWords(epoch Epoch) []*Word {
	if c.stamp != epoch {
		return nil
	}
	return c.Terminating
}

// AnnotatedIn reports whether the cell's annotations belong to the pass
func (c *Cell) AnnotatedIn(epoch Epoch) bool {
	return c.stamp == epoch
}
