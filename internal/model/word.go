package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Word is a run of letters on the board, either already placed or proposed
// as a move
type Word struct {
	Anchor Position `json:"anchor"`
	Axis   Axis     `json:"axis"`
	Text   string   `json:"text"`
	Score  int      `json:"score"`
	New    bool     `json:"new,omitempty"`
	Placed int      `json:"placed,omitempty"` // rack tiles used by a candidate
}

// WordKey identifies duplicate words: same text from the same anchor cell
type WordKey struct {
	Text   string
	Anchor Position
}

// Key returns the duplicate-detection key
func (w *Word) Key() WordKey {
	return WordKey{Text: w.Text, Anchor: w.Anchor}
}

// Len returns the number of letters
func (w *Word) Len() int {
	return utf8.RuneCountInString(w.Text)
}

// Positions returns the cells the word covers. The second result is false if
// any cell is off the board.
func (w *Word) Positions(b *Board) ([]Position, bool) {
	n := w.Len()
	positions := make([]Position, 0, n)
	for i := range n {
		pos, ok := b.Step(w.Anchor, w.Axis, i)
		if !ok {
			return nil, false
		}
		positions = append(positions, pos)
	}
	return positions, true
}

// Move converts the word to its move representation
func (w *Word) Move() Move {
	return Move{Col: w.Anchor.Col, Row: w.Anchor.Row, Axis: w.Axis, Word: w.Text}
}

func (w *Word) String() string {
	return fmt.Sprintf("%s@%s%s(%d)", w.Text, w.Anchor, w.Axis, w.Score)
}

// Move is a word placement as exchanged with callers and written to the
// move log
type Move struct {
	Col  int    `json:"col"`
	Row  int    `json:"row"`
	Axis Axis   `json:"axis"`
	Word string `json:"word"`
}

// String encodes the move as <col>:<row>:<H|V>:<WORD>
func (m Move) String() string {
	return fmt.Sprintf("%d:%d:%s:%s", m.Col, m.Row, m.Axis, m.Word)
}

// ToWord converts the move into an unscored word
func (m Move) ToWord() *Word {
	return &Word{
		Anchor: Position{Row: m.Row, Col: m.Col},
		Axis:   m.Axis,
		Text:   strings.ToUpper(m.Word),
	}
}

// ParseMove decodes the text form written by Move.String
func ParseMove(s string) (Move, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 4 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	col, err := strconv.Atoi(parts[0])
	if err != nil {
		return Move{}, fmt.Errorf("%w: column %q", ErrInvalidMove, parts[0])
	}
	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return Move{}, fmt.Errorf("%w: row %q", ErrInvalidMove, parts[1])
	}
	axis, err := ParseAxis(parts[2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: axis %q", ErrInvalidMove, parts[2])
	}
	if parts[3] == "" {
		return Move{}, fmt.Errorf("%w: empty word", ErrInvalidMove)
	}
	return Move{Col: col, Row: row, Axis: axis, Word: strings.ToUpper(parts[3])}, nil
}
