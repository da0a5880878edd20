package validator

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/dictionary"
	"github.com/mcoot/crosswordrobot/internal/services/scoring"
)

// CapSite is an empty cell directly before or after one or more valid words
type CapSite struct {
	Pos   model.Position `json:"pos"`
	Axis  model.Axis     `json:"axis"`
	Words []*model.Word  `json:"words"`
}

// Result is the outcome of one validation pass
type Result struct {
	Connected bool          `json:"connected"`
	Groups    int           `json:"groups"`
	TileCount int           `json:"tile_count"`
	Words     []*model.Word `json:"words"`
	NonWords  []*model.Word `json:"non_words"`

	// StartCaps are empty cells before a word's first letter, EndCaps after
	// its last
	StartCaps []*CapSite `json:"start_caps,omitempty"`
	EndCaps   []*CapSite `json:"end_caps,omitempty"`

	Epoch model.Epoch `json:"-"`
}

// Valid reports whether the board satisfies connectivity and word rules
func (r *Result) Valid() bool {
	return r.Connected && len(r.NonWords) == 0
}

// Err describes why the board is invalid, or returns nil
func (r *Result) Err() error {
	if !r.Connected {
		return fmt.Errorf("%w: %d separate groups", model.ErrBoardDisconnected, r.Groups)
	}
	if len(r.NonWords) > 0 {
		texts := lo.Map(r.NonWords, func(w *model.Word, _ int) string { return w.Text })
		return fmt.Errorf("%w: %s", model.ErrNonWord, strings.Join(texts, ", "))
	}
	return nil
}

// NewWords returns the valid words touching a newly placed tile
func (r *Result) NewWords() []*model.Word {
	return lo.Filter(r.Words, func(w *model.Word, _ int) bool { return w.New })
}

// TurnScore sums the scores of the new words
func (r *Result) TurnScore() int {
	return lo.SumBy(r.NewWords(), func(w *model.Word) int { return w.Score })
}

// Service checks boards for connectivity and word validity
type Service struct {
	dictionary dictionary.Lexicon
	scoring    *scoring.Service
}

// New creates a new validator
func New(dictionary dictionary.Lexicon, scoring *scoring.Service) *Service {
	return &Service{
		dictionary: dictionary,
		scoring:    scoring,
	}
}

// Validate walks every occupied cell, extracting the maximal runs along both
// axes and counting connected groups. With markNewWords set, words touching a
// tile from the latest move are flagged New.
func (s *Service) Validate(board *model.Board, markNewWords bool) *Result {
	epoch := board.NextEpoch()
	positions := board.OccupiedPositions()

	result := &Result{
		TileCount: len(positions),
		Words:     []*model.Word{},
		NonWords:  []*model.Word{},
		Epoch:     epoch,
	}

	result.Groups = s.countGroups(board, positions, epoch)
	result.Connected = result.Groups <= 1

	for _, pos := range positions {
		for _, axis := range model.Axes {
			if !isRunStart(board, pos, axis) {
				continue
			}
			s.checkRun(board, pos, axis, epoch, markNewWords, result)
		}
	}

	s.collectCaps(board, epoch, result)
	return result
}

// countGroups floods from every unvisited tile with an explicit stack
func (s *Service) countGroups(board *model.Board, positions []model.Position, epoch model.Epoch) int {
	groups := 0
	var stack []model.Position
	for _, pos := range positions {
		if !board.Peek(pos).Visit(epoch) {
			continue
		}
		groups++
		stack = append(stack[:0], pos)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, side := range model.Sides {
				n, ok := board.Neighbor(p, side)
				if !ok {
					continue
				}
				c := board.Peek(n)
				if c == nil || c.Tile == nil {
					continue
				}
				if c.Visit(epoch) {
					stack = append(stack, n)
				}
			}
		}
	}
	return groups
}

// isRunStart reports whether a run along the axis begins at pos. On a
// wrap-around line with no gaps the run starts at coordinate 0.
func isRunStart(board *model.Board, pos model.Position, axis model.Axis) bool {
	prev, ok := board.Step(pos, axis, -1)
	if !ok || !board.IsOccupied(prev) {
		return true
	}
	if board.Topology() != model.TopologyToroidal || coordinate(pos, axis) != 0 {
		return false
	}
	for i := 1; i < board.Size(); i++ {
		next, _ := board.Step(pos, axis, i)
		if !board.IsOccupied(next) {
			return false
		}
	}
	return true
}

func coordinate(pos model.Position, axis model.Axis) int {
	if axis == model.Horizontal {
		return pos.Col
	}
	return pos.Row
}

// Run returns the positions of the occupied run starting at pos
func Run(board *model.Board, pos model.Position, axis model.Axis) []model.Position {
	limit := board.LineLength()
	run := []model.Position{pos}
	for {
		if limit > 0 && len(run) >= limit {
			return run
		}
		next, ok := board.Step(pos, axis, len(run))
		if !ok || !board.IsOccupied(next) {
			return run
		}
		run = append(run, next)
	}
}

func (s *Service) checkRun(board *model.Board, start model.Position, axis model.Axis, epoch model.Epoch, markNewWords bool, result *Result) {
	run := Run(board, start, axis)
	if len(run) < 2 {
		return
	}

	var sb strings.Builder
	isNew := false
	for _, p := range run {
		c := board.Peek(p)
		sb.WriteRune(c.Tile.Letter)
		isNew = isNew || c.New
		c.Annotate(epoch)
	}
	word := &model.Word{Anchor: start, Axis: axis, Text: sb.String()}

	if _, ok := s.dictionary.Lookup(word.Text); !ok {
		for _, p := range run {
			board.Peek(p).NonWord = true
		}
		result.NonWords = append(result.NonWords, word)
		return
	}

	for _, p := range run {
		c := board.Peek(p)
		c.ValidAxes = c.ValidAxes.With(axis)
	}
	word.Score = s.scoring.ScoreRun(board, run)
	word.New = markNewWords && isNew
	result.Words = append(result.Words, word)
}

type capKey struct {
	pos   model.Position
	axis  model.Axis
	start bool
}

// collectCaps records the empty cells at either end of every valid word
func (s *Service) collectCaps(board *model.Board, epoch model.Epoch, result *Result) {
	sites := make(map[capKey]*CapSite)
	add := func(pos model.Position, w *model.Word, start bool) {
		key := capKey{pos: pos, axis: w.Axis, start: start}
		site, ok := sites[key]
		if !ok {
			site = &CapSite{Pos: pos, Axis: w.Axis}
			sites[key] = site
			if start {
				result.StartCaps = append(result.StartCaps, site)
			} else {
				result.EndCaps = append(result.EndCaps, site)
			}
		}
		site.Words = append(site.Words, w)

		c := board.Cell(pos)
		c.Annotate(epoch)
		c.Terminating = append(c.Terminating, w)
	}

	for _, w := range result.Words {
		if before, ok := board.Step(w.Anchor, w.Axis, -1); ok && !board.IsOccupied(before) {
			add(before, w, true)
		}
		if after, ok := board.Step(w.Anchor, w.Axis, w.Len()); ok && !board.IsOccupied(after) {
			add(after, w, false)
		}
	}
}

// Interface check
type ServiceInterface interface {
	Validate(board *model.Board, markNewWords bool) *Result
}

var _ ServiceInterface = (*Service)(nil)
