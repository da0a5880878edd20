// Package move commits a chosen word to a board.
package move

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/scoring"
	"github.com/mcoot/crosswordrobot/internal/services/validator"
)

// ScoreDelta is the outcome of applying a move
type ScoreDelta struct {
	Points int           `json:"points"`
	Bonus  int           `json:"bonus,omitempty"`
	Words  []*model.Word `json:"words"`
	Placed int           `json:"placed"`
	Drawn  int           `json:"drawn"`
}

// Service places words on boards
type Service struct {
	validator *validator.Service
	scoring   *scoring.Service
	logger    *slog.Logger
}

// New creates a new move applier
func New(validator *validator.Service, scoring *scoring.Service, logger *slog.Logger) *Service {
	return &Service{
		validator: validator,
		scoring:   scoring,
		logger:    logger.With(slog.String("component", "move")),
	}
}

// Apply lays the word on the board using tiles from the rack, scores the
// words it forms and refills the rack from the pile. The board and rack are
// left untouched if the move is illegal. pile may be nil.
func (s *Service) Apply(board *model.Board, rack *model.Rack, pile *model.DrawPile, word *model.Word) (*ScoreDelta, error) {
	letters := []rune(word.Text)
	if len(letters) == 0 {
		return nil, fmt.Errorf("%w: empty word", model.ErrInvalidMove)
	}
	if board.Topology() == model.TopologyToroidal && len(letters) >= board.Size() {
		return nil, fmt.Errorf("%w: %d letters on a %d wide board", model.ErrWordTooLong, len(letters), board.Size())
	}
	positions, ok := word.Positions(board)
	if !ok {
		return nil, fmt.Errorf("%w: %s runs off the board", model.ErrInvalidPosition, word.Text)
	}

	empty, err := s.check(board, rack, word, positions, letters)
	if err != nil {
		return nil, err
	}

	savedSlots := slices.Clone(rack.Slots)
	previouslyNew := s.newPositions(board)
	board.ClearNew()

	for _, i := range empty {
		tile, err := rack.Take(letters[i])
		if err != nil {
			panic(fmt.Sprintf("rack %q lost %q after pre-check", rack.String(), letters[i]))
		}
		if err := board.Place(positions[i], tile, true); err != nil {
			panic(fmt.Sprintf("cell %s filled after pre-check: %v", positions[i], err))
		}
	}

	result := s.validator.Validate(board, true)
	if err := result.Err(); err != nil {
		for _, i := range empty {
			board.Remove(positions[i])
		}
		for _, pos := range previouslyNew {
			board.Cell(pos).New = true
		}
		copy(rack.Slots, savedSlots)
		s.logger.Debug("move rejected",
			slog.String("move", word.Move().String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	bonus := s.scoring.Bonus(len(empty), rack.Capacity())
	delta := &ScoreDelta{
		Points: result.TurnScore() + bonus,
		Bonus:  bonus,
		Words:  result.NewWords(),
		Placed: len(empty),
	}
	delta.Drawn = pile.Refill(rack)
	return delta, nil
}

// check verifies the placement without touching the board or rack and
// returns the indexes of letters that need a tile from the rack
func (s *Service) check(board *model.Board, rack *model.Rack, word *model.Word, positions []model.Position, letters []rune) ([]int, error) {
	if p, ok := board.Step(word.Anchor, word.Axis, -1); ok && board.IsOccupied(p) {
		return nil, fmt.Errorf("%w: before %s", model.ErrWordAbuts, word.Text)
	}
	if p, ok := board.Step(word.Anchor, word.Axis, len(letters)); ok && board.IsOccupied(p) {
		return nil, fmt.Errorf("%w: after %s", model.ErrWordAbuts, word.Text)
	}

	scratch := rack.Clone()
	var empty []int
	for i, pos := range positions {
		if t := board.Tile(pos); t != nil {
			if t.Letter != letters[i] {
				return nil, fmt.Errorf("%w: %c at %s, word has %c", model.ErrLetterMismatch, t.Letter, pos, letters[i])
			}
			continue
		}
		if _, err := scratch.Take(letters[i]); err != nil {
			return nil, fmt.Errorf("%w: %c", err, letters[i])
		}
		empty = append(empty, i)
	}
	if len(empty) == 0 {
		return nil, model.ErrNoTilesPlaced
	}
	return empty, nil
}

func (s *Service) newPositions(board *model.Board) []model.Position {
	var positions []model.Position
	for _, pos := range board.OccupiedPositions() {
		if board.Peek(pos).New {
			positions = append(positions, pos)
		}
	}
	return positions
}

// Interface check
type ServiceInterface interface {
	Apply(board *model.Board, rack *model.Rack, pile *model.DrawPile, word *model.Word) (*ScoreDelta, error)
}

var _ ServiceInterface = (*Service)(nil)
