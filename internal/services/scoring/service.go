package scoring

import (
	"slices"

	"github.com/samber/lo"

	"github.com/mcoot/crosswordrobot/internal/model"
)

// DefaultFullRackBonus is awarded for a move that empties a full rack
const DefaultFullRackBonus = 50

// Config holds scoring rules
type Config struct {
	// FullRackBonus is added when a move uses every slot of a full rack.
	// Zero disables the bonus.
	FullRackBonus int
}

// Square is one letter of a word being scored
type Square struct {
	Value            int
	LetterMultiplier int
	WordMultiplier   int
	New              bool // multipliers only count for newly placed tiles
}

// Standing is a player's position in the final results
type Standing struct {
	PlayerID model.PlayerID `json:"player_id"`
	Score    int            `json:"score"`
}

// Service provides the point arithmetic for words, moves and final results
type Service struct {
	fullRackBonus int
}

// New creates a new ScoringService
func New(cfg Config) *Service {
	return &Service{fullRackBonus: cfg.FullRackBonus}
}

// Score totals a word: letter values times letter multipliers, summed, then
// times the product of word multipliers
func (s *Service) Score(squares []Square) int {
	sum, factor := 0, 1
	for _, sq := range squares {
		v := sq.Value
		if sq.New {
			v *= max(1, sq.LetterMultiplier)
			factor *= max(1, sq.WordMultiplier)
		}
		sum += v
	}
	return sum * factor
}

// SquareFor describes a cell holding (or about to hold) a tile
func SquareFor(cell *model.Cell, tile *model.Tile, isNew bool) Square {
	sq := Square{Value: tile.Value, LetterMultiplier: 1, WordMultiplier: 1, New: isNew}
	if cell != nil {
		sq.LetterMultiplier = cell.LetterMultiplier
		sq.WordMultiplier = cell.WordMultiplier
	}
	return sq
}

// ScoreRun scores the tiles already on the board at the given positions
func (s *Service) ScoreRun(board *model.Board, positions []model.Position) int {
	squares := make([]Square, 0, len(positions))
	for _, pos := range positions {
		c := board.Peek(pos)
		if c == nil || c.Tile == nil {
			continue
		}
		squares = append(squares, SquareFor(c, c.Tile, c.New))
	}
	return s.Score(squares)
}

// Bonus returns the extra points for a move that placed the given number of
// tiles from a rack of the given capacity
func (s *Service) Bonus(placed, rackCapacity int) int {
	if rackCapacity > 0 && placed == rackCapacity {
		return s.fullRackBonus
	}
	return 0
}

// ApplyEndPenalties subtracts each player's remaining rack value from their
// score. The player who went out, if any, gains the total.
func (s *Service) ApplyEndPenalties(players []*model.GamePlayer, wentOut *model.GamePlayer) {
	total := 0
	for _, p := range players {
		v := p.Rack.Value()
		p.Score -= v
		total += v
	}
	if wentOut != nil {
		wentOut.Score += total
	}
}

// Standings orders players by score, highest first. Ties keep seat order.
func (s *Service) Standings(players []*model.GamePlayer) []Standing {
	standings := lo.Map(players, func(p *model.GamePlayer, _ int) Standing {
		return Standing{PlayerID: p.Player.ID, Score: p.Score}
	})
	slices.SortStableFunc(standings, func(a, b Standing) int {
		return b.Score - a.Score
	})
	return standings
}

// DetermineWinner returns the winner's PlayerID, or empty string if tie
func (s *Service) DetermineWinner(standings []Standing) model.PlayerID {
	if len(standings) == 0 {
		return ""
	}

	top := lo.MaxBy(standings, func(a, b Standing) bool { return a.Score > b.Score })
	tieCount := lo.CountBy(standings, func(st Standing) bool { return st.Score == top.Score })
	if tieCount > 1 {
		return "" // Tie
	}

	return top.PlayerID
}

// Interface for dependency injection
type ServiceInterface interface {
	Score(squares []Square) int
	ScoreRun(board *model.Board, positions []model.Position) int
	Bonus(placed, rackCapacity int) int
	ApplyEndPenalties(players []*model.GamePlayer, wentOut *model.GamePlayer)
	Standings(players []*model.GamePlayer) []Standing
	DetermineWinner(standings []Standing) model.PlayerID
}

var _ ServiceInterface = (*Service)(nil)
