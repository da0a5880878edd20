package request

import (
	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/game"
)

// CreateGameRequest is the request body for creating a game. Zero config
// fields take the standard rules.
type CreateGameRequest struct {
	Players []game.PlayerSpec `json:"players"`
	Config  model.GameConfig  `json:"config"`
}

// MoveRequest is the request body for playing a word. The move may be given
// either as its text form ("7:7:H:CAT") or as separate fields.
type MoveRequest struct {
	PlayerID string     `json:"player_id"`
	Move     string     `json:"move,omitempty"`
	Col      int        `json:"col"`
	Row      int        `json:"row"`
	Axis     model.Axis `json:"axis"`
	Word     string     `json:"word,omitempty"`
}

// ToMove resolves the request into a move
func (r MoveRequest) ToMove() (model.Move, error) {
	if r.Move != "" {
		return model.ParseMove(r.Move)
	}
	if r.Word == "" {
		return model.Move{}, model.ErrInvalidMove
	}
	return model.Move{Col: r.Col, Row: r.Row, Axis: r.Axis, Word: r.Word}, nil
}

// PassRequest is the request body for passing a turn
type PassRequest struct {
	PlayerID string `json:"player_id"`
}

// SolveRequest is the request body for the stateless solver. Rows use '.'
// for empty cells and lower case letters for blanks.
type SolveRequest struct {
	Topology        model.Topology `json:"topology,omitempty"`
	Size            int            `json:"size,omitempty"`
	BonusLayout     string         `json:"bonus_layout,omitempty"`
	Rows            []string       `json:"rows"`
	Rack            string         `json:"rack"`
	Limit           int            `json:"limit,omitempty"`
	VocabularyLimit int            `json:"vocabulary_limit,omitempty"`
}

// ValidateRequest is the request body for checking a board
type ValidateRequest struct {
	Topology model.Topology `json:"topology,omitempty"`
	Size     int            `json:"size,omitempty"`
	Rows     []string       `json:"rows"`
}

// SelfPlayRequest is the request body for a batch of robot games
type SelfPlayRequest struct {
	Games       int              `json:"games"`
	Concurrency int              `json:"concurrency,omitempty"`
	Strategies  []string         `json:"strategies"`
	Config      model.GameConfig `json:"config"`
}
