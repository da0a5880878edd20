package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/game"
)

// MaxBotIterations is a safety limit for the ProcessBotActions loop
const MaxBotIterations = 1000

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionPlay         BotActionType = "play"
	ActionPass         BotActionType = "pass"
	ActionGameComplete BotActionType = "game_complete"
)

// BotAction represents a single action taken by a bot during ProcessBotActions
type BotAction struct {
	Type     BotActionType  `json:"type"`
	PlayerID model.PlayerID `json:"player_id,omitempty"`
	Move     string         `json:"move,omitempty"`
	Points   int            `json:"points,omitempty"`
}

// Service plays the turns of robot players
type Service struct {
	gameController game.ControllerInterface
	strategies     map[string]Strategy
	logger         *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	gameController game.ControllerInterface,
	strategies map[string]Strategy,
	logger *slog.Logger,
) *Service {
	return &Service{
		gameController: gameController,
		strategies:     strategies,
		logger:         logger.With(slog.String("component", "bot-service")),
	}
}

// ChooseMove generates candidates for the player and lets the strategy pick
// one. A nil word means the robot passes.
func (s *Service) ChooseMove(ctx context.Context, gameID model.GameID, player *model.Player) (*model.Word, error) {
	strategy, err := s.strategyFor(player)
	if err != nil {
		return nil, err
	}
	candidates, err := s.gameController.Hint(ctx, gameID, player.ID, game.HintOptions{
		VocabularyLimit: strategy.VocabularyLimit(),
	})
	if err != nil {
		return nil, err
	}
	return strategy.Pick(candidates), nil
}

// ProcessBotActions plays robot turns until a human is to move or the game
// ends. It returns every action taken.
func (s *Service) ProcessBotActions(ctx context.Context, gameID model.GameID) ([]BotAction, error) {
	var actions []BotAction

	for range MaxBotIterations {
		g, err := s.gameController.GetGame(ctx, gameID)
		if err != nil {
			return actions, err
		}
		if g.IsComplete() {
			if len(actions) > 0 {
				actions = append(actions, BotAction{Type: ActionGameComplete})
			}
			return actions, nil
		}

		current := g.CurrentPlayer()
		if current == nil || !current.Player.IsBot {
			return actions, nil
		}

		action, err := s.takeTurn(ctx, gameID, &current.Player)
		if err != nil {
			return actions, err
		}
		actions = append(actions, action)
	}

	return actions, fmt.Errorf("game %s: robots still playing after %d turns", gameID, MaxBotIterations)
}

func (s *Service) takeTurn(ctx context.Context, gameID model.GameID, player *model.Player) (BotAction, error) {
	word, err := s.ChooseMove(ctx, gameID, player)
	if err != nil {
		return BotAction{}, err
	}

	if word != nil {
		mv := word.Move()
		result, err := s.gameController.PlayMove(ctx, gameID, player.ID, mv)
		if err == nil {
			return BotAction{Type: ActionPlay, PlayerID: player.ID, Move: mv.String(), Points: result.Delta.Points}, nil
		}
		s.logger.Warn("generated move rejected, passing",
			slog.String("game_id", string(gameID)),
			slog.String("move", mv.String()),
			slog.String("error", err.Error()),
		)
	}

	if _, err := s.gameController.Pass(ctx, gameID, player.ID); err != nil {
		return BotAction{}, err
	}
	return BotAction{Type: ActionPass, PlayerID: player.ID}, nil
}

func (s *Service) strategyFor(player *model.Player) (Strategy, error) {
	st, ok := s.strategies[player.BotStrategy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, player.BotStrategy)
	}
	return st, nil
}
