package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mcoot/crosswordrobot/internal/model"
)

// ErrCacheMiss is returned when a hint is absent or expired
var ErrCacheMiss = errors.New("hint not cached")

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGames(ctx context.Context) ([]model.GameID, error)

	// Dictionary operations. Words keep their order, which is their rank.
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error

	// Hint cache operations
	GetHint(ctx context.Context, key string) ([]*model.Word, error)
	SaveHint(ctx context.Context, key string, words []*model.Word, ttl time.Duration) error
}
