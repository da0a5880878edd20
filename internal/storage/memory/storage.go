package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/crosswordrobot/internal/dependencies/clock"
	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Games and hints are held in their JSON form so callers never share
// mutable boards with the store.
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock

	players         map[model.PlayerID]*model.Player
	games           map[model.GameID][]byte
	dictionaryWords []string
	hints           map[string]hintEntry
}

type hintEntry struct {
	data      []byte
	expiresAt time.Time // zero means never
}

// New creates a new in-memory storage instance
func New() *Storage {
	return NewWithClock(clock.New())
}

// NewWithClock creates an in-memory storage that expires hints against clk
func NewWithClock(clk clock.Clock) *Storage {
	return &Storage{
		clock:   clk,
		players: make(map[model.PlayerID]*model.Player),
		games:   make(map[model.GameID][]byte),
		hints:   make(map[string]hintEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = data
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	data, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrGameNotFound
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) ListGames(ctx context.Context) ([]model.GameID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.GameID, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dictionaryWords == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	return slices.Clone(s.dictionaryWords), nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaryWords = slices.Clone(words)
	if s.dictionaryWords == nil {
		s.dictionaryWords = []string{}
	}
	return nil
}

// Hint cache operations

func (s *Storage) GetHint(ctx context.Context, key string) ([]*model.Word, error) {
	s.mu.RLock()
	entry, ok := s.hints[key]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !s.clock.Now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.hints, key)
		s.mu.Unlock()
		return nil, storage.ErrCacheMiss
	}

	var words []*model.Word
	if err := json.Unmarshal(entry.data, &words); err != nil {
		return nil, err
	}
	return words, nil
}

func (s *Storage) SaveHint(ctx context.Context, key string, words []*model.Word, ttl time.Duration) error {
	data, err := json.Marshal(words)
	if err != nil {
		return err
	}
	entry := hintEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = s.clock.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints[key] = entry
	return nil
}
