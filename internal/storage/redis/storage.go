package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/storage"
)

// dictionaryBatch bounds the arguments of a single RPUSH
const dictionaryBatch = 1000

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// getJSON decodes the value at key into v, returning notFound for a missing key
func (s *Storage) getJSON(ctx context.Context, key string, v any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	return s.setJSON(ctx, playerKey(player.ID), player, s.cfg.PlayerTTL)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var player model.Player
	if err := s.getJSON(ctx, playerKey(id), &player, model.ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL)
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.getJSON(ctx, gameKey(id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gamesIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// ListGames returns the ids of stored games, pruning index entries whose
// game has expired
func (s *Storage) ListGames(ctx context.Context) ([]model.GameID, error) {
	members, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(members)

	pipe := s.client.Pipeline()
	exists := make([]*redis.IntCmd, len(members))
	for i, id := range members {
		exists[i] = pipe.Exists(ctx, gameKey(model.GameID(id)))
	}
	if len(members) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, err
		}
	}

	ids := make([]model.GameID, 0, len(members))
	var expired []any
	for i, id := range members {
		if exists[i].Val() == 0 {
			expired = append(expired, id)
			continue
		}
		ids = append(ids, model.GameID(id))
	}
	if len(expired) > 0 {
		if err := s.client.SRem(ctx, gamesIndexKey(), expired...).Err(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	key := dictionaryKey()

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}

	return s.client.LRange(ctx, key, 0, -1).Result()
}

// SaveDictionaryWords replaces the stored word list atomically
func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	key := dictionaryKey()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	for chunk := range slices.Chunk(words, dictionaryBatch) {
		members := make([]any, len(chunk))
		for i, w := range chunk {
			members[i] = w
		}
		pipe.RPush(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Hint cache operations

func (s *Storage) GetHint(ctx context.Context, key string) ([]*model.Word, error) {
	var words []*model.Word
	if err := s.getJSON(ctx, hintKey(key), &words, storage.ErrCacheMiss); err != nil {
		return nil, err
	}
	return words, nil
}

func (s *Storage) SaveHint(ctx context.Context, key string, words []*model.Word, ttl time.Duration) error {
	return s.setJSON(ctx, hintKey(key), words, ttl)
}
