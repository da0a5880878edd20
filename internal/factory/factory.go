package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/crosswordrobot/internal/config"
	"github.com/mcoot/crosswordrobot/internal/dependencies/clock"
	"github.com/mcoot/crosswordrobot/internal/dependencies/random"
	"github.com/mcoot/crosswordrobot/internal/services/bot"
	"github.com/mcoot/crosswordrobot/internal/services/dictionary"
	"github.com/mcoot/crosswordrobot/internal/services/game"
	"github.com/mcoot/crosswordrobot/internal/services/move"
	"github.com/mcoot/crosswordrobot/internal/services/movegen"
	"github.com/mcoot/crosswordrobot/internal/services/scoring"
	"github.com/mcoot/crosswordrobot/internal/services/selfplay"
	"github.com/mcoot/crosswordrobot/internal/services/validator"
	"github.com/mcoot/crosswordrobot/internal/storage"
	"github.com/mcoot/crosswordrobot/internal/storage/memory"
	redisstorage "github.com/mcoot/crosswordrobot/internal/storage/redis"
	"github.com/mcoot/crosswordrobot/internal/tileset"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DictionaryService *dictionary.Service
	ScoringService    *scoring.Service
	Validator         *validator.Service
	MoveService       *move.Service
	Generator         *movegen.Generator
	GameController    *game.Controller
	BotService        *bot.Service
	SelfPlay          *selfplay.Runner
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Scoring holds the full rack bonus
	Scoring scoring.Config
	// Game tunes hints and retention. Tile sets listed in TileSetPaths are
	// added to Game.TileSets.
	Game         game.Config
	TileSetPaths []string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	gameCfg := cfg.Game
	for _, path := range cfg.TileSetPaths {
		ts, err := tileset.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading tile set %s: %w", path, err)
		}
		gameCfg.TileSets = append(gameCfg.TileSets, ts)
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.Scoring, gameCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	scoringCfg scoring.Config,
	gameCfg game.Config,
	logger *slog.Logger,
) *App {
	dictService := dictionary.New(store)
	scoringService := scoring.New(scoringCfg)
	validatorService := validator.New(dictService, scoringService)
	moveService := move.New(validatorService, scoringService, logger)
	generator := movegen.New(dictService, validatorService, scoringService, moveService, logger)
	gameController := game.NewController(store, generator, moveService, validatorService, scoringService, gameCfg, clk, rnd, logger)
	botService := bot.NewService(gameController, bot.DefaultStrategies(rnd), logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		DictionaryService: dictService,
		ScoringService:    scoringService,
		Validator:         validatorService,
		MoveService:       moveService,
		Generator:         generator,
		GameController:    gameController,
		BotService:        botService,
		SelfPlay:          selfplay.New(gameController, botService, clk, logger),
	}
}

// ConfigFrom translates loaded settings into a factory Config
func ConfigFrom(settings *config.Config, logger *slog.Logger) Config {
	cfg := Config{
		Logger:      logger,
		StorageType: settings.Storage.Type,
		Scoring:     scoring.Config{FullRackBonus: settings.Game.FullRackBonus},
		Game: game.Config{
			HintTTL:   settings.Game.HintTTL,
			Capacity:  settings.Game.RetentionCapacity,
			Threshold: settings.Game.RetentionThreshold,
		},
		TileSetPaths: settings.Dictionary.TileSetPaths,
	}
	if cfg.StorageType == StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = settings.Storage.RedisURL
		redisCfg.PoolSize = settings.Storage.PoolSize
		redisCfg.GameTTL = settings.Storage.GameTTL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}
