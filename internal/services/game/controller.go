package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mcoot/crosswordrobot/internal/dependencies/clock"
	"github.com/mcoot/crosswordrobot/internal/dependencies/random"
	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/move"
	"github.com/mcoot/crosswordrobot/internal/services/movegen"
	"github.com/mcoot/crosswordrobot/internal/services/scoring"
	"github.com/mcoot/crosswordrobot/internal/services/validator"
	"github.com/mcoot/crosswordrobot/internal/storage"
	"github.com/mcoot/crosswordrobot/internal/tileset"
)

// MaxBoardSize bounds the side of bounded and toroidal boards
const MaxBoardSize = 64

// Config holds controller settings
type Config struct {
	// HintTTL is how long generated candidates stay cached. Zero disables caching.
	HintTTL time.Duration
	// Capacity and Threshold configure the candidate retention pool
	Capacity  int
	Threshold float64
	// TileSets are the distributions games may name, in addition to the default
	TileSets []*tileset.TileSet
}

// PlayerSpec describes a seat requested when creating a game
type PlayerSpec struct {
	DisplayName string `json:"display_name"`
	Bot         bool   `json:"bot"`
	Strategy    string `json:"strategy,omitempty"`
}

// MoveResult is the outcome of a played move
type MoveResult struct {
	Game  *model.Game      `json:"game"`
	Delta *move.ScoreDelta `json:"delta"`
}

// Controller manages the turn flow of games
type Controller struct {
	storage   storage.Storage
	generator *movegen.Generator
	applier   *move.Service
	validator *validator.Service
	scoring   *scoring.Service
	tileSets  map[string]*tileset.TileSet
	cfg       Config
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger

	locksMu sync.Mutex
	locks   map[model.GameID]*sync.Mutex
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	generator *movegen.Generator,
	applier *move.Service,
	validator *validator.Service,
	scoring *scoring.Service,
	cfg Config,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	tileSets := map[string]*tileset.TileSet{tileset.DefaultName: tileset.Default()}
	for _, ts := range cfg.TileSets {
		tileSets[ts.Name] = ts
	}
	return &Controller{
		storage:   storage,
		generator: generator,
		applier:   applier,
		validator: validator,
		scoring:   scoring,
		tileSets:  tileSets,
		cfg:       cfg,
		clock:     clock,
		random:    random,
		logger:    logger.With(slog.String("component", "game-controller")),
		locks:     make(map[model.GameID]*sync.Mutex),
	}
}

// lock serializes mutations of one game and returns the unlock function
func (c *Controller) lock(id model.GameID) func() {
	c.locksMu.Lock()
	mu, ok := c.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		c.locks[id] = mu
	}
	c.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// CreateGame deals racks to the requested players and starts the game
func (c *Controller) CreateGame(ctx context.Context, players []PlayerSpec, cfg model.GameConfig) (*model.Game, error) {
	if len(players) == 0 {
		return nil, model.ErrInsufficientPlayers
	}
	cfg = withDefaults(cfg)
	ts, err := c.checkConfig(cfg)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:        model.GameID(uuid.NewString()),
		State:     model.GameStatePlaying,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if cfg.BoardMode == model.BoardModeShared {
		if game.Board, err = c.newBoard(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.PileMode == model.PileModeShared {
		game.Pile = ts.NewPile(c.random.Shuffle)
	}

	for i, spec := range players {
		player, err := c.newPlayer(i, spec, now)
		if err != nil {
			return nil, err
		}
		if err := c.storage.SavePlayer(ctx, player); err != nil {
			return nil, err
		}

		seat := &model.GamePlayer{Player: *player, Rack: model.NewRack(cfg.RackSize)}
		if cfg.BoardMode == model.BoardModePrivate {
			if seat.Board, err = c.newBoard(cfg); err != nil {
				return nil, err
			}
		}
		if cfg.PileMode == model.PileModePrivate {
			seat.Pile = ts.NewPile(c.random.Shuffle)
		}
		game.PileFor(seat).Refill(seat.Rack)
		game.Players = append(game.Players, seat)
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.Int("player_count", len(players)),
		slog.String("topology", string(cfg.Topology)),
		slog.Int("board_size", cfg.BoardSize),
	)
	return game, nil
}

func withDefaults(cfg model.GameConfig) model.GameConfig {
	def := model.DefaultGameConfig()
	if cfg.Topology == "" {
		cfg.Topology = def.Topology
	}
	if cfg.BoardSize == 0 && cfg.Topology != model.TopologyUnbounded {
		cfg.BoardSize = def.BoardSize
	}
	if cfg.BoardMode == "" {
		cfg.BoardMode = def.BoardMode
	}
	if cfg.PileMode == "" {
		cfg.PileMode = def.PileMode
	}
	if cfg.RackSize == 0 {
		cfg.RackSize = def.RackSize
	}
	if cfg.MaxConsecutivePasses == 0 {
		cfg.MaxConsecutivePasses = def.MaxConsecutivePasses
	}
	if cfg.TileSet == "" {
		cfg.TileSet = tileset.DefaultName
	}
	return cfg
}

func (c *Controller) checkConfig(cfg model.GameConfig) (*tileset.TileSet, error) {
	if _, err := model.ParseTopology(string(cfg.Topology)); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidGameConfig, err)
	}
	if cfg.Topology != model.TopologyUnbounded && (cfg.BoardSize < 2 || cfg.BoardSize > MaxBoardSize) {
		return nil, fmt.Errorf("%w: board size %d", model.ErrInvalidGameConfig, cfg.BoardSize)
	}
	if cfg.BoardMode != model.BoardModeShared && cfg.BoardMode != model.BoardModePrivate {
		return nil, fmt.Errorf("%w: board mode %q", model.ErrInvalidGameConfig, cfg.BoardMode)
	}
	if cfg.PileMode != model.PileModeShared && cfg.PileMode != model.PileModePrivate {
		return nil, fmt.Errorf("%w: pile mode %q", model.ErrInvalidGameConfig, cfg.PileMode)
	}
	if cfg.RackSize < 1 || cfg.MaxConsecutivePasses < 1 {
		return nil, fmt.Errorf("%w: rack size and pass limit must be positive", model.ErrInvalidGameConfig)
	}
	ts, ok := c.tileSets[cfg.TileSet]
	if !ok {
		return nil, fmt.Errorf("%w: tile set %q", model.ErrInvalidGameConfig, cfg.TileSet)
	}
	return ts, nil
}

func (c *Controller) newBoard(cfg model.GameConfig) (*model.Board, error) {
	board := model.NewBoard(cfg.Topology, cfg.BoardSize)
	if err := board.ApplyBonusLayout(cfg.BonusLayout); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidGameConfig, err)
	}
	return board, nil
}

func (c *Controller) newPlayer(seat int, spec PlayerSpec, now time.Time) (*model.Player, error) {
	player := &model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: spec.DisplayName,
		IsBot:       spec.Bot,
		CreatedAt:   now,
	}
	if spec.Bot {
		player.BotStrategy = spec.Strategy
		if player.BotStrategy == "" {
			player.BotStrategy = model.BotStrategyBest
		}
		if !lo.Contains(model.ValidBotStrategies(), player.BotStrategy) {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, player.BotStrategy)
		}
	}
	if player.DisplayName == "" {
		if spec.Bot {
			player.DisplayName = fmt.Sprintf("%s Bot %d", model.BotStrategyDisplayName(player.BotStrategy), seat+1)
		} else {
			player.DisplayName = fmt.Sprintf("Player %d", seat+1)
		}
	}
	return player, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// ListGames returns the ids of all stored games
func (c *Controller) ListGames(ctx context.Context) ([]model.GameID, error) {
	return c.storage.ListGames(ctx)
}

// DeleteGame removes a game and the players seated in it
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) error {
	unlock := c.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	for _, p := range game.Players {
		if err := c.storage.DeletePlayer(ctx, p.Player.ID); err != nil {
			return err
		}
	}
	return c.storage.DeleteGame(ctx, gameID)
}

// GetPlayer retrieves a player by ID
func (c *Controller) GetPlayer(ctx context.Context, playerID model.PlayerID) (*model.Player, error) {
	return c.storage.GetPlayer(ctx, playerID)
}

// seat loads a game for mutation and checks that it is the player's turn
func (c *Controller) seat(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, *model.GamePlayer, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game.IsComplete() {
		return nil, nil, model.ErrGameComplete
	}
	p := game.PlayerByID(playerID)
	if p == nil {
		return nil, nil, model.ErrPlayerNotFound
	}
	if game.CurrentPlayer() != p {
		return nil, nil, model.ErrNotPlayerTurn
	}
	return game, p, nil
}

// PlayMove places a word for the current player, draws replacement tiles
// and passes the turn on. The game ends when the player empties their rack
// with nothing left to draw.
func (c *Controller) PlayMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, mv model.Move) (*MoveResult, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, p, err := c.seat(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	word := mv.ToWord()
	mv = word.Move()
	pile := game.PileFor(p)
	delta, err := c.applier.Apply(game.BoardFor(p), p.Rack, pile, word)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	p.Score += delta.Points
	game.ConsecutivePasses = 0
	game.Log = append(game.Log, model.MoveRecord{
		Turn:     game.CurrentTurn,
		PlayerID: playerID,
		Kind:     model.MoveKindPlay,
		Move:     mv.String(),
		Points:   delta.Points,
		Words:    lo.Map(delta.Words, func(w *model.Word, _ int) string { return w.Text }),
		At:       now,
	})

	if p.Rack.IsEmpty() && pile.Len() == 0 {
		c.finish(game, p)
	} else {
		game.AdvanceTurn()
	}
	game.UpdatedAt = now

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("move played",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.String("move", mv.String()),
		slog.Int("points", delta.Points),
	)
	return &MoveResult{Game: game, Delta: delta}, nil
}

// Pass gives up the player's turn. The game ends once every seat has
// passed MaxConsecutivePasses times in a row between them.
func (c *Controller) Pass(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	unlock := c.lock(gameID)
	defer unlock()

	game, _, err := c.seat(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game.ConsecutivePasses++
	game.Log = append(game.Log, model.MoveRecord{
		Turn:     game.CurrentTurn,
		PlayerID: playerID,
		Kind:     model.MoveKindPass,
		At:       now,
	})

	if game.ConsecutivePasses >= game.Config.MaxConsecutivePasses {
		c.finish(game, nil)
	} else {
		game.AdvanceTurn()
	}
	game.UpdatedAt = now

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	c.logger.Debug("turn passed",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Int("consecutive_passes", game.ConsecutivePasses),
	)
	return game, nil
}

// finish applies rack penalties and settles the winner
func (c *Controller) finish(game *model.Game, wentOut *model.GamePlayer) {
	c.scoring.ApplyEndPenalties(game.Players, wentOut)
	game.Winner = c.scoring.DetermineWinner(c.scoring.Standings(game.Players))
	game.State = model.GameStateComplete

	c.logger.Info("game completed",
		slog.String("game_id", string(game.ID)),
		slog.String("winner", string(game.Winner)),
		slog.Int("total_turns", game.CurrentTurn+1),
	)
}

// Validate checks the board the player plays on. With an empty playerID the
// shared board, or the first seat's board, is checked.
func (c *Controller) Validate(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*validator.Result, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	board, err := boardOf(game, playerID)
	if err != nil {
		return nil, err
	}
	return c.validator.Validate(board, false), nil
}

func boardOf(game *model.Game, playerID model.PlayerID) (*model.Board, error) {
	if playerID == "" {
		if game.Board != nil {
			return game.Board, nil
		}
		if len(game.Players) == 0 {
			return nil, model.ErrPlayerNotFound
		}
		return game.BoardFor(game.Players[0]), nil
	}
	p := game.PlayerByID(playerID)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	return game.BoardFor(p), nil
}

// Summary returns the final standings of a completed game
func (c *Controller) Summary(ctx context.Context, gameID model.GameID) (*model.GameSummary, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsComplete() {
		return nil, model.ErrGameInProgress
	}

	completedAt := game.UpdatedAt
	if n := len(game.Log); n > 0 {
		completedAt = game.Log[n-1].At
	}
	return &model.GameSummary{
		ID:          game.ID,
		FinalScores: game.Scores(),
		Winner:      game.Winner,
		Turns:       len(game.Log),
		CompletedAt: completedAt,
	}, nil
}

// Standings orders a game's players by score
func (c *Controller) Standings(game *model.Game) []scoring.Standing {
	return c.scoring.Standings(game.Players)
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, players []PlayerSpec, cfg model.GameConfig) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]model.GameID, error)
	DeleteGame(ctx context.Context, gameID model.GameID) error
	GetPlayer(ctx context.Context, playerID model.PlayerID) (*model.Player, error)
	PlayMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, mv model.Move) (*MoveResult, error)
	Pass(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	Hint(ctx context.Context, gameID model.GameID, playerID model.PlayerID, opts HintOptions) ([]*model.Word, error)
	Solve(ctx context.Context, board *model.Board, rack *model.Rack, opts HintOptions) ([]*model.Word, error)
	Validate(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*validator.Result, error)
	Summary(ctx context.Context, gameID model.GameID) (*model.GameSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
