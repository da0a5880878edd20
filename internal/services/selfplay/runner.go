// Package selfplay runs robot-only games side by side.
package selfplay

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/crosswordrobot/internal/dependencies/clock"
	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/bot"
	"github.com/mcoot/crosswordrobot/internal/services/game"
)

// Options describe a batch of games
type Options struct {
	Games       int
	Concurrency int      // zero means GOMAXPROCS
	Strategies  []string // one robot seat per entry
	Config      model.GameConfig
}

// Result is the outcome of one game
type Result struct {
	GameID   model.GameID   `json:"game_id" yaml:"game_id"`
	Scores   map[string]int `json:"scores" yaml:"scores"`
	Winner   string         `json:"winner,omitempty" yaml:"winner,omitempty"`
	Turns    int            `json:"turns" yaml:"turns"`
	Duration time.Duration  `json:"duration" yaml:"duration"`
}

// Report aggregates a batch
type Report struct {
	Games []Result           `json:"games" yaml:"games"`
	Wins  map[string]int     `json:"wins" yaml:"wins"`
	Ties  int                `json:"ties" yaml:"ties"`
	Mean  map[string]float64 `json:"mean_score" yaml:"mean_score"`
}

// Runner plays robot games concurrently
type Runner struct {
	games  game.ControllerInterface
	bots   *bot.Service
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a Runner
func New(games game.ControllerInterface, bots *bot.Service, clk clock.Clock, logger *slog.Logger) *Runner {
	return &Runner{
		games:  games,
		bots:   bots,
		clock:  clk,
		logger: logger.With(slog.String("component", "selfplay")),
	}
}

// seatName labels a seat by position and strategy so two robots with the
// same strategy stay distinct
func seatName(i int, strategy string) string {
	return fmt.Sprintf("%d:%s", i+1, strategy)
}

// Run plays opts.Games games and reports the results in game order. The
// first failing game cancels the rest.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	if len(opts.Strategies) == 0 {
		return nil, model.ErrInsufficientPlayers
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range opts.Games {
		g.Go(func() error {
			res, err := r.playOne(ctx, opts)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := summarize(results, opts.Strategies)
	r.logger.Info("self-play finished",
		slog.Int("games", len(results)),
		slog.Int("ties", report.Ties),
	)
	return report, nil
}

func (r *Runner) playOne(ctx context.Context, opts Options) (*Result, error) {
	start := r.clock.Now()
	specs := lo.Map(opts.Strategies, func(st string, i int) game.PlayerSpec {
		return game.PlayerSpec{DisplayName: seatName(i, st), Bot: true, Strategy: st}
	})
	created, err := r.games.CreateGame(ctx, specs, opts.Config)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := r.games.DeleteGame(context.WithoutCancel(ctx), created.ID); err != nil {
			r.logger.Warn("failed to delete self-play game", slog.String("error", err.Error()))
		}
	}()

	if _, err := r.bots.ProcessBotActions(ctx, created.ID); err != nil {
		return nil, err
	}
	final, err := r.games.GetGame(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	if !final.IsComplete() {
		return nil, model.ErrGameInProgress
	}

	res := &Result{
		GameID:   final.ID,
		Scores:   make(map[string]int, len(final.Players)),
		Turns:    len(final.Log),
		Duration: r.clock.Since(start),
	}
	for _, p := range final.Players {
		res.Scores[p.Player.DisplayName] = p.Score
		if p.Player.ID == final.Winner {
			res.Winner = p.Player.DisplayName
		}
	}
	r.logger.Debug("self-play game finished",
		slog.String("game_id", string(final.ID)),
		slog.String("winner", res.Winner),
		slog.Int("turns", res.Turns),
	)
	return res, nil
}

func summarize(results []Result, strategies []string) *Report {
	report := &Report{
		Games: results,
		Wins:  make(map[string]int, len(strategies)),
		Mean:  make(map[string]float64, len(strategies)),
	}
	for i, st := range strategies {
		seat := seatName(i, st)
		report.Wins[seat] = lo.CountBy(results, func(res Result) bool { return res.Winner == seat })
		if len(results) > 0 {
			total := lo.SumBy(results, func(res Result) int { return res.Scores[seat] })
			report.Mean[seat] = float64(total) / float64(len(results))
		}
	}
	report.Ties = lo.CountBy(results, func(res Result) bool { return res.Winner == "" })
	return report
}
