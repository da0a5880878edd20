// Package movegen enumerates legal placements for a rack on a board.
package movegen

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/dictionary"
	"github.com/mcoot/crosswordrobot/internal/services/move"
	"github.com/mcoot/crosswordrobot/internal/services/retention"
	"github.com/mcoot/crosswordrobot/internal/services/scoring"
	"github.com/mcoot/crosswordrobot/internal/services/validator"
)

// Options tune a single search
type Options struct {
	// VocabularyLimit skips words ranked below it. Zero means no limit.
	VocabularyLimit int
	// Capacity and Threshold configure the retention pool
	Capacity  int
	Threshold float64
	// Progress receives a value in [0,1] after each length bucket
	Progress func(float64)
}

// Generator finds candidate moves. It holds no per-search state and may be
// shared between goroutines working on different boards.
type Generator struct {
	dictionary dictionary.Lexicon
	validator  *validator.Service
	scoring    *scoring.Service
	applier    *move.Service
	logger     *slog.Logger
}

// New creates a new Generator
func New(
	dictionary dictionary.Lexicon,
	validator *validator.Service,
	scoring *scoring.Service,
	applier *move.Service,
	logger *slog.Logger,
) *Generator {
	return &Generator{
		dictionary: dictionary,
		validator:  validator,
		scoring:    scoring,
		applier:    applier,
		logger:     logger.With(slog.String("component", "movegen")),
	}
}

// Generate returns the best legal placements for the rack, highest score
// first. If ctx is cancelled the candidates found so far are returned along
// with the context error.
func (g *Generator) Generate(ctx context.Context, board *model.Board, rack *model.Rack, opts Options) ([]*model.Word, error) {
	start := time.Now()
	pool := retention.New(retention.Config{Capacity: opts.Capacity, Threshold: opts.Threshold})
	if rack.IsEmpty() {
		return pool.Items(), nil
	}

	base := g.validator.Validate(board, false)
	s := newSearch(g, board, rack, pool, opts)
	err := s.run(ctx, base)

	if base.Valid() {
		g.verify(board, rack, pool)
	}

	items := pool.Items()
	g.logger.Debug("generated candidates",
		slog.Int("candidates", len(items)),
		slog.String("rack", rack.String()),
		slog.Int("placements_tried", s.attempts),
		slog.Duration("elapsed", time.Since(start)),
	)
	return items, err
}

// verify replays each retained candidate on a scratch board and retracts any
// that the full board rules reject
func (g *Generator) verify(board *model.Board, rack *model.Rack, pool *retention.Pool) {
	for _, w := range pool.Items() {
		scratch := board.Clone()
		if _, err := g.applier.Apply(scratch, rack.Clone(), nil, w); err != nil {
			g.logger.Debug("retracting candidate",
				slog.String("word", w.String()),
				slog.String("error", err.Error()),
			)
			pool.UnAccept(w)
		}
	}
}

// Interface check
type GeneratorInterface interface {
	Generate(ctx context.Context, board *model.Board, rack *model.Rack, opts Options) ([]*model.Word, error)
}

var _ GeneratorInterface = (*Generator)(nil)
