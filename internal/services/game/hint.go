package game

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/movegen"
	"github.com/mcoot/crosswordrobot/internal/storage"
)

// HintOptions narrow a candidate search
type HintOptions struct {
	// Limit caps the number of candidates returned. Zero returns all retained.
	Limit int
	// VocabularyLimit only considers the most common words. Zero means all.
	VocabularyLimit int
}

// Hint returns ranked candidate moves for the player's current rack
func (c *Controller) Hint(ctx context.Context, gameID model.GameID, playerID model.PlayerID, opts HintOptions) ([]*model.Word, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.IsComplete() {
		return nil, model.ErrGameComplete
	}
	p := game.PlayerByID(playerID)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	return c.Solve(ctx, game.BoardFor(p), p.Rack, opts)
}

// Solve generates candidates for any board and rack, consulting the hint
// cache first. Neither argument is modified.
func (c *Controller) Solve(ctx context.Context, board *model.Board, rack *model.Rack, opts HintOptions) ([]*model.Word, error) {
	key := HintKey(board, rack, opts.VocabularyLimit)
	if c.cfg.HintTTL > 0 {
		words, err := c.storage.GetHint(ctx, key)
		switch {
		case err == nil:
			c.logger.Debug("hint cache hit", slog.String("key", key))
			return limit(words, opts.Limit), nil
		case !errors.Is(err, storage.ErrCacheMiss):
			c.logger.Warn("hint cache read failed", slog.String("error", err.Error()))
		}
	}

	words, err := c.generator.Generate(ctx, board.Clone(), rack.Clone(), movegen.Options{
		VocabularyLimit: opts.VocabularyLimit,
		Capacity:        c.cfg.Capacity,
		Threshold:       c.cfg.Threshold,
	})
	if err != nil {
		return nil, err
	}

	if c.cfg.HintTTL > 0 {
		if err := c.storage.SaveHint(ctx, key, words, c.cfg.HintTTL); err != nil {
			c.logger.Warn("hint cache write failed", slog.String("error", err.Error()))
		}
	}
	return limit(words, opts.Limit), nil
}

func limit(words []*model.Word, n int) []*model.Word {
	if n > 0 && len(words) > n {
		return words[:n]
	}
	return words
}

// HintKey fingerprints everything a candidate search depends on: the board's
// shape, layout and tiles, the rack's letters in any order and the
// vocabulary limit
func HintKey(board *model.Board, rack *model.Rack, vocabularyLimit int) string {
	d := xxhash.New()
	_, _ = d.WriteString(string(board.Topology()))
	_, _ = d.WriteString("|" + strconv.Itoa(board.Size()))
	_, _ = d.WriteString("|" + board.Layout())
	if topLeft, _, ok := board.Extent(); ok {
		_, _ = d.WriteString("|" + topLeft.String())
	}
	for _, row := range board.Rows() {
		_, _ = d.WriteString("|" + row)
	}

	letters := rack.Letters()
	slices.Sort(letters)
	_, _ = d.WriteString("|" + string(letters))
	_, _ = d.WriteString("|" + strconv.Itoa(rack.Capacity()))
	_, _ = d.WriteString("|" + strconv.Itoa(vocabularyLimit))
	return strconv.FormatUint(d.Sum64(), 16)
}
