// Package retention keeps the best candidate moves found during a search.
package retention

import (
	"cmp"
	"slices"

	"github.com/mcoot/crosswordrobot/internal/model"
)

// Defaults for a pool
const (
	DefaultCapacity  = 64
	DefaultThreshold = 0.5
	DefaultTrimRatio = 0.8
)

// Config holds pool limits. Zero values take the defaults.
type Config struct {
	Capacity  int
	Threshold float64 // reject scores below best * Threshold
	TrimRatio float64 // fraction of capacity kept after a trim
}

// Pool is a bounded, score-ordered set of candidate words.
// A Pool is not safe for concurrent use.
type Pool struct {
	capacity  int
	threshold float64
	trimRatio float64

	items []*model.Word
	keys  map[model.WordKey]struct{}
	best  int
	least int

	// undo state for the most recent Record
	last      *model.Word
	prevBest  int
	prevLeast int
}

// New creates an empty pool
func New(cfg Config) *Pool {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.TrimRatio <= 0 || cfg.TrimRatio >= 1 {
		cfg.TrimRatio = DefaultTrimRatio
	}
	return &Pool{
		capacity:  cfg.Capacity,
		threshold: cfg.Threshold,
		trimRatio: cfg.TrimRatio,
		keys:      make(map[model.WordKey]struct{}),
		least:     -1,
	}
}

// Record offers a candidate to the pool, returning it if it is still
// retained afterwards
func (p *Pool) Record(w *model.Word) (*model.Word, bool) {
	if _, dup := p.keys[w.Key()]; dup {
		return nil, false
	}
	if len(p.items) > 0 && float64(w.Score) < float64(p.best)*p.threshold {
		return nil, false
	}
	if w.Score <= p.least {
		return nil, false
	}

	p.last, p.prevBest, p.prevLeast = w, p.best, p.least
	p.items = append(p.items, w)
	p.keys[w.Key()] = struct{}{}
	p.best = max(p.best, w.Score)

	if len(p.items) >= p.capacity {
		p.Trim()
		if _, kept := p.keys[w.Key()]; !kept {
			p.last = nil
			return nil, false
		}
	}
	return w, true
}

// UnAccept retracts a candidate. Retracting the most recent acceptance also
// restores the best and least scores it changed.
func (p *Pool) UnAccept(w *model.Word) bool {
	i := slices.Index(p.items, w)
	if i < 0 {
		return false
	}
	p.items = slices.Delete(p.items, i, i+1)
	delete(p.keys, w.Key())

	if w == p.last {
		p.best, p.least = p.prevBest, p.prevLeast
		p.last = nil
	}
	return true
}

// Trim sorts the pool by score and, when full, drops the weakest entries
func (p *Pool) Trim() {
	slices.SortStableFunc(p.items, compareWords)
	keep := max(1, int(float64(p.capacity)*p.trimRatio))
	if len(p.items) < p.capacity || len(p.items) <= keep {
		return
	}
	for _, w := range p.items[keep:] {
		delete(p.keys, w.Key())
	}
	clear(p.items[keep:])
	p.items = p.items[:keep]
	p.least = p.items[keep-1].Score
}

// compareWords orders by score descending, then by placement for stable output
func compareWords(a, b *model.Word) int {
	return cmp.Or(
		cmp.Compare(b.Score, a.Score),
		cmp.Compare(a.Text, b.Text),
		cmp.Compare(a.Anchor.Row, b.Anchor.Row),
		cmp.Compare(a.Anchor.Col, b.Anchor.Col),
		cmp.Compare(a.Axis, b.Axis),
	)
}

// Items returns the retained candidates, best first
func (p *Pool) Items() []*model.Word {
	items := slices.Clone(p.items)
	slices.SortStableFunc(items, compareWords)
	return items
}

// Best returns the highest score accepted so far
func (p *Pool) Best() int {
	return p.best
}

// Least returns the score a candidate must beat to be accepted
func (p *Pool) Least() int {
	return p.least
}

// Len returns the number of retained candidates
func (p *Pool) Len() int {
	return len(p.items)
}

// Capacity returns the size at which the pool trims itself
func (p *Pool) Capacity() int {
	return p.capacity
}
