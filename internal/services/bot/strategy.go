package bot

import (
	"github.com/mcoot/crosswordrobot/internal/dependencies/random"
	"github.com/mcoot/crosswordrobot/internal/model"
)

const (
	// DefaultOneOfN is how many top candidates OneOfNStrategy picks between
	DefaultOneOfN = 10
	// DefaultWeakVocabulary is how many of the most common words WeakStrategy knows
	DefaultWeakVocabulary = 2000
)

// Strategy decides which of the generated candidates a robot plays
type Strategy interface {
	// VocabularyLimit restricts the words considered. Zero means all.
	VocabularyLimit() int
	// Pick chooses from candidates ordered best first. Nil means pass.
	Pick(candidates []*model.Word) *model.Word
}

// BestStrategy always plays the highest scoring move
type BestStrategy struct{}

func (BestStrategy) VocabularyLimit() int { return 0 }

func (BestStrategy) Pick(candidates []*model.Word) *model.Word {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// OneOfNStrategy plays one of the N best moves at random
type OneOfNStrategy struct {
	n      int
	random random.Random
}

// NewOneOfNStrategy creates a OneOfNStrategy
func NewOneOfNStrategy(n int, rnd random.Random) *OneOfNStrategy {
	return &OneOfNStrategy{n: max(1, n), random: rnd}
}

func (s *OneOfNStrategy) VocabularyLimit() int { return 0 }

func (s *OneOfNStrategy) Pick(candidates []*model.Word) *model.Word {
	if len(candidates) == 0 {
		return nil
	}
	candidates = candidates[:min(len(candidates), s.n)]
	return candidates[s.random.Intn(len(candidates))]
}

// WeakStrategy plays the best move using only common words
type WeakStrategy struct {
	vocabulary int
}

// NewWeakStrategy creates a WeakStrategy knowing the given number of words
func NewWeakStrategy(vocabulary int) *WeakStrategy {
	return &WeakStrategy{vocabulary: vocabulary}
}

func (s *WeakStrategy) VocabularyLimit() int { return s.vocabulary }

func (s *WeakStrategy) Pick(candidates []*model.Word) *model.Word {
	return BestStrategy{}.Pick(candidates)
}

// DefaultStrategies returns one instance of each named strategy
func DefaultStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		model.BotStrategyBest:   BestStrategy{},
		model.BotStrategyOneOfN: NewOneOfNStrategy(DefaultOneOfN, rnd),
		model.BotStrategyWeak:   NewWeakStrategy(DefaultWeakVocabulary),
	}
}
