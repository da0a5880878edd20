package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/crosswordrobot/internal/dependencies/mocks"
	"github.com/mcoot/crosswordrobot/internal/services/game"
	"github.com/mcoot/crosswordrobot/internal/services/scoring"
	"github.com/mcoot/crosswordrobot/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Piles are left unshuffled so racks are dealt from the end of the tile set.
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	store := memory.NewWithClock(mockClock)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom,
		scoring.Config{FullRackBonus: scoring.DefaultFullRackBonus},
		game.Config{HintTTL: time.Minute},
		logger,
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// TestWords is a small word list, most common first
var TestWords = []string{
	"the", "at", "to", "it", "is", "in", "on", "as", "so", "no", "we", "us",
	"an", "do", "go", "he", "me", "my", "of", "or", "up", "be", "by", "if",
	"and", "are", "was", "you", "not", "but", "can", "had", "her", "his",
	"one", "our", "out", "sat", "set", "sit", "sun", "ten", "tin", "ton",
	"too", "two", "use", "way", "why", "yes", "yet", "zoo", "cat", "dog",
	"vet", "wry", "yew", "zap", "zen", "zip", "axe", "fox", "jam",
	"quiz", "that", "this", "with", "from", "they", "have", "were", "what",
	"word", "rest", "star", "rats", "arts", "tars", "stare", "rates", "tears",
	"water", "words", "sword", "story", "stone", "notes", "onset", "tones",
	"rain", "rein", "ruin", "rune", "tune", "tone", "note", "nose", "rose",
	"sore", "ores", "roes", "eros", "toes", "dote", "dots", "dose", "does",
	"cats", "dogs", "acts", "cast", "scat", "coat", "taco", "tact", "date",
	"rated", "trade", "tread", "dater", "treads", "traders", "started",
}

// LoadTestDictionary loads a small dictionary for testing
func (t *TestApp) LoadTestDictionary() error {
	return t.DictionaryService.LoadWords(TestWords)
}
