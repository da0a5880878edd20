package dictionary

import (
	"bufio"
	"context"
	"iter"
	"os"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/storage"
)

// Entry is a dictionary word with its popularity rank and letter mask.
// Rank 1 is the most common word; ranks follow the order words were loaded.
type Entry struct {
	Word string           `json:"word"`
	Rank int              `json:"rank"`
	Mask model.LetterMask `json:"-"`
}

// Len returns the number of letters in the word
func (e Entry) Len() int {
	return utf8.RuneCountInString(e.Word)
}

// LetterMask adds a letter to a mask
func LetterMask(mask model.LetterMask, letter rune) model.LetterMask {
	return model.MaskOf(mask, letter)
}

// Normalize converts a word to the dictionary's canonical form (NFC, upper case)
func Normalize(word string) string {
	return cases.Upper(language.Und).String(norm.NFC.String(strings.TrimSpace(word)))
}

// Service provides dictionary/word validation functionality
type Service struct {
	storage storage.Storage

	mu        sync.RWMutex
	entries   map[string]Entry
	byLength  map[int][]Entry
	alphabet  []rune
	maxLength int
	loaded    bool
}

// New creates a new DictionaryService
func New(storage storage.Storage) *Service {
	return &Service{
		storage:  storage,
		entries:  make(map[string]Entry),
		byLength: make(map[int][]Entry),
	}
}

// LoadFromStorage loads dictionary words from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return model.ErrDictionaryNotLoaded
	}
	return s.loadWords(words)
}

// LoadFromFile loads dictionary words from a file, one word per line with the
// most common words first
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" && !strings.HasPrefix(word, "#") {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Save to storage for future use
	if err := s.storage.SaveDictionaryWords(ctx, words); err != nil {
		return err
	}

	return s.loadWords(words)
}

// LoadWords directly loads a slice of words in rank order
func (s *Service) LoadWords(words []string) error {
	return s.loadWords(words)
}

func (s *Service) loadWords(words []string) error {
	entries := make(map[string]Entry, len(words))
	byLength := make(map[int][]Entry)
	letters := make(map[rune]struct{})
	maxLength := 0

	for _, raw := range words {
		word := Normalize(raw)
		if !isWord(word) {
			continue
		}
		if _, dup := entries[word]; dup {
			continue
		}
		e := Entry{Word: word, Rank: len(entries) + 1, Mask: model.WordMask(word)}
		entries[word] = e
		n := e.Len()
		byLength[n] = append(byLength[n], e)
		maxLength = max(maxLength, n)
		for _, r := range word {
			letters[r] = struct{}{}
		}
	}

	alphabet := make([]rune, 0, len(letters))
	for r := range letters {
		alphabet = append(alphabet, r)
	}
	slices.Sort(alphabet)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.byLength = byLength
	s.alphabet = alphabet
	s.maxLength = maxLength
	s.loaded = true
	return nil
}

func isWord(word string) bool {
	if utf8.RuneCountInString(word) < 2 {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Lookup returns the entry for a word
func (s *Service) Lookup(word string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return Entry{}, false
	}
	e, ok := s.entries[word]
	if !ok {
		e, ok = s.entries[Normalize(word)]
	}
	return e, ok
}

// IsValidWord checks if a word exists in the dictionary
// Words must be at least 2 characters
func (s *Service) IsValidWord(word string) bool {
	_, ok := s.Lookup(word)
	return ok
}

// Subdictionary yields every word of the given length in rank order
func (s *Service) Subdictionary(length int) iter.Seq[Entry] {
	s.mu.RLock()
	bucket := s.byLength[length]
	s.mu.RUnlock()

	return func(yield func(Entry) bool) {
		for _, e := range bucket {
			if !yield(e) {
				return
			}
		}
	}
}

// MaxLength returns the length of the longest word
func (s *Service) MaxLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxLength
}

// Alphabet returns every letter used by the dictionary, sorted
func (s *Service) Alphabet() []rune {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.alphabet)
}

// IsLoaded returns whether the dictionary has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of words in the dictionary
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Lexicon is the read-only view of the dictionary used by the search and
// validation code
type Lexicon interface {
	Lookup(word string) (Entry, bool)
	Subdictionary(length int) iter.Seq[Entry]
	MaxLength() int
	Alphabet() []rune
}

// Interface check
type ServiceInterface interface {
	Lexicon
	IsValidWord(word string) bool
	IsLoaded() bool
	WordCount() int
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadWords(words []string) error
}

var _ ServiceInterface = (*Service)(nil)

// ErrDictionaryNotLoaded is returned when operations are attempted before loading
var ErrDictionaryNotLoaded = model.ErrDictionaryNotLoaded
