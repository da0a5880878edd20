package movegen

import (
	"context"
	"slices"

	"github.com/samber/lo"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/dictionary"
	"github.com/mcoot/crosswordrobot/internal/services/retention"
	"github.com/mcoot/crosswordrobot/internal/services/scoring"
	"github.com/mcoot/crosswordrobot/internal/services/validator"
)

// seed is a cell a new word must pass through: an existing tile, or an empty
// cap cell that a rack letter can hook onto
type seed struct {
	pos      model.Position
	axis     model.Axis // direction of the new word
	letter   rune
	lineMask model.LetterMask
}

// base is an existing word that longer words may be built around
type base struct {
	word     *model.Word
	letters  []rune
	lineMask model.LetterMask
}

// search holds the scratch state of one Generate call
type search struct {
	g     *Generator
	board *model.Board
	rack  *model.Rack
	pool  *retention.Pool
	opts  Options

	rackMask  model.LetterMask
	rackCount int
	maxLen    int

	// ledger of rack slots claimed by the current placement check
	slotStamp []uint64
	stamp     uint64

	attempts int
}

func newSearch(g *Generator, board *model.Board, rack *model.Rack, pool *retention.Pool, opts Options) *search {
	s := &search{
		g:         g,
		board:     board,
		rack:      rack,
		pool:      pool,
		opts:      opts,
		rackCount: rack.Count(),
		maxLen:    g.dictionary.MaxLength(),
		slotStamp: make([]uint64, rack.Capacity()),
	}
	for _, t := range rack.Slots {
		switch {
		case t == nil:
		case t.Blank:
			s.rackMask = model.AllLetters
		default:
			s.rackMask = model.MaskOf(s.rackMask, t.Letter)
		}
	}
	switch board.Topology() {
	case model.TopologyBounded:
		s.maxLen = min(s.maxLen, board.Size())
	case model.TopologyToroidal:
		s.maxLen = min(s.maxLen, board.Size()-1)
	}
	return s
}

func (s *search) run(ctx context.Context, result *validator.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opening := s.board.TileCount() == 0
	var seeds []seed
	var bases []base
	if !opening {
		seeds = append(s.crosswordSeeds(), s.capWords(result)...)
		bases = s.extensionBases(result)
	}

	total := max(1, s.maxLen)
	s.report(1, total)
	for length := 2; length <= s.maxLen; length++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opening {
			s.opening(length)
		} else {
			s.crosswords(length, seeds)
			s.extensions(length, bases)
		}
		s.report(length, total)
	}
	return nil
}

func (s *search) report(done, total int) {
	if s.opts.Progress != nil {
		s.opts.Progress(float64(done) / float64(total))
	}
}

func (s *search) inVocabulary(e dictionary.Entry) bool {
	return s.opts.VocabularyLimit <= 0 || e.Rank <= s.opts.VocabularyLimit
}

// crosswordSeeds lists every tile with each axis along which it is not
// already part of a run
func (s *search) crosswordSeeds() []seed {
	var seeds []seed
	for _, pos := range s.board.OccupiedPositions() {
		for _, axis := range model.Axes {
			if s.occupiedAt(pos, axis, -1) || s.occupiedAt(pos, axis, 1) {
				continue
			}
			seeds = append(seeds, seed{
				pos:      pos,
				axis:     axis,
				letter:   s.board.Letter(pos),
				lineMask: s.board.LineMask(pos, axis),
			})
		}
	}
	return seeds
}

func (s *search) occupiedAt(pos model.Position, axis model.Axis, n int) bool {
	p, ok := s.board.Step(pos, axis, n)
	return ok && s.board.IsOccupied(p)
}

// capWords proposes every single-letter hook onto an existing word and
// returns the hooked cap cells as seeds for perpendicular words
func (s *search) capWords(result *validator.Result) []seed {
	letters := s.rackLetters()
	seen := make(map[seed]struct{})
	var seeds []seed

	visit := func(site *validator.CapSite, start bool) {
		for _, letter := range letters {
			hooked := false
			for _, w := range site.Words {
				text := w.Text + string(letter)
				anchor := w.Anchor
				if start {
					text = string(letter) + w.Text
					anchor = site.Pos
				}
				e, ok := s.g.dictionary.Lookup(text)
				if !ok || !s.inVocabulary(e) {
					continue
				}
				hooked = true
				s.try(anchor, w.Axis, e.Word, []rune(e.Word))
			}
			if !hooked {
				continue
			}
			perp := site.Axis.Perpendicular()
			sd := seed{pos: site.Pos, axis: perp, letter: letter}
			if _, dup := seen[sd]; dup {
				continue
			}
			seen[sd] = struct{}{}
			sd.lineMask = s.board.LineMask(site.Pos, perp)
			seeds = append(seeds, sd)
		}
	}

	for _, site := range result.StartCaps {
		visit(site, true)
	}
	for _, site := range result.EndCaps {
		visit(site, false)
	}
	return seeds
}

// rackLetters returns the distinct letters the rack can supply, a blank
// standing for every letter of the dictionary
func (s *search) rackLetters() []rune {
	letters := lo.Uniq(lo.Filter(s.rack.Letters(), func(r rune, _ int) bool {
		return r != model.BlankLetter
	}))
	if s.rack.BlankIndex() >= 0 {
		letters = lo.Uniq(append(letters, s.g.dictionary.Alphabet()...))
	}
	return letters
}

func (s *search) extensionBases(result *validator.Result) []base {
	return lo.Map(result.Words, func(w *model.Word, _ int) base {
		return base{
			word:     w,
			letters:  []rune(w.Text),
			lineMask: s.board.LineMask(w.Anchor, w.Axis),
		}
	})
}

// crosswords tries every word of the given length through every seed, at
// each occurrence of the seed's letter
func (s *search) crosswords(length int, seeds []seed) {
	if len(seeds) == 0 {
		return
	}
	for e := range s.g.dictionary.Subdictionary(length) {
		if !s.inVocabulary(e) {
			continue
		}
		var letters []rune
		for _, sd := range seeds {
			if !e.Mask.SubsetOf(s.rackMask | sd.lineMask) {
				continue
			}
			if letters == nil {
				letters = []rune(e.Word)
			}
			for i, r := range letters {
				if r != sd.letter {
					continue
				}
				if anchor, ok := s.board.Step(sd.pos, sd.axis, -i); ok {
					s.try(anchor, sd.axis, e.Word, letters)
				}
			}
		}
	}
}

// extensions tries longer words containing an existing word, needing at
// least two more letters
func (s *search) extensions(length int, bases []base) {
	candidates := lo.Filter(bases, func(b base, _ int) bool {
		n := len(b.letters)
		return length >= n+2 && length <= n+s.rackCount
	})
	if len(candidates) == 0 {
		return
	}
	for e := range s.g.dictionary.Subdictionary(length) {
		if !s.inVocabulary(e) {
			continue
		}
		var letters []rune
		for _, b := range candidates {
			if !e.Mask.SubsetOf(s.rackMask | b.lineMask) {
				continue
			}
			if letters == nil {
				letters = []rune(e.Word)
			}
			n := len(b.letters)
			for off := 0; off+n <= length; off++ {
				if !slices.Equal(letters[off:off+n], b.letters) {
					continue
				}
				if anchor, ok := s.board.Step(b.word.Anchor, b.word.Axis, -off); ok {
					s.try(anchor, b.word.Axis, e.Word, letters)
				}
			}
		}
	}
}

// opening places words from the rack alone through the start cell
func (s *search) opening(length int) {
	if length > s.rackCount {
		return
	}
	start := s.board.Center()
	for e := range s.g.dictionary.Subdictionary(length) {
		if !s.inVocabulary(e) || !e.Mask.SubsetOf(s.rackMask) {
			continue
		}
		letters := []rune(e.Word)
		for _, axis := range model.Axes {
			for i := range length {
				if anchor, ok := s.board.Step(start, axis, -i); ok {
					s.try(anchor, axis, e.Word, letters)
				}
			}
		}
	}
}

func (s *search) try(anchor model.Position, axis model.Axis, text string, letters []rune) {
	s.attempts++
	if w, ok := s.place(anchor, axis, text, letters); ok {
		s.pool.Record(w)
	}
}

// claim reserves a rack slot for the letter in the current placement check,
// preferring an exact tile over a blank. It returns the tile's value.
func (s *search) claim(letter rune) (int, bool) {
	blank := -1
	for i, t := range s.rack.Slots {
		if t == nil || s.slotStamp[i] == s.stamp {
			continue
		}
		if !t.Blank && t.Letter == letter {
			s.slotStamp[i] = s.stamp
			return t.Value, true
		}
		if t.Blank && blank < 0 {
			blank = i
		}
	}
	if blank < 0 {
		return 0, false
	}
	s.slotStamp[blank] = s.stamp
	return s.rack.Slots[blank].Value, true
}

// place checks whether the word can be laid from anchor along axis and scores
// it. Every empty cell must be filled from the rack, occupied cells must
// already hold the right letter, and each new letter's perpendicular run must
// be a word.
func (s *search) place(anchor model.Position, axis model.Axis, text string, letters []rune) (*model.Word, bool) {
	n := len(letters)
	if limit := s.board.LineLength(); s.board.Topology() == model.TopologyToroidal && n >= limit {
		return nil, false
	}
	anchor, ok := s.board.Normalize(anchor)
	if !ok {
		return nil, false
	}
	if s.occupiedAt(anchor, axis, -1) || s.occupiedAt(anchor, axis, n) {
		return nil, false
	}

	s.stamp++
	squares := make([]scoring.Square, 0, n)
	extra, placed := 0, 0
	for i, letter := range letters {
		pos, ok := s.board.Step(anchor, axis, i)
		if !ok {
			return nil, false
		}
		if t := s.board.Tile(pos); t != nil {
			if t.Letter != letter {
				return nil, false
			}
			squares = append(squares, scoring.SquareFor(s.board.Peek(pos), t, false))
			continue
		}

		value, ok := s.claim(letter)
		if !ok {
			return nil, false
		}
		placed++
		lm, wm := s.board.Multipliers(pos)
		sq := scoring.Square{Value: value, LetterMultiplier: lm, WordMultiplier: wm, New: true}
		squares = append(squares, sq)

		cross, ok := s.crossScore(pos, axis.Perpendicular(), letter, sq)
		if !ok {
			return nil, false
		}
		extra += cross
	}
	if placed == 0 {
		return nil, false
	}

	score := s.g.scoring.Score(squares) + extra + s.g.scoring.Bonus(placed, s.rack.Capacity())
	return &model.Word{
		Anchor: anchor,
		Axis:   axis,
		Text:   text,
		Score:  score,
		Placed: placed,
	}, true
}

// crossScore checks the run that a new letter at pos would form along axis.
// It returns the run's score, or 0 when the letter touches nothing.
func (s *search) crossScore(pos model.Position, axis model.Axis, letter rune, sq scoring.Square) (int, bool) {
	var before []model.Position
	for p := pos; ; {
		prev, ok := s.board.Step(p, axis, -1)
		if !ok || !s.board.IsOccupied(prev) {
			break
		}
		before = append(before, prev)
		p = prev
	}
	var after []model.Position
	for p := pos; ; {
		next, ok := s.board.Step(p, axis, 1)
		if !ok || !s.board.IsOccupied(next) {
			break
		}
		after = append(after, next)
		p = next
	}
	if len(before) == 0 && len(after) == 0 {
		return 0, true
	}
	if n := s.board.LineLength(); s.board.Topology() == model.TopologyToroidal && len(before) >= n-1 {
		return s.ringScore(pos, axis, letter, sq)
	}

	slices.Reverse(before)
	text := make([]rune, 0, len(before)+1+len(after))
	squares := make([]scoring.Square, 0, cap(text))
	for _, p := range before {
		c := s.board.Peek(p)
		text = append(text, c.Tile.Letter)
		squares = append(squares, scoring.SquareFor(c, c.Tile, false))
	}
	text = append(text, letter)
	squares = append(squares, sq)
	for _, p := range after {
		c := s.board.Peek(p)
		text = append(text, c.Tile.Letter)
		squares = append(squares, scoring.SquareFor(c, c.Tile, false))
	}

	if _, ok := s.g.dictionary.Lookup(string(text)); !ok {
		return 0, false
	}
	return s.g.scoring.Score(squares), true
}

// ringScore scores a wrap-around line that pos completes. The ring is read
// from coordinate 0, as the validator reads it.
func (s *search) ringScore(pos model.Position, axis model.Axis, letter rune, sq scoring.Square) (int, bool) {
	n := s.board.LineLength()
	start, at := model.Position{Row: pos.Row}, pos.Col
	if axis == model.Vertical {
		start, at = model.Position{Col: pos.Col}, pos.Row
	}

	text := make([]rune, 0, n)
	squares := make([]scoring.Square, 0, n)
	for i := range n {
		if i == at {
			text = append(text, letter)
			squares = append(squares, sq)
			continue
		}
		p, _ := s.board.Step(start, axis, i)
		c := s.board.Peek(p)
		text = append(text, c.Tile.Letter)
		squares = append(squares, scoring.SquareFor(c, c.Tile, false))
	}

	if _, ok := s.g.dictionary.Lookup(string(text)); !ok {
		return 0, false
	}
	return s.g.scoring.Score(squares), true
}
