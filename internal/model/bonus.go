package model

import "fmt"

// BonusLayoutClassic is the standard 15x15 premium square layout
const BonusLayoutClassic = "classic"

type bonusLayout struct {
	size    int
	letters []string
	words   []string
}

var bonusLayouts = map[string]bonusLayout{
	BonusLayoutClassic: {
		size: 15,
		letters: []string{
			"111211111112111",
			"111113111311111",
			"111111212111111",
			"211111121111112",
			"111111111111111",
			"131113111311131",
			"112111212111211",
			"111211111112111",
			"112111212111211",
			"131113111311131",
			"111111111111111",
			"211111121111112",
			"111111212111111",
			"111113111311111",
			"111211111112111",
		},
		words: []string{
			"311111131111113",
			"121111111111121",
			"112111111111211",
			"111211111112111",
			"111121111121111",
			"111111111111111",
			"111111111111111",
			"311111121111113",
			"111111111111111",
			"111111111111111",
			"111121111121111",
			"111211111112111",
			"112111111111211",
			"121111111111121",
			"311111131111113",
		},
	},
}

// BonusLayouts returns the names of the known layouts
func BonusLayouts() []string {
	return []string{BonusLayoutClassic}
}

func checkLayout(name string, b *Board) error {
	layout, ok := bonusLayouts[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBonusLayout, name)
	}
	if b.topology == TopologyUnbounded || b.size != layout.size {
		return fmt.Errorf("%w: %q needs a %dx%d board", ErrUnknownBonusLayout, name, layout.size, layout.size)
	}
	return nil
}

func bonusAt(name string, pos Position) (letter, word int) {
	layout, ok := bonusLayouts[name]
	if !ok || pos.Row < 0 || pos.Row >= layout.size || pos.Col < 0 || pos.Col >= layout.size {
		return 1, 1
	}
	return int(layout.letters[pos.Row][pos.Col] - '0'), int(layout.words[pos.Row][pos.Col] - '0')
}
