package model

import "unicode"

// LetterMask is a set of letters. A-Z get a bit each; any other letter
// shares one of the remaining bits, so masks only ever over-approximate.
type LetterMask uint64

// AllLetters matches every letter
const AllLetters = ^LetterMask(0)

// LetterBit returns the bit for a letter
func LetterBit(letter rune) LetterMask {
	letter = unicode.ToUpper(letter)
	if letter >= 'A' && letter <= 'Z' {
		return 1 << uint(letter-'A')
	}
	return 1 << (26 + uint(letter)%38)
}

// MaskOf adds a letter to a mask
func MaskOf(mask LetterMask, letter rune) LetterMask {
	return mask | LetterBit(letter)
}

// WordMask returns the mask of every letter in a word
func WordMask(word string) LetterMask {
	var mask LetterMask
	for _, r := range word {
		mask = MaskOf(mask, r)
	}
	return mask
}

// SubsetOf reports whether every letter in m is also in other
func (m LetterMask) SubsetOf(other LetterMask) bool {
	return m&^other == 0
}
