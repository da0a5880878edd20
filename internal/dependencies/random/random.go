package random

import "lukechampine.com/frand"

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Shuffle pseudo-randomises the order of n elements
	Shuffle(n int, swap func(i, j int))
}

// FastRandom implements Random using frand's ChaCha-based generator
type FastRandom struct{}

// New creates a new FastRandom
func New() *FastRandom {
	return &FastRandom{}
}

// Intn returns a random int in [0, n)
func (r *FastRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return frand.Intn(n)
}

// Shuffle randomises the order of n elements using swap
func (r *FastRandom) Shuffle(n int, swap func(i, j int)) {
	frand.Shuffle(n, swap)
}
