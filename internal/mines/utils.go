package mines

import (
	"hash/maphash"
	"math/rand/v2"
)

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// NewRand returns a generator seeded from the runtime's random hash seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// NewSeededRand returns a deterministic generator, so that a game can be
// replayed from its seed.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
