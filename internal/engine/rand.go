package engine

import "math/rand/v2"

// Rand is the random source threaded through every simulation stage.
// *rand.Rand from math/rand/v2 satisfies it. A Rand must not be shared
// between concurrent simulations.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a PCG-backed generator. Equal seeds yield equal sequences.
func NewRand(seed1, seed2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// NewEntropyRand returns a generator seeded from the runtime's global source.
func NewEntropyRand() *rand.Rand {
	return NewRand(rand.Uint64(), rand.Uint64())
}

// intBetween returns a uniform integer in [lo, hi).
func intBetween(r Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo)
}

// floatBetween returns a uniform float in [lo, hi).
func floatBetween(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// chance reports true with probability p.
func chance(r Rand, p float64) bool {
	return r.Float64() < p
}
