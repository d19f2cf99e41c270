package paint

import (
	"math"
	"math/rand/v2"
)

// Random is the source of every random decision the brush and the drips
// make. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// NewRandom returns a deterministic source for the given seed.
func NewRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func clamp(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}

// between returns a value in [lo, hi).
func between(r Random, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
