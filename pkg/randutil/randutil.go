package randutil

import (
	"math/rand"
	"time"
)

// Source is the sole supplier of non-determinism for selection decisions.
// Injecting it keeps draws reproducible: a fixed seed yields a fixed walk.
type Source interface {
	// Intn returns a uniform pseudo-random int in [0, n). n must be > 0.
	Intn(n int) int
	// Coin returns the outcome of one unbiased coin flip.
	Coin() bool
}

type seededSource struct {
	rng *rand.Rand
}

// NewSource returns a Source backed by math/rand with the given seed.
// Seed 0 means "seed from the current time".
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	return s.rng.Intn(n)
}

func (s *seededSource) Coin() bool {
	return s.rng.Intn(2) == 0
}
