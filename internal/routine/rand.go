package routine

import (
	"math/rand/v2"
	"time"
)

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandFromTime seeds a generator from the wall clock.
func NewRandFromTime() *rand.Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}
