package rhythm

import "math/rand/v2"

// Rand is the randomness source consumed by the scheduler.
// *rand.Rand from math/rand/v2 satisfies it.
//
// A Rand is owned by a single Schedule call; concurrent generations must
// each use their own.
type Rand interface {
	IntN(n int) int
}

// Choose returns a uniformly chosen element of set.
// It panics if set is empty; callers only pass the package's closed sets.
func Choose[T any](r Rand, set []T) T {
	return set[r.IntN(len(set))]
}

// NewRand returns an independent generator for one difficulty, derived from
// a base seed. The same (seed, difficulty) pair always yields the same
// sequence, whatever order or goroutine the difficulties run in.
func NewRand(seed uint64, d Difficulty) *rand.Rand {
	return rand.New(rand.NewPCG(seed, streamSeed(seed, d)))
}

// streamSeed mixes the difficulty into the seed (splitmix64 finalizer).
func streamSeed(seed uint64, d Difficulty) uint64 {
	z := seed ^ (uint64(d)+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
