package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Every simulation run and worker gets its own generator from here, so equal
// seeds reproduce equal trial sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewRandom returns a generator seeded from the runtime's entropy source.
func NewRandom() *rand.Rand {
	return New(rand.Int64())
}

// Split derives n independent child seeds from rng. Children of the same
// parent state are always identical.
func Split(rng *rand.Rand, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = int64(mix(rng.Uint64() + uint64(i)*goldenRatio64))
	}
	return seeds
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
