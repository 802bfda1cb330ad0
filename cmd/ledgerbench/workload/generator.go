// Package workload ports the stress harness's account-id distribution
// generators so a benchmark can exercise hot/cold access patterns
// against any store.Store-backed ledger.
package workload

import (
	"math/rand"
)

// Generator produces account ids (1-based) for a benchmark worker to
// operate against.
type Generator interface {
	Next() uint64
}

// ZipfGenerator draws ids from a Zipf distribution, modeling a workload
// where a small number of accounts receive most of the traffic.
type ZipfGenerator struct {
	rng  *rand.Rand
	zipf *rand.Zipf
}

// NewZipfGenerator builds a generator over ids [1, numAccounts]. skew=0
// gives the least skewed setting (s=1.01), which is still a Zipf
// distribution, not a uniform one; larger skew concentrates traffic on
// fewer accounts. skew is mapped onto the Zipf s
// parameter the same way the source's stress harness does (s = 1 + 10*skew,
// floored at 1.01 since rand.Zipf requires s > 1).
func NewZipfGenerator(numAccounts int, skew float64, seed int64) *ZipfGenerator {
	rng := rand.New(rand.NewSource(seed))
	s := 1.0 + skew*10.0
	if s <= 1.0 {
		s = 1.01
	}
	return &ZipfGenerator{rng: rng, zipf: rand.NewZipf(rng, s, 1.0, uint64(numAccounts)-1)}
}

// Next returns the next id, 1-based.
func (z *ZipfGenerator) Next() uint64 {
	return z.zipf.Uint64() + 1
}

// UniformGenerator draws ids uniformly from [1, numAccounts].
type UniformGenerator struct {
	rng         *rand.Rand
	numAccounts int
}

// NewUniformGenerator builds a uniform generator over [1, numAccounts].
func NewUniformGenerator(numAccounts int, seed int64) *UniformGenerator {
	return &UniformGenerator{rng: rand.New(rand.NewSource(seed)), numAccounts: numAccounts}
}

// Next returns the next id, 1-based.
func (u *UniformGenerator) Next() uint64 {
	return uint64(u.rng.Intn(u.numAccounts)) + 1
}

// HotColdGenerator models a small set of hot accounts against a larger
// cold pool. Runner does not use it: every workload kind draws its ids
// from a Zipf or uniform generator.
type HotColdGenerator struct {
	rng            *rand.Rand
	numAccounts    int
	numHotAccounts int
}

// NewHotColdGenerator builds a generator over numHotAccounts hot ids
// nested inside a numAccounts-wide id space, both 1-based.
func NewHotColdGenerator(numAccounts, numHotAccounts int, seed int64) *HotColdGenerator {
	return &HotColdGenerator{
		rng:            rand.New(rand.NewSource(seed)),
		numAccounts:    numAccounts,
		numHotAccounts: numHotAccounts,
	}
}

// NextHot returns a random id from the hot set.
func (h *HotColdGenerator) NextHot() uint64 {
	return uint64(h.rng.Intn(h.numHotAccounts)) + 1
}

// NextAny returns a random id from the full account space.
func (h *HotColdGenerator) NextAny() uint64 {
	return uint64(h.rng.Intn(h.numAccounts)) + 1
}

// NextHotAndAny returns a hot id paired with a distinct id from the full
// space, retrying NextAny up to 100 times if it collides with hot.
func (h *HotColdGenerator) NextHotAndAny() (hot, any uint64) {
	hot = h.NextHot()
	any = h.NextAny()
	for attempts := 0; any == hot && attempts < 100; attempts++ {
		any = h.NextAny()
	}
	return hot, any
}

// RandomAmount returns a transfer amount in [1, 10000], matching the
// source's stress-test amount range.
func RandomAmount(rng *rand.Rand) uint64 {
	return uint64(rng.Intn(10000)) + 1
}
