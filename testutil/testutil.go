package testutil

import (
	"math/rand"
	"sort"
	"sync"
)

// Range is a half-open identifier range [Lo, Hi).
type Range struct {
	Lo, Hi int64
}

// MobileRange spans German mobile numbers with country code (4915x ... 4917x).
var MobileRange = Range{Lo: 4915000000000, Hi: 4918000000000}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63n returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63n(n)
}

// Shuffle pseudo-randomizes the order of n elements.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(n, swap)
}

// Identifiers returns n identifiers drawn uniformly from rg.
// Duplicates are possible and intended: the result is a multiset.
// Locks only once per call (preferred over calling Int63n in a loop).
func (r *RNG) Identifiers(n int, rg Range) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, n)
	span := rg.Hi - rg.Lo
	for i := range ids {
		ids[i] = rg.Lo + r.rand.Int63n(span)
	}
	return ids
}

// Partition splits values into exactly shards contiguous, randomly sized
// pieces (some may be empty). Order within values is preserved.
func (r *RNG) Partition(values []int64, shards int) [][]int64 {
	if shards <= 1 {
		return [][]int64{values}
	}

	r.mu.Lock()
	cuts := make([]int, shards-1)
	for i := range cuts {
		cuts[i] = r.rand.Intn(len(values) + 1)
	}
	r.mu.Unlock()
	sort.Ints(cuts)

	out := make([][]int64, 0, shards)
	prev := 0
	for _, c := range cuts {
		out = append(out, values[prev:c])
		prev = c
	}
	return append(out, values[prev:])
}

// Distinct returns the sorted distinct positive values of values.
func Distinct(values []int64) []uint64 {
	seen := make(map[int64]struct{}, len(values))
	out := make([]uint64, 0, len(values))
	for _, v := range values {
		if v <= 0 {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, uint64(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
