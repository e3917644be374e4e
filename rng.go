package wfc

import "math/bits"

// xxhash64 implements unrolled xxhash that produces same output as xxh3.
// Source: https://github.com/zeebo/xxh3
func xxhash64(v, seed uint64) uint64 {
	x := v ^ (0x1cad21f72c81017c ^ 0xdb979083e96dd4de) + seed
	x ^= bits.RotateLeft64(x, 49) ^ bits.RotateLeft64(x, 24)
	x *= 0x9fb21c651e98df25
	x ^= (x >> 35) + 4
	x *= 0x9fb21c651e98df25
	x ^= (x >> 28)
	return x
}

// Uint64 returns a deterministic uint64 based on x, hashed under seed.
func Uint64(seed uint32, x uint64) uint64 {
	return xxhash64(x, uint64(seed))
}

// Float64 returns a deterministic float64 in [0.0, 1.0) based on x.
func Float64(seed uint32, x uint64) float64 {
	hash := xxhash64(x, uint64(seed))
	return float64(hash>>11) / (1 << 53)
}

// Rand is a thread-local, seedable, deterministic source: every draw
// advances an internal counter that is hashed together with the seed, so
// two Rand instances constructed with the same seed and drawn from in the
// same order produce identical sequences, with no shared mutable state
// between instances.
type Rand struct {
	seed    uint32
	counter uint64
}

// NewRand constructs a Rand seeded from seed.
func NewRand(seed uint32) *Rand {
	return &Rand{seed: seed}
}

// Derive returns an independent Rand whose stream differs from r's (and
// from every other index's) while remaining a pure function of (seed,
// index) — used to give each speculative restart worker and each
// region-partition quadrant its own deterministic stream.
func (r *Rand) Derive(index uint64) *Rand {
	return &Rand{seed: uint32(xxhash64(index, uint64(r.seed)))}
}

func (r *Rand) next() uint64 {
	r.counter++
	return xxhash64(r.counter, uint64(r.seed))
}

// Float64 returns the next deterministic value in [0.0, 1.0).
func (r *Rand) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// UintN returns the next deterministic value in [0, n). Panics if n == 0.
func (r *Rand) UintN(n uint64) uint64 {
	if n == 0 {
		panic("wfc: UintN requires n > 0")
	}
	return r.next() % n
}
