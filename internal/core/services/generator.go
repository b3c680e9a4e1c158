package services

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/bits"
	"math/rand/v2"
)

// pcgIncrement is mixed into the seed to derive the second PCG word.
const pcgIncrement = 0x9e3779b97f4a7c15

// Generator supplies reproducible randomness to partition calls.
//
// A seeded Generator produces the same sequence on every run and every Go
// release: PCG output is specified, and bounded draws and shuffles are
// implemented here rather than delegated to math/rand helpers whose
// algorithms may change. A Generator is not safe for concurrent use; each
// logical call owns its own instance.
type Generator struct {
	src    *rand.PCG
	seeded bool
}

// NewGenerator returns a generator seeded with seed, or from system
// entropy when seed is nil.
func NewGenerator(seed *int64) *Generator {
	if seed != nil {
		s := uint64(*seed)
		return &Generator{src: rand.NewPCG(s, s^pcgIncrement), seeded: true}
	}

	// crypto/rand.Read never returns an error on supported platforms.
	var buf [16]byte
	_, _ = cryptorand.Read(buf[:])
	return &Generator{
		src: rand.NewPCG(binary.LittleEndian.Uint64(buf[:8]), binary.LittleEndian.Uint64(buf[8:])),
	}
}

// Seeded reports whether the generator is reproducible.
func (g *Generator) Seeded() bool {
	return g.seeded
}

// Uint64 returns the next raw 64-bit value.
func (g *Generator) Uint64() uint64 {
	return g.src.Uint64()
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (g *Generator) IntN(n int) int {
	if n <= 0 {
		panic("services: IntN called with non-positive bound")
	}
	bound := uint64(n)
	// Lemire's multiply-and-reject; threshold is 2^64 mod bound.
	threshold := -bound % bound
	for {
		hi, lo := bits.Mul64(g.src.Uint64(), bound)
		if lo >= threshold {
			return int(hi)
		}
	}
}

// Shuffle permutes n elements with Fisher-Yates, calling swap for each
// exchange.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := g.IntN(i + 1)
		swap(i, j)
	}
}
