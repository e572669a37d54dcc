package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Rand is the source of the random draw and of sequence shuffles.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a PCG generator for seed. A zero seed draws a fresh seed
// from crypto/rand.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = newSeed()
	}
	// Non-cryptographic PRNG: the draw is cosmetic variance.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// FixedRand replays fixed values. Floats and Ints are consumed in order and
// wrap around; an empty Ints always answers n-1 (the identity shuffle).
type FixedRand struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

func (f *FixedRand) Float64() float64 {
	if len(f.Floats) == 0 {
		return 0
	}
	v := f.Floats[f.fi%len(f.Floats)]
	f.fi++
	return v
}

func (f *FixedRand) IntN(n int) int {
	if len(f.Ints) == 0 {
		return n - 1
	}
	v := f.Ints[f.ii%len(f.Ints)]
	f.ii++
	if v < 0 || v >= n {
		return n - 1
	}
	return v
}
