package dice

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

const (
	lehmerMultiplier = 16807
	lehmerModulus    = 2147483647 // 2^31 - 1, a Mersenne prime
)

// LCG is a Lehmer (Park-Miller) linear congruential generator. Two generators
// constructed with the same seed produce identical sequences across runs and
// platforms, which is what makes combat outcomes reproducible.
//
// Invariant: the internal state is always in [1, lehmerModulus-1].
type LCG struct {
	mu    sync.Mutex
	state int64
}

// NewLCG returns a generator seeded from an integer seed. Any int64 is
// accepted; it is folded into the generator's valid state range.
func NewLCG(seed int64) *LCG {
	g := &LCG{}
	g.Seed(seed)
	return g
}

// NewLCGFromString returns a generator seeded from a string. The string is
// reduced with a rolling polynomial hash and the absolute value is used, so
// the same string always yields the same sequence.
func NewLCGFromString(seed string) *LCG {
	return NewLCG(hashSeed(seed))
}

// NewRandomLCG returns a generator seeded from crypto/rand. Intended only for
// top-level wiring where reproducibility is not required; combat paths take
// an explicitly seeded Source.
//
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func NewRandomLCG() *LCG {
	return NewLCG(randomSeed())
}

// Seed reseeds the generator from an integer.
//
// Postcondition: the state is in [1, lehmerModulus-1].
func (g *LCG) Seed(seed int64) {
	s := seed % (lehmerModulus - 1)
	if s < 0 {
		s += lehmerModulus - 1
	}
	g.mu.Lock()
	g.state = s + 1
	g.mu.Unlock()
}

// SeedString reseeds the generator from a string via the same rolling hash
// used by NewLCGFromString.
func (g *LCG) SeedString(seed string) {
	g.Seed(hashSeed(seed))
}

// Next advances the generator and returns the raw state value.
//
// Postcondition: return value is in [1, lehmerModulus-1].
func (g *LCG) Next() int64 {
	g.mu.Lock()
	g.state = g.state * lehmerMultiplier % lehmerModulus
	v := g.state
	g.mu.Unlock()
	return v
}

// Float64 returns a uniform float in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Next()-1) / float64(lehmerModulus-1)
}

// Intn returns a uniform int in [0, n) by floor-scaling a Float64 draw.
// Each call consumes exactly one Next.
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return int(g.Float64() * float64(n))
}

// IntBetween returns a uniform int in [min, max] inclusive.
//
// Precondition: min <= max. Panics with "dice: IntBetween called with min > max"
// if the precondition is violated.
func (g *LCG) IntBetween(min, max int) int {
	if min > max {
		panic("dice: IntBetween called with min > max")
	}
	return min + g.Intn(max-min+1)
}

// hashSeed reduces a string to an integer seed with a rolling polynomial
// hash over its bytes, int32 wraparound, absolute value taken.
func hashSeed(s string) int64 {
	var h int32
	for i := 0; i < len(s); i++ {
		h = h*31 + int32(s[i])
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// randomSeed draws an int64 seed from crypto/rand.
func randomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
