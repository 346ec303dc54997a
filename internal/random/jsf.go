// Package random provides the deterministic pseudo-random source used by
// the stochastic tree creators.
//
// The generator is Bob Jenkins' small fast PRNG (JSF), a tiny
// three-rotate 64-bit generator with good statistical quality. It plugs
// into math/rand as a Source64, so the standard distribution samplers
// (uniform, normal, permutation) all draw from it. Given the same seed and
// call sequence the stream is fully reproducible, which is what makes
// population generation embarrassingly parallel: every worker gets its own
// seeded stream and no state is shared.
package random

import "math/rand"

// Jsf64 is a 64-bit Jenkins Small Fast generator. It implements
// math/rand.Source64. The zero value is not usable; construct with
// NewJsf64.
type Jsf64 struct {
	a, b, c, d uint64
}

// rotl is a bitwise circular left shift.
func rotl(x uint64, k uint) uint64 {
	return x<<k | x>>(64-k)
}

// NewJsf64 creates a generator seeded with the given value. The state is
// warmed up with 20 rounds as in the reference implementation.
func NewJsf64(seed uint64) *Jsf64 {
	j := &Jsf64{a: 0xf1ea5eed, b: seed, c: seed, d: seed}
	for i := 0; i < 20; i++ {
		j.Uint64()
	}
	return j
}

// Uint64 advances the generator. Rotation amounts (7, 13, 37) are the
// three-rotate 64-bit variant.
func (j *Jsf64) Uint64() uint64 {
	e := j.a - rotl(j.b, 7)
	j.a = j.b ^ rotl(j.c, 13)
	j.b = j.c + rotl(j.d, 37)
	j.c = j.d + e
	j.d = e + j.a
	return j.d
}

// Int63 implements math/rand.Source.
func (j *Jsf64) Int63() int64 {
	return int64(j.Uint64() >> 1)
}

// Seed implements math/rand.Source by reinitializing the state.
func (j *Jsf64) Seed(seed int64) {
	*j = Jsf64{a: 0xf1ea5eed, b: uint64(seed), c: uint64(seed), d: uint64(seed)}
	for i := 0; i < 20; i++ {
		j.Uint64()
	}
}

// New returns a math/rand generator backed by a freshly seeded Jsf64.
func New(seed uint64) *rand.Rand {
	return rand.New(NewJsf64(seed))
}

// Bernoulli draws true with probability p.
func Bernoulli(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}
