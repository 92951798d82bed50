package ring

import (
	"encoding/binary"

	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

// UniformSampler wraps a sampling.PRNG and represents the state of a sampler of uniform polynomials.
type UniformSampler struct {
	*baseSampler
	*randomBuffer
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG and ring definition.
func NewUniformSampler(prng sampling.PRNG, baseRing *Ring) (u *UniformSampler) {
	u = new(UniformSampler)
	u.baseSampler = &baseSampler{}
	u.baseRing = baseRing
	u.prng = prng
	u.randomBuffer = newRandomBuffer()
	return
}

// Read samples coefficients uniformly in [0, Q-1] on pol.
func (u *UniformSampler) Read(pol Poly) {
	u.read(pol, func(a, b, c uint64) uint64 {
		return b
	})
}

// ReadAndAdd adds on pol a polynomial with coefficients uniform in [0, Q-1].
func (u *UniformSampler) ReadAndAdd(pol Poly) {
	u.read(pol, func(a, b, c uint64) uint64 {
		return CRed(a+b, c)
	})
}

func (u *UniformSampler) read(pol Poly, f func(a, b, c uint64) uint64) {

	var randomUint uint64

	q := u.baseRing.Modulus
	mask := u.baseRing.Mask

	coeffs := pol.Coeffs[:u.baseRing.N]

	for i := range coeffs {

		// Samples an integer between [0, q-1]
		for {

			randomUint = binary.BigEndian.Uint64(u.next8(u.prng)) & mask

			// If the integer is between [0, q-1], breaks the loop
			if randomUint < q {
				break
			}
		}

		coeffs[i] = f(coeffs[i], randomUint, q)
	}
}

// ReadNew generates a new polynomial with coefficients following a uniform distribution over [0, Q-1].
func (u *UniformSampler) ReadNew() (pol Poly) {
	pol = u.baseRing.NewPoly()
	u.Read(pol)
	return
}

// WithPRNG returns a new UniformSampler over the same ring reading from prng.
func (u *UniformSampler) WithPRNG(prng sampling.PRNG) *UniformSampler {
	return NewUniformSampler(prng, u.baseRing)
}

// RandUniform samples a uniform randomInt variable in the range [0, mask] until randomInt is in the range [0, v-1].
// mask needs to be of the form 2^n -1.
func RandUniform(prng sampling.PRNG, v uint64, mask uint64) (randomInt uint64) {
	for {
		randomInt = mask & sampling.RandUint64(prng)
		if randomInt < v {
			return randomInt
		}
	}
}
