// Package ring implements exact arithmetic over the ring Z_Q[X]/(X^N - 1):
// modular reduction, cyclic convolution (through a number-theoretic transform
// when the modulus allows it, by schoolbook multiplication otherwise) and
// sampling of uniform and Gaussian polynomials.
package ring

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/toyrlwe/utils"
)

const (
	// MaxModulusBits is the largest bit-length supported for the modulus.
	// It ensures that the sum of two residues never overflows a uint64.
	MaxModulusBits = 61

	// MaxRingDegree is the largest supported ring degree.
	MaxRingDegree = 1 << 20
)

// Ring is a structure that keeps all the variables required to operate on polynomials
// of the ring Z_Q[X]/(X^N - 1). It is read-only after its creation and can be
// shared among goroutines.
type Ring struct {

	// Number of coefficients
	N int

	// Modulus
	Modulus uint64

	// 2^bit_length(Modulus-1) - 1
	Mask uint64

	// Fast reduction constants
	BRedConstant [2]uint64

	multiplier Multiplier
}

// NewRing creates a new Ring of degree N and modulus Modulus.
// The cyclic convolution is evaluated with a number-theoretic transform if N is a power of two,
// Modulus is prime and Modulus = 1 mod N, and by schoolbook multiplication otherwise.
// An error is returned with a nil *Ring in the case of invalid parameters.
func NewRing(N int, Modulus uint64) (r *Ring, err error) {
	return NewRingWithMultiplier(N, Modulus, MultiplierAuto)
}

// NewRingWithMultiplier creates a new Ring of degree N and modulus Modulus that evaluates
// the cyclic convolution with the given multiplier type.
// An error is returned if the parameters are invalid or do not support the requested multiplier.
func NewRingWithMultiplier(N int, Modulus uint64, multiplierType MultiplierType) (r *Ring, err error) {

	if N <= 0 || N > MaxRingDegree {
		return nil, fmt.Errorf("invalid ring degree: must be in [1, %d] but is %d", MaxRingDegree, N)
	}

	if Modulus < 2 || bits.Len64(Modulus) > MaxModulusBits {
		return nil, fmt.Errorf("invalid modulus: must be in [2, 2^%d) but is %d", MaxModulusBits, Modulus)
	}

	r = &Ring{
		N:            N,
		Modulus:      Modulus,
		Mask:         (1 << uint64(bits.Len64(Modulus-1))) - 1,
		BRedConstant: GenBRedConstant(Modulus),
	}

	if multiplierType == MultiplierAuto {
		if IsNTTFriendly(N, Modulus) {
			multiplierType = MultiplierNTT
		} else {
			multiplierType = MultiplierSchoolbook
		}
	}

	switch multiplierType {
	case MultiplierNTT:
		if r.multiplier, err = NewNumberTheoreticTransformer(N, Modulus); err != nil {
			return nil, fmt.Errorf("cannot NewRing: %w", err)
		}
	case MultiplierSchoolbook:
		r.multiplier = NewSchoolbookMultiplier(N, Modulus)
	default:
		return nil, fmt.Errorf("invalid multiplier type: %d", multiplierType)
	}

	return
}

// IsNTTFriendly returns true if the ring Z_Modulus[X]/(X^N - 1) admits a cyclic
// number-theoretic transform, i.e. if N is a power of two, Modulus is prime and Modulus = 1 mod N.
func IsNTTFriendly(N int, Modulus uint64) bool {
	return utils.IsPowerOfTwo(N) && Modulus > 2 && (Modulus-1)%uint64(N) == 0 && IsPrime(Modulus)
}

// Multiplier returns the [Multiplier] used by the ring to evaluate cyclic convolutions.
func (r *Ring) Multiplier() Multiplier {
	return r.multiplier
}

// NewPoly creates a new polynomial with all coefficients set to 0.
func (r *Ring) NewPoly() Poly {
	return NewPoly(r.N)
}

// Equal checks if r and other are identical rings (same degree, modulus and multiplier type).
func (r *Ring) Equal(other *Ring) bool {
	return r.N == other.N && r.Modulus == other.Modulus && r.multiplier.Type() == other.multiplier.Type()
}

// String returns a short description of the ring.
func (r *Ring) String() string {
	return fmt.Sprintf("Z_%d[X]/(X^%d-1)/%s", r.Modulus, r.N, r.multiplier.Type())
}
