// Package rlwe implements a toy Ring-LWE encryption scheme over Z_Q[X]/(X^N - 1):
// parameters, secret key generation, encryption, decryption and the
// [Engine] that bundles them behind a single immutable key.
package rlwe

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/toyrlwe/ring"
	"github.com/tuneinsight/toyrlwe/utils/bignum"
)

const (
	// DefaultPlaintextBound is the default decoding threshold T: decrypted
	// residues in [T, Q) are interpreted as the negative values residue - Q.
	DefaultPlaintextBound = 256

	// DefaultBoundFactor is the default ratio between the noise bound and Sigma.
	// The default bound is rounded up to the next integer.
	DefaultBoundFactor = 6.0

	// FailureProbabilityPrecision is the precision in bits of [Parameters.FailureProbability].
	FailureProbabilityPrecision = 256
)

// ParametersLiteral is a literal representation of the scheme parameters. It has public fields and
// is used to express unchecked user-defined parameters literally into Go programs or configuration files.
// The NewParametersFromLiteral function is used to generate the actual checked parameters
// from the literal representation.
//
// Users must set the ring degree N, the modulus Q and the noise standard deviation Sigma.
// Optionally, users may specify
//   - the noise bound (Bound), default ceil(DefaultBoundFactor * Sigma)
//   - the decoding threshold (PlaintextBound), default min(DefaultPlaintextBound, Q)
//   - the multiplier used for the cyclic convolution (Multiplier), default ring.MultiplierAuto.
type ParametersLiteral struct {
	N              int                 `json:"N" yaml:"n"`
	Q              uint64              `json:"Q" yaml:"q"`
	Sigma          float64             `json:"Sigma" yaml:"sigma"`
	Bound          float64             `json:"Bound,omitempty" yaml:"bound,omitempty"`
	PlaintextBound uint64              `json:"PlaintextBound,omitempty" yaml:"plaintext_bound,omitempty"`
	Multiplier     ring.MultiplierType `json:"Multiplier,omitempty" yaml:"multiplier,omitempty"`
}

// Parameters represents a set of checked parameters. Its fields are private and
// immutable. See ParametersLiteral for user-specified parameters.
type Parameters struct {
	xe             ring.DiscreteGaussian
	plaintextBound uint64
	ringQ          *ring.Ring
}

// NewParameters returns a new set of parameters from the given ring degree n, modulus q and
// noise standard deviation sigma, with default bound, plaintext bound and multiplier.
// It returns the empty parameters Parameters{} and an error wrapping [ErrInvalidParameter]
// if the specified parameters are invalid.
func NewParameters(n int, q uint64, sigma float64) (params Parameters, err error) {
	return NewParametersFromLiteral(ParametersLiteral{N: n, Q: q, Sigma: sigma})
}

// NewParametersFromLiteral instantiates a set of parameters from a [ParametersLiteral] definition.
// It returns the empty parameters Parameters{} and an error wrapping [ErrInvalidParameter]
// if the specified parameters are invalid.
//
// If the Bound field is left unset, its value is set to ceil(DefaultBoundFactor * Sigma).
// If the PlaintextBound field is left unset, its value is set to min(DefaultPlaintextBound, Q).
func NewParametersFromLiteral(paramDef ParametersLiteral) (params Parameters, err error) {

	if paramDef.N <= 0 {
		return Parameters{}, fmt.Errorf("%w: N must be positive but is %d", ErrInvalidParameter, paramDef.N)
	}

	if paramDef.Q <= 1 {
		return Parameters{}, fmt.Errorf("%w: Q must be greater than 1 but is %d", ErrInvalidParameter, paramDef.Q)
	}

	if paramDef.Sigma < 0 || math.IsNaN(paramDef.Sigma) || math.IsInf(paramDef.Sigma, 0) {
		return Parameters{}, fmt.Errorf("%w: Sigma must be finite and non-negative but is %v", ErrInvalidParameter, paramDef.Sigma)
	}

	if paramDef.Bound < 0 || math.IsNaN(paramDef.Bound) || math.IsInf(paramDef.Bound, 0) {
		return Parameters{}, fmt.Errorf("%w: Bound must be finite and non-negative but is %v", ErrInvalidParameter, paramDef.Bound)
	}

	xe := ring.DiscreteGaussian{Sigma: paramDef.Sigma, Bound: paramDef.Bound}
	if xe.Bound == 0 {
		xe.Bound = math.Ceil(DefaultBoundFactor * xe.Sigma)
	}

	t := paramDef.PlaintextBound
	switch {
	case t == 0:
		t = DefaultPlaintextBound
		if t > paramDef.Q {
			t = paramDef.Q
		}
	case t > paramDef.Q:
		return Parameters{}, fmt.Errorf("%w: PlaintextBound must be at most Q=%d but is %d", ErrInvalidParameter, paramDef.Q, t)
	}

	var ringQ *ring.Ring
	if ringQ, err = ring.NewRingWithMultiplier(paramDef.N, paramDef.Q, paramDef.Multiplier); err != nil {
		return Parameters{}, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	return Parameters{
		xe:             xe,
		plaintextBound: t,
		ringQ:          ringQ,
	}, nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		N:              p.N(),
		Q:              p.Q(),
		Sigma:          p.xe.Sigma,
		Bound:          p.xe.Bound,
		PlaintextBound: p.plaintextBound,
		Multiplier:     p.MultiplierType(),
	}
}

// N returns the ring degree.
func (p Parameters) N() int {
	if p.ringQ == nil {
		return 0
	}
	return p.ringQ.N
}

// Q returns the modulus.
func (p Parameters) Q() uint64 {
	if p.ringQ == nil {
		return 0
	}
	return p.ringQ.Modulus
}

// Sigma returns the standard deviation of the noise.
func (p Parameters) Sigma() float64 {
	return p.xe.Sigma
}

// Bound returns the largest magnitude of a noise sample.
func (p Parameters) Bound() float64 {
	return p.xe.Bound
}

// Xe returns the noise distribution.
func (p Parameters) Xe() ring.DiscreteGaussian {
	return p.xe
}

// PlaintextBound returns the decoding threshold T.
func (p Parameters) PlaintextBound() uint64 {
	return p.plaintextBound
}

// MultiplierType returns the algorithm used to evaluate the cyclic convolution.
func (p Parameters) MultiplierType() ring.MultiplierType {
	if p.ringQ == nil {
		return ring.MultiplierAuto
	}
	return p.ringQ.Multiplier().Type()
}

// RingQ returns a pointer to the ring Z_Q[X]/(X^N - 1).
func (p Parameters) RingQ() *ring.Ring {
	return p.ringQ
}

// FailureProbability returns the probability that at least one of the N coefficients of a
// message is not recovered exactly, i.e. that at least one noise sample round(Sigma * z)
// is non-zero: 1 - (1 - erfc(1/(2*Sigma*sqrt(2))))^N.
// The value is computed with [FailureProbabilityPrecision] bits and does not underflow for small Sigma.
// The truncation of the noise at Bound is ignored, except when Bound < 1, in which case
// every noise sample is zero and the returned probability is zero.
func (p Parameters) FailureProbability() *big.Float {

	prec := uint(FailureProbabilityPrecision)

	if p.xe.Sigma == 0 || p.xe.Bound < 1 || p.ringQ == nil {
		return bignum.NewFloat(0, prec)
	}

	// x = 1/(2*Sigma*sqrt(2))
	x := bignum.NewFloat(2*p.xe.Sigma, prec)
	x.Mul(x, new(big.Float).SetPrec(prec).Sqrt(bignum.NewFloat(2, prec)))
	x.Quo(bignum.NewFloat(1, prec), x)

	// Probability that a single sample is non-zero.
	p0 := bignum.Erfc(x, prec)

	N := bignum.NewFloat(p.N(), prec)

	// 1-p0 rounds to 1 at this precision: first order approximation N*p0.
	if p0.MantExp(nil) < -int(prec>>1) {
		return p0.Mul(p0, N)
	}

	one := bignum.NewFloat(1, prec)

	// 1 - (1-p0)^N = 1 - exp(N * log(1-p0))
	success := new(big.Float).Sub(one, p0)
	if success.Sign() == 0 {
		return one
	}

	success = bignum.Log(success)
	success.Mul(success, N)
	success = bignum.Exp(success)

	return success.Sub(one, success)
}

// Equal checks two Parameter structs for equality.
func (p Parameters) Equal(other *Parameters) bool {
	if other == nil {
		return false
	}
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// String returns a short description of the parameters.
func (p Parameters) String() string {
	return fmt.Sprintf("N=%d/Q=%d/Sigma=%v/T=%d/%s", p.N(), p.Q(), p.xe.Sigma, p.plaintextBound, p.MultiplierType())
}

// MarshalBinary returns a []byte representation of the parameter set.
// This representation corresponds to the MarshalJSON representation.
func (p Parameters) MarshalBinary() ([]byte, error) {
	return p.MarshalJSON()
}

// UnmarshalBinary decodes a []byte into a parameter set struct.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	return p.UnmarshalJSON(data)
}

// MarshalJSON returns a JSON representation of this parameter set. See `Marshal` from the `encoding/json` package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See `Unmarshal` from the `encoding/json` package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(params)
	return
}
