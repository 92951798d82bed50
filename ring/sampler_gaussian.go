package ring

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

// GaussianSampler keeps the state of a sampler of polynomials whose coefficients
// are round(Sigma * z) for z ~ N(0, 1), resampled whenever |round(Sigma * z)| > Bound.
type GaussianSampler struct {
	*baseSampler
	*randomBuffer
	xe DiscreteGaussian

	// second output of the last Box-Muller transform
	spare    float64
	hasSpare bool
}

// NewGaussianSampler creates a new instance of GaussianSampler from a PRNG, a ring definition and the
// distribution parameters. An error is returned if Sigma or Bound is negative or not finite.
func NewGaussianSampler(prng sampling.PRNG, baseRing *Ring, X DiscreteGaussian) (g *GaussianSampler, err error) {

	if X.Sigma < 0 || math.IsNaN(X.Sigma) || math.IsInf(X.Sigma, 0) {
		return nil, fmt.Errorf("invalid DiscreteGaussian: Sigma must be finite and non-negative but is %v", X.Sigma)
	}

	if X.Bound < 0 || math.IsNaN(X.Bound) || math.IsInf(X.Bound, 0) {
		return nil, fmt.Errorf("invalid DiscreteGaussian: Bound must be finite and non-negative but is %v", X.Bound)
	}

	g = new(GaussianSampler)
	g.baseSampler = &baseSampler{
		prng:     prng,
		baseRing: baseRing,
	}
	g.randomBuffer = newRandomBuffer()
	g.xe = X
	return
}

// Reset discards the buffered random bytes and the pending Box-Muller output.
func (g *GaussianSampler) Reset() {
	g.randomBuffer.Reset()
	g.spare, g.hasSpare = 0, false
}

// Read samples a rounded Gaussian polynomial on pol.
func (g *GaussianSampler) Read(pol Poly) {
	g.read(pol, func(a, b, c uint64) uint64 {
		return b
	})
}

// ReadNew samples a new rounded Gaussian polynomial.
func (g *GaussianSampler) ReadNew() (pol Poly) {
	pol = g.baseRing.NewPoly()
	g.Read(pol)
	return pol
}

// ReadAndAdd adds on pol a rounded Gaussian polynomial.
// If Sigma is zero, pol is left unchanged.
func (g *GaussianSampler) ReadAndAdd(pol Poly) {
	if g.xe.Sigma == 0 {
		return
	}
	g.read(pol, func(a, b, c uint64) uint64 {
		return CRed(a+b, c)
	})
}

// ReadInt64 samples len(values) rounded Gaussian integers on values.
func (g *GaussianSampler) ReadInt64(values []int64) {
	for i := range values {
		values[i] = g.sample()
	}
}

func (g *GaussianSampler) read(pol Poly, f func(a, b, c uint64) uint64) {

	q := g.baseRing.Modulus

	coeffs := pol.Coeffs[:g.baseRing.N]

	var x int64
	var r uint64
	for i := range coeffs {

		x = g.sample()

		// -|x| is mapped to q - |x|
		if x < 0 {
			r = q - uint64(-x)%q
			if r == q {
				r = 0
			}
		} else {
			r = uint64(x) % q
		}

		coeffs[i] = f(coeffs[i], r, q)
	}
}

// sample returns round(Sigma * z) for z ~ N(0, 1), rejecting values outside of [-Bound, Bound].
func (g *GaussianSampler) sample() int64 {

	sigma, bound := g.xe.Sigma, g.xe.Bound

	if sigma == 0 {
		return 0
	}

	for {
		if x := math.Round(sigma * g.normFloat64()); math.Abs(x) <= bound {
			return int64(x)
		}
	}
}

// normFloat64 returns a standard normal sample with the Box-Muller transform.
// Uniforms are read 53 bits at a time from the random buffer; u1 is taken in (0, 1].
func (g *GaussianSampler) normFloat64() float64 {

	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}

	u1 := 1 - float64(binary.LittleEndian.Uint64(g.next8(g.prng))>>11)/(1<<53)
	u2 := float64(binary.LittleEndian.Uint64(g.next8(g.prng))>>11) / (1 << 53)

	radius := math.Sqrt(-2 * math.Log(u1))
	sin, cos := math.Sincos(2 * math.Pi * u2)

	g.spare = radius * sin
	g.hasSpare = true

	return radius * cos
}
