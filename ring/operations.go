package ring

import (
	"github.com/tuneinsight/toyrlwe/utils"
)

// Add evaluates p3 = p1 + p2 coefficient-wise in the ring.
func (r *Ring) Add(p1, p2, p3 Poly) {
	q := r.Modulus
	c1, c2, c3 := p1.Coeffs[:r.N], p2.Coeffs[:r.N], p3.Coeffs[:r.N]
	for j := range c3 {
		c3[j] = CRed(c1[j]+c2[j], q)
	}
}

// Sub evaluates p3 = p1 - p2 coefficient-wise in the ring.
// The result is always in [0, Modulus-1].
func (r *Ring) Sub(p1, p2, p3 Poly) {
	q := r.Modulus
	c1, c2, c3 := p1.Coeffs[:r.N], p2.Coeffs[:r.N], p3.Coeffs[:r.N]
	for j := range c3 {
		c3[j] = CRed(c1[j]+q-c2[j], q)
	}
}

// Neg evaluates p2 = -p1 coefficient-wise in the ring.
func (r *Ring) Neg(p1, p2 Poly) {
	q := r.Modulus
	c1, c2 := p1.Coeffs[:r.N], p2.Coeffs[:r.N]
	for j := range c2 {
		c2[j] = CRed(q-c1[j], q)
	}
}

// Reduce evaluates p2 = p1 coefficient-wise mod Modulus, for
// p1 with arbitrary 64 bit coefficients.
func (r *Ring) Reduce(p1, p2 Poly) {
	q, bredConstant := r.Modulus, r.BRedConstant
	c1, c2 := p1.Coeffs[:r.N], p2.Coeffs[:r.N]
	for j := range c2 {
		c2[j] = BRedAdd(c1[j], q, bredConstant)
	}
}

// MulPoly evaluates p3 = p1 * p2 in Z_Q[X]/(X^N - 1), i.e. the cyclic convolution
// p3[k] = sum_{i+j = k mod N} p1[i]*p2[j] mod Q.
// Inputs must be reduced mod Q. p3 can alias p1 or p2.
// The result is exact: the convolution never leaves the integers mod Q.
func (r *Ring) MulPoly(p1, p2, p3 Poly) {
	r.multiplier.MulPoly(p1.Coeffs[:r.N], p2.Coeffs[:r.N], p3.Coeffs[:r.N])
}

// MulPolyThenAdd evaluates p3 = p3 + p1 * p2 in Z_Q[X]/(X^N - 1).
func (r *Ring) MulPolyThenAdd(p1, p2, p3 Poly) {
	tmp := r.NewPoly()
	r.MulPoly(p1, p2, tmp)
	r.Add(p3, tmp, p3)
}

// SetCoefficientsInt64 sets the first len(values) coefficients of pol to
// values mod Q and the remaining ones to zero. Negative values are mapped
// to their positive representative mod Q.
// len(values) must not exceed N.
func (r *Ring) SetCoefficientsInt64(values []int64, pol Poly) {
	q := r.Modulus
	coeffs := pol.Coeffs[:r.N]
	for j := range coeffs {
		if j < len(values) {
			coeffs[j] = utils.ModSigned(values[j], q)
		} else {
			coeffs[j] = 0
		}
	}
}

// PolyToInt64Centered writes the coefficients of pol on values in the
// centered range (-Q/2, Q/2].
func (r *Ring) PolyToInt64Centered(pol Poly, values []int64) {
	q := r.Modulus
	for j := range values[:utils.Min(len(values), r.N)] {
		values[j] = utils.ModCenter(pol.Coeffs[j], q)
	}
}
