package ring

import (
	"math/big"
	"math/bits"
)

//==========================
//=== BARRETT REDUCTION  ===
//==========================

// GenBRedConstant computes the constant for the BRed algorithm.
// Returns ((2^128)/q)/(2^64) and (2^128)/q mod 2^64.
func GenBRedConstant(q uint64) [2]uint64 {
	bigR := new(big.Int).Lsh(big.NewInt(1), 128)
	bigR.Quo(bigR, new(big.Int).SetUint64(q))

	// 2^radix // q
	mlo := bigR.Uint64()
	mhi := bigR.Rsh(bigR, 64).Uint64()

	return [2]uint64{mhi, mlo}
}

// BRedAdd computes a mod q for any 64 bit integer a.
func BRedAdd(a, q uint64, u [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, u[0])
	r = a - mhi*q
	if r >= q {
		r -= q
	}
	return
}

// BRed computes x*y mod q for x, y < q.
func BRed(x, y, q uint64, u [2]uint64) (r uint64) {

	var lhi, mhi, mlo, s0, s1, carry uint64

	ahi, alo := bits.Mul64(x, y)

	// (alo*ulo)>>64

	lhi, _ = bits.Mul64(alo, u[1])

	// ((ahi*ulo + alo*uhi) + (alo*ulo))>>64

	mhi, mlo = bits.Mul64(alo, u[0])

	s0, carry = bits.Add64(mlo, lhi, 0)

	s1 = mhi + carry

	mhi, mlo = bits.Mul64(ahi, u[1])

	_, carry = bits.Add64(mlo, s0, 0)

	lhi = mhi + carry

	// (ahi*uhi) + (((ahi*ulo + alo*uhi) + (alo*ulo))>>64)

	s0 = ahi*u[0] + s1 + lhi

	r = alo - s0*q

	if r >= q {
		r -= q
	}

	return
}

//===============================
//==== CONDITIONAL REDUCTION ====
//===============================

// CRed reduce returns a mod q, where
// a is required to be in the range [0, 2q-1].
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}

// ModExp performs the modular exponentiation x^e mod q,
// x and q must not exceed 64 bits.
func ModExp(x, e, q uint64) (result uint64) {
	bredConstant := GenBRedConstant(q)
	result = CRed(1, q)
	x = BRedAdd(x, q, bredConstant)
	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			result = BRed(result, x, q, bredConstant)
		}
		x = BRed(x, x, q, bredConstant)
	}
	return result
}

// ModInverse returns x^-1 mod q for a prime q.
func ModInverse(x, q uint64) uint64 {
	return ModExp(x, q-2, q)
}
