// Package bignum implements arbitrary precision arithmetic helpers on top of math/big.
package bignum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

const pi = "3.14159265358979323846264338327950288419716939937510582097494459230781640628620899862803482534211706798214808651328230664709384460955058223172535940812848111745028410270193852110555964462294895493038196"

// Pi returns Pi with prec bits of precision.
func Pi(prec uint) *big.Float {
	pi, _ := new(big.Float).SetPrec(prec).SetString(pi)
	return pi
}

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valide types for x are: int, int64, uint, uint64, float64, *big.Int or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valide types are int, int64, uint, uint64, float64, *big.Int or *big.Float but is %T", x))
	}

	return
}

// Log return ln(x) with the precision of x.
func Log(x *big.Float) (ln *big.Float) {
	return bigfloat.Log(x)
}

// Exp returns exp(x) with the precision of x.
func Exp(x *big.Float) (exp *big.Float) {
	return bigfloat.Exp(x)
}

// Pow returns x^y.
func Pow(x, y *big.Float) (pow *big.Float) {
	return bigfloat.Pow(x, y)
}

// Erfc returns the complementary error function erfc(x) for x >= 0.
//
// For small arguments the value is taken from math.Erfc. For large arguments,
// where float64 underflows, the asymptotic expansion
// erfc(x) ~ exp(-x^2)/(x*sqrt(pi)) * sum_k (-1)^k (2k-1)!! / (2x^2)^k
// is evaluated with prec bits of precision.
func Erfc(x *big.Float, prec uint) (y *big.Float) {

	if x.Sign() < 0 {
		panic(fmt.Errorf("invalid x: must be non-negative"))
	}

	xf64, _ := x.Float64()

	if xf64 < 6 {
		return NewFloat(math.Erfc(xf64), prec)
	}

	x = NewFloat(x, prec)

	x2 := new(big.Float).Mul(x, x)

	// exp(-x^2)
	y = Exp(new(big.Float).Neg(x2))

	// / (x * sqrt(pi))
	den := new(big.Float).Sqrt(Pi(prec))
	den.Mul(den, x)
	y.Quo(y, den)

	// The terms of the series decrease while 2k-1 < 2x^2.
	twoX2 := new(big.Float).Add(x2, x2)
	sum := NewFloat(1, prec)
	term := NewFloat(1, prec)
	for k := 1; k < 32; k++ {
		term.Mul(term, NewFloat(-(2*k - 1), prec))
		term.Quo(term, twoX2)

		if new(big.Float).Abs(term).Cmp(NewFloat(math.Pow(2, -float64(prec)), prec)) < 0 {
			break
		}

		sum.Add(sum, term)
	}

	return y.Mul(y, sum)
}
