// Package factorization implements various algorithms for efficient factoring integers of small to medium size.
package factorization

import (
	"math/big"

	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

// smallPrimesBound is the bound under which factors are found by trial division.
const smallPrimesBound = 1 << 10

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(m *big.Int) bool {
	return m.ProbablyPrime(0)
}

// GetFactors returns all the unique prime factors of m, in no particular order.
func GetFactors(m *big.Int) (factors []*big.Int) {

	m = new(big.Int).Set(m)

	one := big.NewInt(1)

	if m.Cmp(one) <= 0 {
		return
	}

	seen := map[string]bool{}

	add := func(factor *big.Int) {
		if key := factor.String(); !seen[key] {
			seen[key] = true
			factors = append(factors, new(big.Int).Set(factor))
		}
	}

	// Trial division removes the small factors, which Pollard's rho
	// handles poorly (e.g. the large powers of two of NTT-friendly moduli).
	p := new(big.Int)
	r := new(big.Int)
	q := new(big.Int)
	for i := int64(2); i < smallPrimesBound && m.Cmp(one) != 0; i++ {
		p.SetInt64(i)
		for {
			if q.QuoRem(m, p, r); r.Sign() != 0 {
				break
			}
			add(p)
			m.Set(q)
		}
	}

	prng, err := sampling.NewPRNG()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	// Recursively splits the cofactor.
	var split func(n *big.Int)
	split = func(n *big.Int) {

		if n.Cmp(one) == 0 {
			return
		}

		if IsPrime(n) {
			add(n)
			return
		}

		d := GetFactorPollardRho(prng, n)
		split(d)
		split(new(big.Int).Quo(n, d))
	}

	split(m)

	return
}

// GetFactorPollardRho returns a non-trivial factor of the composite integer m using
// Pollard's rho algorithm with Floyd's cycle detection, restarting with a new random
// polynomial x^2 + c mod m whenever a cycle is reached without finding a factor.
func GetFactorPollardRho(prng sampling.PRNG, m *big.Int) (d *big.Int) {

	one := big.NewInt(1)
	two := big.NewInt(2)

	if new(big.Int).Mod(m, two).Sign() == 0 {
		return two
	}

	x := new(big.Int)
	y := new(big.Int)
	c := new(big.Int)
	tmp := new(big.Int)
	d = new(big.Int)

	f := func(z *big.Int) {
		z.Mul(z, z)
		z.Add(z, c)
		z.Mod(z, m)
	}

	for {

		x.Add(sampling.RandInt(prng, new(big.Int).Sub(m, two)), two)
		y.Set(x)
		c.Add(sampling.RandInt(prng, new(big.Int).Sub(m, one)), one)
		d.SetInt64(1)

		for d.Cmp(one) == 0 {
			f(x)
			f(y)
			f(y)
			tmp.Sub(x, y)
			tmp.Abs(tmp)
			d.GCD(nil, nil, tmp, m)
		}

		if d.Cmp(m) != 0 {
			return
		}
	}
}
