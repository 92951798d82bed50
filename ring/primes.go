package ring

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/toyrlwe/utils/factorization"
)

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(x uint64) bool {
	return factorization.IsPrime(new(big.Int).SetUint64(x))
}

// PrimitiveRoot computes the smallest primitive root of the given prime q.
// The unique factors of q-1 can be given to speed up the search for the root.
func PrimitiveRoot(q uint64, factors []uint64) (uint64, []uint64, error) {

	if !IsPrime(q) {
		return 0, nil, fmt.Errorf("invalid modulus: %d is not prime", q)
	}

	if q == 2 {
		return 1, []uint64{}, nil
	}

	if factors != nil {
		if err := CheckFactors(q-1, factors); err != nil {
			return 0, factors, err
		}
	} else {

		factorsBig := factorization.GetFactors(new(big.Int).SetUint64(q - 1)) //Factor q-1, might be slow

		factors = make([]uint64, len(factorsBig))
		for i := range factors {
			factors[i] = factorsBig[i].Uint64()
		}
	}

	for g := uint64(2); g < q; g++ {
		if isGenerator(g, q, factors) {
			return g, factors, nil
		}
	}

	// Sanity check, a prime always admits a primitive root.
	return 0, factors, fmt.Errorf("no primitive root found for %d", q)
}

// isGenerator returns true if for all factor of q-1, g^(q-1)/factor != 1 mod q.
func isGenerator(g, q uint64, factors []uint64) bool {
	for _, factor := range factors {
		if ModExp(g, (q-1)/factor, q) == 1 {
			return false
		}
	}
	return true
}

// CheckFactors checks that the given list of factors contains
// all the unique primes of m.
func CheckFactors(m uint64, factors []uint64) (err error) {

	for _, factor := range factors {

		if !IsPrime(factor) {
			return fmt.Errorf("composite factor")
		}

		for m%factor == 0 {
			m /= factor
		}
	}

	if m != 1 {
		return fmt.Errorf("incomplete factor list")
	}

	return
}

// CheckPrimitiveRoot checks that g is a valid primitive root mod q,
// given the factors of q-1.
func CheckPrimitiveRoot(g, q uint64, factors []uint64) (err error) {

	if err = CheckFactors(q-1, factors); err != nil {
		return
	}

	if !isGenerator(g, q, factors) {
		return fmt.Errorf("invalid primitive root")
	}

	return
}

// NextNTTPrime returns the smallest prime q > start such that q = 1 mod N,
// i.e. the smallest modulus above start enabling a cyclic NTT of size N.
func NextNTTPrime(start uint64, N int) (q uint64, err error) {

	n := uint64(N)

	q = start - start%n + 1
	if q <= start {
		q += n
	}

	for ; q < 1<<MaxModulusBits; q += n {
		if IsPrime(q) {
			return q, nil
		}
	}

	return 0, fmt.Errorf("no NTT prime found above %d for N=%d", start, N)
}
