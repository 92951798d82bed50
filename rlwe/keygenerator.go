package rlwe

import (
	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/toyrlwe/ring"
	"github.com/tuneinsight/toyrlwe/utils/sampling"
	"github.com/zeebo/blake3"
)

// SecretKey is a type for the secret key s, a polynomial with coefficients
// uniformly distributed in [0, Q). It is never serialized.
type SecretKey struct {
	value ring.Poly
}

// N returns the ring degree of the secret key.
func (sk *SecretKey) N() int {
	return sk.value.N()
}

// Equal performs a deep equal.
func (sk *SecretKey) Equal(other *SecretKey) bool {
	if sk == nil || other == nil {
		return sk == other
	}
	return cmp.Equal(sk.value.Coeffs, other.value.Coeffs)
}

// Fingerprint returns the blake3 digest of the secret key. It identifies
// a key without revealing it.
func (sk *SecretKey) Fingerprint() []byte {
	data, err := sk.value.MarshalBinary()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	sum := blake3.Sum256(data)
	return sum[:]
}

// KeyGenerator is a structure that stores the elements required to create new keys.
// It is not safe for concurrent use.
type KeyGenerator struct {
	params         Parameters
	uniformSampler *ring.UniformSampler
}

// NewKeyGenerator creates a new KeyGenerator, from which the secret keys are generated
// with randomness read from prng.
func NewKeyGenerator(params Parameters, prng sampling.PRNG) *KeyGenerator {
	return &KeyGenerator{
		params:         params,
		uniformSampler: ring.NewUniformSampler(prng, params.RingQ()),
	}
}

// GenSecretKeyNew generates a new SecretKey as the sum mod Q of two
// independent polynomials uniformly distributed in [0, Q)^N.
func (kgen *KeyGenerator) GenSecretKeyNew() (sk *SecretKey) {
	sk = &SecretKey{value: kgen.params.RingQ().NewPoly()}
	kgen.GenSecretKey(sk)
	return
}

// GenSecretKey generates a SecretKey on sk.
func (kgen *KeyGenerator) GenSecretKey(sk *SecretKey) {
	ringQ := kgen.params.RingQ()
	if sk.value.N() != ringQ.N {
		sk.value = ringQ.NewPoly()
	}
	kgen.uniformSampler.Read(sk.value)
	kgen.uniformSampler.ReadAndAdd(sk.value)
}
