package rlwe

import (
	"fmt"

	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

// Engine bundles a set of parameters with a secret key generated at construction,
// and the [Encryptor] and [Decryptor] that use it. The key never changes after
// the Engine is returned, and the Engine is safe for concurrent use.
type Engine struct {
	params Parameters
	sk     *SecretKey
	*Encryptor
	*Decryptor
}

// New creates a new Engine for the ring degree n, modulus q and noise standard deviation sigma,
// with the default plaintext bound and randomness read from the operating system.
// An error wrapping [ErrInvalidParameter] is returned if n <= 0, q <= 1, or sigma
// is negative, NaN or infinite.
func New(n int, q uint64, sigma float64) (*Engine, error) {

	params, err := NewParameters(n, q, sigma)
	if err != nil {
		return nil, fmt.Errorf("cannot New: %w", err)
	}

	prng, err := sampling.NewPRNG()
	if err != nil {
		return nil, fmt.Errorf("cannot New: %w", err)
	}

	return NewEngine(params, prng)
}

// NewEngine creates a new Engine from checked parameters, generating the secret key
// and all the encryption randomness from prng. With a [sampling.KeyedPRNG] used by a
// single goroutine, the key and the ciphertexts are deterministic.
func NewEngine(params Parameters, prng sampling.PRNG) (eng *Engine, err error) {

	if params.RingQ() == nil {
		return nil, fmt.Errorf("cannot NewEngine: %w: empty parameters", ErrInvalidParameter)
	}

	if prng == nil {
		return nil, fmt.Errorf("cannot NewEngine: prng is nil")
	}

	eng = &Engine{
		params: params,
		sk:     NewKeyGenerator(params, prng).GenSecretKeyNew(),
	}

	if eng.Encryptor, err = NewEncryptor(params, eng.sk, prng); err != nil {
		return nil, fmt.Errorf("cannot NewEngine: %w", err)
	}

	if eng.Decryptor, err = NewDecryptor(params, eng.sk); err != nil {
		return nil, fmt.Errorf("cannot NewEngine: %w", err)
	}

	return
}

// GetParameters returns the underlying Parameters.
func (eng *Engine) GetParameters() Parameters {
	return eng.params
}

// KeyFingerprint returns the blake3 digest of the secret key.
func (eng *Engine) KeyFingerprint() []byte {
	return eng.sk.Fingerprint()
}
