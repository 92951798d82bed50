package rlwe

import (
	"fmt"

	"github.com/tuneinsight/toyrlwe/ring"
	"github.com/tuneinsight/toyrlwe/utils"
	"github.com/tuneinsight/toyrlwe/utils/sampling"
	"github.com/tuneinsight/toyrlwe/utils/structs"
)

// Encryptor is a structure that encrypts messages under a secret key.
// It is read-only after its creation and safe for concurrent use, provided
// that its PRNG is: each call draws private sampler state from a pool.
type Encryptor struct {
	params   Parameters
	sk       *SecretKey
	prng     sampling.PRNG
	samplers *structs.SyncPool[*encryptorSamplers]
}

type encryptorSamplers struct {
	uniformSampler  *ring.UniformSampler
	gaussianSampler *ring.GaussianSampler
}

// NewEncryptor creates a new Encryptor from the secret key sk, reading its randomness from prng.
// An error wrapping [ErrShapeMismatch] is returned if sk does not match the parameters.
func NewEncryptor(params Parameters, sk *SecretKey, prng sampling.PRNG) (*Encryptor, error) {

	if sk == nil {
		return nil, fmt.Errorf("cannot NewEncryptor: secret key is nil")
	}

	if sk.N() != params.N() {
		return nil, fmt.Errorf("cannot NewEncryptor: %w: secret key degree %d != N=%d", ErrShapeMismatch, sk.N(), params.N())
	}

	if prng == nil {
		return nil, fmt.Errorf("cannot NewEncryptor: prng is nil")
	}

	// Validates the noise distribution once, so that the pool never fails.
	if _, err := ring.NewGaussianSampler(prng, params.RingQ(), params.Xe()); err != nil {
		return nil, fmt.Errorf("cannot NewEncryptor: %w", err)
	}

	enc := &Encryptor{
		params: params,
		sk:     sk,
		prng:   prng,
	}

	enc.samplers = structs.NewSyncPool(enc.newSamplers)

	return enc, nil
}

func (enc *Encryptor) newSamplers() *encryptorSamplers {
	gaussianSampler, err := ring.NewGaussianSampler(enc.prng, enc.params.RingQ(), enc.params.Xe())
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return &encryptorSamplers{
		uniformSampler:  ring.NewUniformSampler(enc.prng, enc.params.RingQ()),
		gaussianSampler: gaussianSampler,
	}
}

// GetParameters returns the underlying Parameters.
func (enc *Encryptor) GetParameters() Parameters {
	return enc.params
}

// WithPRNG returns a new Encryptor sharing the key of the target Encryptor but
// reading its randomness from prng.
func (enc *Encryptor) WithPRNG(prng sampling.PRNG) (*Encryptor, error) {
	return NewEncryptor(enc.params, enc.sk, prng)
}

// Encrypt encrypts message and returns the result on a newly allocated Ciphertext:
//
//  1. the message is zero-padded to N entries,
//  2. A is sampled uniformly in [0, Q)^N,
//  3. rounded Gaussian noise is added to the padded message,
//  4. C = A*s + (m + e) mod Q.
//
// Negative entries are encoded as their residue mod Q.
// An error wrapping [ErrMessageTooLong] is returned if len(message) > N.
func (enc *Encryptor) Encrypt(message []int64) (ct *Ciphertext, err error) {

	ringQ := enc.params.RingQ()

	if len(message) > ringQ.N {
		return nil, fmt.Errorf("cannot Encrypt: %w: len(message)=%d > N=%d", ErrMessageTooLong, len(message), ringQ.N)
	}

	samplers := enc.samplers.Get()
	defer enc.samplers.Put(samplers)

	// A pooled sampler may hold bytes read ahead by a previous call, and the pool
	// can drop samplers at any time: every call starts on a fresh PRNG read.
	samplers.uniformSampler.Reset()
	samplers.gaussianSampler.Reset()

	ct = &Ciphertext{
		A: samplers.uniformSampler.ReadNew(),
		C: ringQ.NewPoly(),
	}

	// C = m + e
	ringQ.SetCoefficientsInt64(utils.PadOrTruncate(message, ringQ.N), ct.C)
	samplers.gaussianSampler.ReadAndAdd(ct.C)

	// C = A*s + m + e
	ringQ.MulPolyThenAdd(ct.A, enc.sk.value, ct.C)

	return
}
