package rlwe

import (
	"fmt"

	"github.com/tuneinsight/toyrlwe/ring"
)

// Decryptor is a structure used to decrypt [Ciphertext]. It stores the secret-key.
// It is read-only and safe for concurrent use.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
}

// NewDecryptor instantiates a new Decryptor from the secret key sk.
// An error wrapping [ErrShapeMismatch] is returned if sk does not match the parameters.
func NewDecryptor(params Parameters, sk *SecretKey) (*Decryptor, error) {

	if sk == nil {
		return nil, fmt.Errorf("cannot NewDecryptor: secret key is nil")
	}

	if sk.N() != params.N() {
		return nil, fmt.Errorf("cannot NewDecryptor: %w: secret key degree %d != N=%d", ErrShapeMismatch, sk.N(), params.N())
	}

	return &Decryptor{
		params: params,
		sk:     sk,
	}, nil
}

// GetParameters returns the underlying Parameters.
func (d *Decryptor) GetParameters() Parameters {
	return d.params
}

// Decrypt decrypts ct and returns the N recovered entries:
// m' = C - A*s mod Q, where residues m' >= PlaintextBound are mapped to m' - Q.
// Coefficients of ct larger than Q are reduced before use.
// An error wrapping [ErrShapeMismatch] is returned if A or C does not have N coefficients.
func (d *Decryptor) Decrypt(ct *Ciphertext) (message []int64, err error) {

	var m ring.Poly
	if m, err = d.phase(ct); err != nil {
		return nil, fmt.Errorf("cannot Decrypt: %w", err)
	}

	q := d.params.Q()
	t := d.params.PlaintextBound()

	message = make([]int64, len(m.Coeffs))
	for i, c := range m.Coeffs {
		if c >= t {
			message[i] = int64(c) - int64(q)
		} else {
			message[i] = int64(c)
		}
	}

	return
}

// Residual returns the raw error C - A*s - m mod Q of ct with respect to the
// expected message, in the centered range (-Q/2, Q/2].
// An error wrapping [ErrMessageTooLong] is returned if len(message) > N.
func (d *Decryptor) Residual(ct *Ciphertext, message []int64) (residual []int64, err error) {

	ringQ := d.params.RingQ()

	if len(message) > ringQ.N {
		return nil, fmt.Errorf("cannot Residual: %w: len(message)=%d > N=%d", ErrMessageTooLong, len(message), ringQ.N)
	}

	var m ring.Poly
	if m, err = d.phase(ct); err != nil {
		return nil, fmt.Errorf("cannot Residual: %w", err)
	}

	pt := ringQ.NewPoly()
	ringQ.SetCoefficientsInt64(message, pt)
	ringQ.Sub(m, pt, m)

	residual = make([]int64, ringQ.N)
	ringQ.PolyToInt64Centered(m, residual)

	return
}

// phase returns C - A*s mod Q.
func (d *Decryptor) phase(ct *Ciphertext) (m ring.Poly, err error) {

	ringQ := d.params.RingQ()

	if ct == nil {
		return m, fmt.Errorf("%w: ciphertext is nil", ErrShapeMismatch)
	}

	if ct.A.N() != ringQ.N || ct.C.N() != ringQ.N {
		return m, fmt.Errorf("%w: len(A)=%d, len(C)=%d but N=%d", ErrShapeMismatch, ct.A.N(), ct.C.N(), ringQ.N)
	}

	a := ringQ.NewPoly()
	ringQ.Reduce(ct.A, a)

	m = ringQ.NewPoly()
	ringQ.Reduce(ct.C, m)

	ringQ.MulPoly(a, d.sk.value, a)
	ringQ.Sub(m, a, m)

	return
}
