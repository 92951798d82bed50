package rlwe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tuneinsight/toyrlwe/ring"
	"github.com/tuneinsight/toyrlwe/utils/buffer"
)

// Ciphertext is a pair (A, C) of polynomials of Z_Q[X]/(X^N - 1), where A is
// the public randomness and C = A*s + m + e mod Q.
type Ciphertext struct {
	A ring.Poly
	C ring.Poly
}

// NewCiphertext returns a new Ciphertext with zero values.
func NewCiphertext(params Parameters) *Ciphertext {
	return &Ciphertext{
		A: params.RingQ().NewPoly(),
		C: params.RingQ().NewPoly(),
	}
}

// N returns the ring degree of the ciphertext, or -1 if the
// degrees of A and C differ.
func (ct Ciphertext) N() int {
	if ct.A.N() != ct.C.N() {
		return -1
	}
	return ct.A.N()
}

// CopyNew creates a deep copy of the object and returns it.
func (ct Ciphertext) CopyNew() *Ciphertext {
	return &Ciphertext{A: *ct.A.CopyNew(), C: *ct.C.CopyNew()}
}

// Equal performs a deep equal.
func (ct Ciphertext) Equal(other *Ciphertext) bool {
	if other == nil {
		return false
	}
	return ct.A.Equal(&other.A) && ct.C.Equal(&other.C)
}

// BinarySize returns the serialized size of the object in bytes.
func (ct Ciphertext) BinarySize() int {
	return ct.A.BinarySize() + ct.C.BinarySize()
}

// WriteTo writes the object on an [io.Writer]. It implements the [io.WriterTo]
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the [buffer.Writer] interface,
// it will be wrapped into a [bufio.Writer], which is flushed before returning.
func (ct Ciphertext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = ct.A.WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("cannot write: A: %w", err)
		}

		n += inc

		if inc, err = ct.C.WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("cannot write: C: %w", err)
		}

		return n + inc, nil

	default:
		bw := bufio.NewWriter(w)
		if n, err = ct.WriteTo(bw); err != nil {
			return
		}
		return n, bw.Flush()
	}
}

// ReadFrom reads on the object from an [io.Reader]. It implements the
// [io.ReaderFrom] interface.
//
// Unless r implements the [buffer.Reader] interface,
// it will be wrapped into a [bufio.Reader].
// An error wrapping [ErrShapeMismatch] is returned if A and C do not have the same degree.
func (ct *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if ct == nil {
			return 0, fmt.Errorf("cannot ReadFrom: target object is nil")
		}

		var inc int64
		if inc, err = ct.A.ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("cannot read: A: %w", err)
		}

		n += inc

		if inc, err = ct.C.ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("cannot read: C: %w", err)
		}

		n += inc

		if ct.A.N() != ct.C.N() {
			return n, fmt.Errorf("cannot ReadFrom: %w: len(A)=%d != len(C)=%d", ErrShapeMismatch, ct.A.N(), ct.C.N())
		}

		return n, nil

	default:
		return ct.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (ct Ciphertext) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(ct.BinarySize())
	_, err = ct.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [Ciphertext.MarshalBinary] or [Ciphertext.WriteTo] on the object.
func (ct *Ciphertext) UnmarshalBinary(p []byte) (err error) {
	_, err = ct.ReadFrom(buffer.NewBuffer(p))
	return
}
