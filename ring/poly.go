package ring

import (
	"bufio"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/toyrlwe/utils/buffer"
)

// Poly is the structure that contains the coefficients of a polynomial
// of the ring Z_Q[X]/(X^N - 1).
type Poly struct {
	Coeffs []uint64
}

// NewPoly creates a new polynomial with N coefficients set to zero.
func NewPoly(N int) (pol Poly) {
	return Poly{Coeffs: make([]uint64, N)}
}

// N returns the number of coefficients of the polynomial.
func (pol Poly) N() int {
	return len(pol.Coeffs)
}

// Zero sets all coefficients of the target polynomial to 0.
func (pol Poly) Zero() {
	for i := range pol.Coeffs {
		pol.Coeffs[i] = 0
	}
}

// CopyNew creates an exact copy of the target polynomial.
func (pol Poly) CopyNew() *Poly {
	cpy := NewPoly(pol.N())
	copy(cpy.Coeffs, pol.Coeffs)
	return &cpy
}

// Copy copies the coefficients of p1 on the target polynomial.
// This method does nothing if the underlying arrays are the same.
// The number of copied coefficients is min(pol.N(), p1.N()).
func (pol *Poly) Copy(p1 Poly) {
	if pol.N() == 0 || p1.N() == 0 {
		return
	}
	if &pol.Coeffs[0] != &p1.Coeffs[0] {
		copy(pol.Coeffs, p1.Coeffs)
	}
}

// Equal returns true if the receiver Poly is equal to the provided other Poly.
// This function checks for strict equality between the polynomial coefficients
// (i.e., it does not consider congruence as equality within the ring).
func (pol Poly) Equal(other *Poly) bool {
	if other == nil {
		return false
	}
	return cmp.Equal(pol.Coeffs, other.Coeffs)
}

// BinarySize returns the serialized size of the object in bytes.
func (pol Poly) BinarySize() (size int) {
	return 8 + pol.N()<<3
}

// WriteTo writes the object on an [io.Writer]. It implements the [io.WriterTo]
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the [buffer.Writer] interface,
// it will be wrapped into a [bufio.Writer], which is flushed before returning.
func (pol Poly) WriteTo(w io.Writer) (n int64, err error) {

	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteUint64(w, uint64(pol.N())); err != nil {
			return n + inc, err
		}

		n += inc

		inc, err = buffer.WriteUint64Slice(w, pol.Coeffs)

		return n + inc, err

	default:
		bw := bufio.NewWriter(w)
		if n, err = pol.WriteTo(bw); err != nil {
			return
		}
		return n, bw.Flush()
	}
}

// ReadFrom reads on the object from an [io.Writer]. It implements the
// [io.ReaderFrom] interface.
//
// Unless r implements the [buffer.Reader] interface,
// it will be wrapped into a [bufio.Reader]. Since this requires allocation, it
// is preferable to pass a buffer.Reader directly.
func (pol *Poly) ReadFrom(r io.Reader) (n int64, err error) {

	switch r := r.(type) {
	case buffer.Reader:

		if pol == nil {
			return 0, fmt.Errorf("cannot ReadFrom: target object is nil")
		}

		var inc int64
		var N uint64

		if inc, err = buffer.ReadUint64(r, &N); err != nil {
			return n + inc, fmt.Errorf("cannot ReadFrom: N: %w", err)
		}

		n += inc

		if N > MaxRingDegree {
			return n, fmt.Errorf("cannot ReadFrom: N=%d exceeds the maximum ring degree %d", N, MaxRingDegree)
		}

		if uint64(pol.N()) != N {
			pol.Coeffs = make([]uint64, N)
		}

		inc, err = buffer.ReadUint64Slice(r, pol.Coeffs)

		return n + inc, err

	default:
		return pol.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pol Poly) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(pol.BinarySize())
	_, err = pol.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [Poly.MarshalBinary] or [Poly.WriteTo] on the object.
func (pol *Poly) UnmarshalBinary(p []byte) (err error) {
	_, err = pol.ReadFrom(buffer.NewBuffer(p))
	return
}
