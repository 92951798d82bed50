// Package utils implements various helper functions.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Min returns the minimum between a and b.
func Min[V constraints.Ordered](a, b V) V {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum between a and b.
func Max[V constraints.Ordered](a, b V) V {
	if a >= b {
		return a
	}
	return b
}

// Abs returns |a|.
func Abs[V constraints.Signed | constraints.Float](a V) V {
	if a < 0 {
		return -a
	}
	return a
}

// IsPowerOfTwo returns true if x is a power of two.
func IsPowerOfTwo[V constraints.Integer](x V) bool {
	return x > 0 && x&(x-1) == 0
}

// BitReverse64 returns the bit-reverse value of the input value, within a context of 2^bitLen.
func BitReverse64(index uint64, bitLen int) uint64 {
	if bitLen == 0 {
		return 0
	}
	return bits.Reverse64(index) >> (64 - bitLen)
}

// PadOrTruncate returns a new slice of size n whose first min(len(v), n)
// values are copied from v and whose remaining values are zero.
func PadOrTruncate[V any](v []V, n int) (w []V) {
	w = make([]V, n)
	copy(w, v)
	return
}

// ModCenter returns x mod q in the range (-q/2, q/2].
func ModCenter(x, q uint64) int64 {
	x %= q
	if x > q>>1 {
		return int64(x) - int64(q)
	}
	return int64(x)
}

// ModSigned returns x mod q in the range [0, q-1] for a signed x.
func ModSigned[V constraints.Signed](x V, q uint64) uint64 {
	if x < 0 {
		// |x| = -(x+1) + 1 does not overflow for x = math.MinInt64.
		r := (uint64(-(int64(x) + 1)) + 1) % q
		if r == 0 {
			return 0
		}
		return q - r
	}
	return uint64(x) % q
}

// EqualSlice checks the equality between two slices of comparables.
func EqualSlice[V comparable](a, b []V) (v bool) {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
