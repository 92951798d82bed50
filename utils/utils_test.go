package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPadOrTruncate(t *testing.T) {
	s := []int64{1, 2, 3}

	require.Equal(t, []int64{1, 2, 3, 0, 0}, PadOrTruncate(s, 5))
	require.Equal(t, []int64{1, 2}, PadOrTruncate(s, 2))
	require.Equal(t, []int64{1, 2, 3}, PadOrTruncate(s, 3))
	require.Equal(t, []int64{0, 0}, PadOrTruncate([]int64(nil), 2))
	require.Equal(t, []int64{1, 2, 3}, s, "should not modify input slice")

	w := PadOrTruncate(s, 3)
	w[0] = 42
	require.Equal(t, int64(1), s[0], "output should not alias input")
}

func TestIsPowerOfTwo(t *testing.T) {
	require.True(t, IsPowerOfTwo(1))
	require.True(t, IsPowerOfTwo(256))
	require.True(t, IsPowerOfTwo(uint64(1)<<62))
	require.False(t, IsPowerOfTwo(0))
	require.False(t, IsPowerOfTwo(-4))
	require.False(t, IsPowerOfTwo(6))
}

func TestBitReverse64(t *testing.T) {
	require.Equal(t, uint64(0), BitReverse64(0, 3))
	require.Equal(t, uint64(4), BitReverse64(1, 3))
	require.Equal(t, uint64(6), BitReverse64(3, 3))
	require.Equal(t, uint64(0), BitReverse64(0, 0))
}

func TestModular(t *testing.T) {
	q := uint64(7681)

	require.Equal(t, uint64(7680), ModSigned(int64(-1), q))
	require.Equal(t, uint64(0), ModSigned(int64(-7681), q))
	require.Equal(t, uint64(1), ModSigned(int64(7682), q))
	require.Equal(t, uint64(72), ModSigned(int64(72), q))
	require.Equal(t, uint64(math.MaxInt64%q), ModSigned(int64(math.MaxInt64), q))

	// |MinInt64| = 2^63 is not an int64.
	require.Equal(t, q-(uint64(1)<<63)%q, ModSigned(int64(math.MinInt64), q))
	require.Equal(t, uint64(0), ModSigned(int64(math.MinInt64), 1<<32))
	require.Equal(t, uint64(0x80), ModSigned(int8(math.MinInt8), 0x100))

	require.Equal(t, int64(-1), ModCenter(7680, q))
	require.Equal(t, int64(3840), ModCenter(3840, q))
	require.Equal(t, int64(-3840), ModCenter(3841, q))
	require.Equal(t, int64(5), ModCenter(5, q))
}

func TestMinMaxAbs(t *testing.T) {
	require.Equal(t, 2, Min(2, 3))
	require.Equal(t, 3.5, Max(2.0, 3.5))
	require.Equal(t, int64(7), Abs(int64(-7)))
	require.True(t, EqualSlice([]uint64{1, 2}, []uint64{1, 2}))
	require.False(t, EqualSlice([]uint64{1, 2}, []uint64{1}))
	require.False(t, EqualSlice([]uint64{1, 2}, []uint64{1, 3}))
}
