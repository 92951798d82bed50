// Package sampling implements secure sampling of bytes and integers.
package sampling

import (
	"encoding/binary"
	"math/big"
)

// RandUint64 returns a random value between 0 and 0xFFFFFFFFFFFFFFFF read from prng.
func RandUint64(prng PRNG) uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := prng.Read(b); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}

// RandFloat64 returns a random float between min and max read from prng.
func RandFloat64(prng PRNG, min, max float64) float64 {
	f := float64(RandUint64(prng)>>11) / (1 << 53)
	return min + f*(max-min)
}

// RandInt generates a random Int in [0, max-1] read from prng.
func RandInt(prng PRNG, max *big.Int) (n *big.Int) {

	n = new(big.Int)

	if max.Sign() <= 0 {
		return
	}

	// Rejection sampling on the bit-length of max
	bitLen := max.BitLen()
	byteLen := (bitLen + 7) >> 3
	mask := byte(0xFF >> (uint(byteLen<<3) - uint(bitLen)))

	b := make([]byte, byteLen)

	for {
		if _, err := prng.Read(b); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}

		b[0] &= mask

		if n.SetBytes(b); n.Cmp(max) < 0 {
			return
		}
	}
}
