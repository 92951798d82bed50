package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadUint64 reads a uint64 from r and stores the result into c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var bb = [8]byte{}

	var nint int
	if nint, err = io.ReadFull(r, bb[:]); err != nil {
		return int64(nint), err
	}

	*c = binary.LittleEndian.Uint64(bb[:])

	return int64(nint), nil
}

// ReadUint64Slice reads a slice of uint64 from r and stores the result into c.
func ReadUint64Slice(r Reader, c []uint64) (n int64, err error) {

	for len(c) > 0 {

		// Avoid EOF
		size := r.Size()
		if len(c)<<3 < size {
			size = len(c) << 3
		}

		if size < 8 {
			// Not enough buffered data: falls back on the slow path
			// that lets the underlying reader refill.
			var inc int64
			if inc, err = ReadUint64(r, &c[0]); err != nil {
				return n + inc, err
			}
			n += inc
			c = c[1:]
			continue
		}

		var slice []byte
		if slice, err = r.Peek(size); err != nil {
			return
		}

		buffered := len(slice) >> 3

		for i, j := 0, 0; i < buffered; i, j = i+1, j+8 {
			c[i] = binary.LittleEndian.Uint64(slice[j:])
		}

		var inc int
		if inc, err = r.Discard(buffered << 3); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)
		c = c[buffered:]
	}

	return
}
