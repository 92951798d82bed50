package buffer

import (
	"encoding/binary"
	"fmt"
)

// WriteUint64 writes a uint64 c into w.
func WriteUint64(w Writer, c uint64) (n int64, err error) {

	if w.Available()>>3 == 0 {
		if err = w.Flush(); err != nil {
			return
		}

		if w.Available()>>3 == 0 {
			return 0, fmt.Errorf("cannot WriteUint64: available buffer/8 is zero even after flush")
		}
	}

	buf := w.AvailableBuffer()[:8]

	binary.LittleEndian.PutUint64(buf, c)

	nint, err := w.Write(buf)

	return int64(nint), err
}

// WriteUint64Slice writes a slice of uint64 into w.
func WriteUint64Slice(w Writer, c []uint64) (n int64, err error) {

	for len(c) > 0 {

		// Remaining available space in the internal buffer
		available := w.Available() >> 3

		if available == 0 {
			if err = w.Flush(); err != nil {
				return
			}

			if available = w.Available() >> 3; available == 0 {
				return n, fmt.Errorf("cannot WriteUint64Slice: available buffer/8 is zero even after flush")
			}
		}

		chunk := len(c)
		if chunk > available {
			chunk = available
		}

		buf := w.AvailableBuffer()[:chunk<<3]
		for i := 0; i < chunk; i++ {
			binary.LittleEndian.PutUint64(buf[i<<3:], c[i])
		}

		var inc int
		inc, err = w.Write(buf)
		n += int64(inc)

		if err != nil {
			return
		}

		c = c[chunk:]
	}

	return
}
