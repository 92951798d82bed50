// Package buffer reads and writes little-endian uint64 values directly in the
// internal buffer of a reader or a writer, such as a bufio.Reader or a bufio.Writer.
package buffer

import (
	"fmt"
	"io"
)

// Writer is implemented by *bufio.Writer and *Buffer.
type Writer interface {
	io.Writer
	Flush() error
	Available() int
	AvailableBuffer() []byte
}

// Reader is implemented by *bufio.Reader and *Buffer.
type Reader interface {
	io.Reader
	Size() int
	Peek(n int) ([]byte, error)
	Discard(n int) (discarded int, err error)
}

// Buffer is an in-memory Writer and Reader over a byte slice of fixed length.
// Writes fill the slice from its start and fail once it is full; reads
// consume it from its start, independently of the writes.
type Buffer struct {
	data []byte
	w, r int
}

// NewBuffer returns a Buffer over data. Writes overwrite data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NewBufferSize returns a Buffer over a new slice of size bytes.
func NewBufferSize(size int) *Buffer {
	return NewBuffer(make([]byte, size))
}

// Bytes returns the backing slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Write(p []byte) (n int, err error) {
	if len(p) > b.Available() {
		return 0, fmt.Errorf("cannot Write: %d bytes but only %d available", len(p), b.Available())
	}
	b.w += copy(b.data[b.w:], p)
	return len(p), nil
}

// Flush is a no-op.
func (b *Buffer) Flush() error {
	return nil
}

// Available returns the number of bytes that can still be written.
func (b *Buffer) Available() int {
	return len(b.data) - b.w
}

// AvailableBuffer returns an empty slice of capacity b.Available() starting
// at the write offset. It is valid until the next Write.
func (b *Buffer) AvailableBuffer() []byte {
	return b.data[b.w:b.w:len(b.data)]
}

// Size returns the number of bytes that can still be read.
func (b *Buffer) Size() int {
	return len(b.data) - b.r
}

// unread returns up to n bytes from the read offset, and io.EOF if fewer remain.
func (b *Buffer) unread(n int) ([]byte, error) {
	if n > b.Size() {
		return b.data[b.r:], io.EOF
	}
	return b.data[b.r : b.r+n], nil
}

func (b *Buffer) Read(p []byte) (n int, err error) {
	s, err := b.unread(len(p))
	n = copy(p, s)
	b.r += n
	return
}

// Peek returns the next n bytes without consuming them.
func (b *Buffer) Peek(n int) ([]byte, error) {
	return b.unread(n)
}

// Discard consumes the next n bytes.
func (b *Buffer) Discard(n int) (discarded int, err error) {
	s, err := b.unread(n)
	b.r += len(s)
	return len(s), err
}
