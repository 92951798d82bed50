package rlwe

import "errors"

var (
	// ErrInvalidParameter is returned when building parameters (or an engine)
	// from a ring degree, modulus or noise distribution that is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMessageTooLong is returned when a message has more entries than the ring degree.
	ErrMessageTooLong = errors.New("message too long")

	// ErrShapeMismatch is returned when a ciphertext does not have the ring degree of the parameters.
	ErrShapeMismatch = errors.New("shape mismatch")
)
