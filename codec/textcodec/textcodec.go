// Package textcodec maps strings to integer messages and back, so that
// text can be encrypted with an [rlwe.Engine].
package textcodec

import (
	"fmt"
	"strings"

	"github.com/tuneinsight/toyrlwe/rlwe"
	"github.com/tuneinsight/toyrlwe/utils"
)

// DefaultCodePointRange is the default number of code points that decoded values are reduced into.
const DefaultCodePointRange = 1200

// Codec encodes a string as the sequence of its code points.
//
// Decoding is lossy: zero entries are dropped (they are the padding added by
// encryption) and non-zero entries x are mapped to the rune x mod CodePointRange.
type Codec struct {
	// MaxLength is the maximum number of runes encoded; longer strings are truncated.
	// A non-positive value disables the truncation.
	MaxLength int
	// CodePointRange is the modulus applied to decoded values.
	CodePointRange uint64
}

// NewCodec returns a Codec encoding at most maxLength runes and decoding
// into [0, DefaultCodePointRange).
func NewCodec(maxLength int) *Codec {
	return &Codec{
		MaxLength:      maxLength,
		CodePointRange: DefaultCodePointRange,
	}
}

// Encode returns the code points of the first MaxLength runes of text.
func (c Codec) Encode(text string) (values []int64) {

	if c.MaxLength <= 0 {
		values = make([]int64, 0, len(text))
	} else {
		values = make([]int64, 0, utils.Min(len(text), c.MaxLength))
	}

	for _, r := range text {
		if c.MaxLength > 0 && len(values) == c.MaxLength {
			break
		}
		values = append(values, int64(r))
	}
	return
}

// Decode maps every non-zero value x to the rune x mod CodePointRange.
func (c Codec) Decode(values []int64) string {

	m := c.CodePointRange
	if m == 0 {
		m = DefaultCodePointRange
	}

	var sb strings.Builder
	for _, x := range values {
		if x != 0 {
			sb.WriteRune(rune(utils.ModSigned(x, m)))
		}
	}

	return sb.String()
}

// EncryptString encodes text, truncated to the smaller of MaxLength and the ring
// degree of enc, and encrypts it.
func (c Codec) EncryptString(enc rlwe.EncryptorInterface, text string) (ct *rlwe.Ciphertext, err error) {

	cc := c
	if n := enc.GetParameters().N(); cc.MaxLength > n || cc.MaxLength <= 0 {
		cc.MaxLength = n
	}

	if ct, err = enc.Encrypt(cc.Encode(text)); err != nil {
		return nil, fmt.Errorf("cannot EncryptString: %w", err)
	}

	return
}

// DecryptString decrypts ct and decodes the result.
func (c Codec) DecryptString(dec rlwe.DecryptorInterface, ct *rlwe.Ciphertext) (text string, err error) {

	var values []int64
	if values, err = dec.Decrypt(ct); err != nil {
		return "", fmt.Errorf("cannot DecryptString: %w", err)
	}

	return c.Decode(values), nil
}
