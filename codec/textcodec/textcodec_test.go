package textcodec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/toyrlwe/codec/textcodec"
	"github.com/tuneinsight/toyrlwe/rlwe"
	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

func TestCodec(t *testing.T) {

	t.Run("Encode", func(t *testing.T) {
		codec := textcodec.NewCodec(256)
		require.Equal(t, []int64{72, 105, 33}, codec.Encode("Hi!"))
		require.Equal(t, []int64{0x00e9, 0x0416}, codec.Encode("éЖ"))
		require.Empty(t, codec.Encode(""))

		codec = textcodec.NewCodec(5)
		require.Equal(t, []int64{72, 101, 108, 108, 111}, codec.Encode("Hello, World!"))

		codec = textcodec.NewCodec(0)
		require.Len(t, codec.Encode("Hello, World!"), 13)
	})

	t.Run("Decode", func(t *testing.T) {
		codec := textcodec.NewCodec(256)
		require.Equal(t, "Hi!", codec.Decode([]int64{72, 0, 105, 0, 0, 33, 0}))
		require.Equal(t, "H", codec.Decode([]int64{72 + 1200}))
		require.Equal(t, string(rune(1199)), codec.Decode([]int64{-1}))
		require.Equal(t, "", codec.Decode(nil))

		// code points above the range wrap around
		require.NotEqual(t, "😀", codec.Decode(codec.Encode("😀")))

		codec = &textcodec.Codec{MaxLength: 4}
		require.Equal(t, "A", codec.Decode([]int64{65}))
	})

	t.Run("EncryptDecrypt", func(t *testing.T) {

		params, err := rlwe.NewParameters(256, 7681, 0.05)
		require.NoError(t, err)

		prng, err := sampling.NewKeyedPRNGFromSeed([]byte("textcodec"))
		require.NoError(t, err)

		eng, err := rlwe.NewEngine(params, prng)
		require.NoError(t, err)

		codec := textcodec.NewCodec(params.N())

		ct, err := codec.EncryptString(eng, "Hello, World!")
		require.NoError(t, err)

		text, err := codec.DecryptString(eng, ct)
		require.NoError(t, err)
		require.Equal(t, "Hello, World!", text)

		// Longer than the ring degree: truncated to N runes
		long := make([]byte, 300)
		for i := range long {
			long[i] = 'a'
		}

		codec = textcodec.NewCodec(1024)
		ct, err = codec.EncryptString(eng, string(long))
		require.NoError(t, err)

		text, err = codec.DecryptString(eng, ct)
		require.NoError(t, err)
		require.Equal(t, string(long[:256]), text)

		_, err = codec.DecryptString(eng, &rlwe.Ciphertext{})
		require.ErrorIs(t, err, rlwe.ErrShapeMismatch)
	})
}
