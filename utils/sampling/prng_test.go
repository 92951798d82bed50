package sampling_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

func Test_PRNG(t *testing.T) {

	t.Run("PRNG", func(t *testing.T) {

		key := []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
			0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98}

		Ha, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)
		Hb, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)

		sum0 := make([]byte, 512)
		sum1 := make([]byte, 512)

		for i := 0; i < 128; i++ {
			_, err = Hb.Read(sum1)
			require.NoError(t, err)
		}

		Hb.Reset()

		_, err = Ha.Read(sum0)
		require.NoError(t, err)
		_, err = Hb.Read(sum1)
		require.NoError(t, err)

		require.Equal(t, sum0, sum1)
		require.Equal(t, key, Ha.Key())
	})

	t.Run("KeyTooLong", func(t *testing.T) {
		_, err := sampling.NewKeyedPRNG(make([]byte, 65))
		require.Error(t, err)
	})

	t.Run("DeriveKey", func(t *testing.T) {
		k0 := sampling.DeriveKey([]byte("seed"))
		k1 := sampling.DeriveKey([]byte("seed"))
		k2 := sampling.DeriveKey([]byte("another seed"))
		require.Len(t, k0, sampling.KeySize)
		require.Equal(t, k0, k1)
		require.NotEqual(t, k0, k2)

		Ha, err := sampling.NewKeyedPRNGFromSeed([]byte("seed"))
		require.NoError(t, err)
		require.Equal(t, k0, Ha.Key())
	})
}

func TestRand(t *testing.T) {

	prng, err := sampling.NewKeyedPRNGFromSeed([]byte("TestRand"))
	require.NoError(t, err)

	t.Run("RandFloat64", func(t *testing.T) {
		for i := 0; i < 1024; i++ {
			f := sampling.RandFloat64(prng, -2, 3)
			require.GreaterOrEqual(t, f, -2.0)
			require.Less(t, f, 3.0)
		}
	})

	t.Run("RandInt", func(t *testing.T) {
		max := big.NewInt(1000)
		for i := 0; i < 1024; i++ {
			n := sampling.RandInt(prng, max)
			require.GreaterOrEqual(t, n.Sign(), 0)
			require.Equal(t, -1, n.Cmp(max))
		}
		require.Equal(t, 0, sampling.RandInt(prng, new(big.Int)).Sign())
	})

	t.Run("ThreadSafePRNG", func(t *testing.T) {
		p, err := sampling.NewPRNG()
		require.NoError(t, err)
		require.NotEqual(t, sampling.RandUint64(p), sampling.RandUint64(p))
	})
}
