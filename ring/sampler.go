package ring

import (
	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

// Sampler is an interface for random polynomial samplers.
// A Sampler holds an internal random buffer and must not be used concurrently.
type Sampler interface {
	Read(pol Poly)
	ReadNew() (pol Poly)
	ReadAndAdd(pol Poly)
	// Reset drops any randomness read ahead from the PRNG, so that the next
	// call starts on a fresh read.
	Reset()
}

// DiscreteGaussian represents the parameters of a rounded Gaussian
// distribution with standard deviation Sigma and bounds [-Bound, Bound].
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

var (
	_ Sampler = (*UniformSampler)(nil)
	_ Sampler = (*GaussianSampler)(nil)
)

type baseSampler struct {
	prng     sampling.PRNG
	baseRing *Ring
}

// randomBuffer reads the PRNG by blocks of randomBufferSize bytes.
type randomBuffer struct {
	block []byte
	ptr   int
}

const randomBufferSize = 1024

func newRandomBuffer() *randomBuffer {
	return &randomBuffer{block: make([]byte, randomBufferSize)}
}

// next8 returns the next 8 random bytes of the buffer, refilling it from prng
// when it is empty or exhausted.
func (b *randomBuffer) next8(prng sampling.PRNG) []byte {
	if b.ptr == 0 || b.ptr+8 > len(b.block) {
		if _, err := prng.Read(b.block); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
		b.ptr = 0
	}
	out := b.block[b.ptr : b.ptr+8]
	b.ptr += 8
	return out
}

// Reset discards the unread bytes of the buffer.
func (b *randomBuffer) Reset() {
	b.ptr = 0
}
