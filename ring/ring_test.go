package ring

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/toyrlwe/utils"
	"github.com/tuneinsight/toyrlwe/utils/buffer"
	"github.com/tuneinsight/toyrlwe/utils/sampling"
)

var DefaultSigma = 3.2
var DefaultBound = 6.0 * DefaultSigma

type testParameters struct {
	N int
	Q uint64
}

var testParams = []testParameters{
	{N: 4, Q: 17},
	{N: 256, Q: 7681},
	{N: 1024, Q: 0x1fffffffffe00001},
	{N: 100, Q: 7681},
	{N: 64, Q: 1 << 32},
}

func testString(opname string, r *Ring) string {
	return fmt.Sprintf("%s/N=%d/Q=%d/%s", opname, r.N, r.Modulus, r.Multiplier().Type())
}

type testContext struct {
	ringQ          *Ring
	prng           sampling.PRNG
	uniformSampler *UniformSampler
}

func genTestContext(p testParameters) (tc *testContext, err error) {

	tc = new(testContext)

	if tc.ringQ, err = NewRing(p.N, p.Q); err != nil {
		return nil, err
	}

	if tc.prng, err = sampling.NewKeyedPRNG([]byte{'r', 'i', 'n', 'g'}); err != nil {
		return nil, err
	}

	tc.uniformSampler = NewUniformSampler(tc.prng, tc.ringQ)

	return
}

func TestRing(t *testing.T) {

	testNewRing(t)
	testConvolutionVectors(t)
	testPrimes(t)

	for _, p := range testParams {

		tc, err := genTestContext(p)
		require.NoError(t, err)

		testModularReduction(tc, t)
		testMulPoly(tc, t)
		testOperations(tc, t)
		testUniformSampler(tc, t)
		testGaussianSampler(tc, t)
		testMarshalBinary(tc, t)
		testWriterAndReader(tc, t)
	}
}

func testNewRing(t *testing.T) {
	t.Run("NewRing", func(t *testing.T) {

		r, err := NewRing(0, 17)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(MaxRingDegree+1, 17)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(4, 1)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(4, 1<<MaxModulusBits)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(4, 17)
		require.NoError(t, err)
		require.Equal(t, MultiplierNTT, r.Multiplier().Type())
		require.Equal(t, uint64(31), r.Mask)

		r, err = NewRing(4, 15)
		require.NoError(t, err)
		require.Equal(t, MultiplierSchoolbook, r.Multiplier().Type())

		r, err = NewRing(3, 13)
		require.NoError(t, err)
		require.Equal(t, MultiplierSchoolbook, r.Multiplier().Type())

		// 15 is not prime
		r, err = NewRingWithMultiplier(4, 15, MultiplierNTT)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRingWithMultiplier(4, 17, MultiplierSchoolbook)
		require.NoError(t, err)
		require.Equal(t, MultiplierSchoolbook, r.Multiplier().Type())

		_, err = NewRingWithMultiplier(4, 17, MultiplierType(42))
		require.Error(t, err)

		r1, err := NewRing(4, 17)
		require.NoError(t, err)
		r2, err := NewRing(4, 17)
		require.NoError(t, err)
		require.True(t, r1.Equal(r2))
		require.False(t, r1.Equal(r))
		require.Equal(t, "Z_17[X]/(X^4-1)/NTT", r1.String())
	})
}

func testConvolutionVectors(t *testing.T) {
	t.Run("MulPoly/Vectors", func(t *testing.T) {

		for _, tv := range []struct {
			Q    uint64
			typ  MultiplierType
			want []uint64
		}{
			{17, MultiplierNTT, []uint64{15, 0, 15, 9}},
			{17, MultiplierSchoolbook, []uint64{15, 0, 15, 9}},
			{15, MultiplierSchoolbook, []uint64{6, 8, 6, 0}},
		} {
			r, err := NewRingWithMultiplier(4, tv.Q, tv.typ)
			require.NoError(t, err)

			a := Poly{Coeffs: []uint64{1, 2, 3, 4}}
			b := Poly{Coeffs: []uint64{5, 6, 7, 8}}
			c := r.NewPoly()

			r.MulPoly(a, b, c)
			require.Equal(t, tv.want, c.Coeffs, testString("MulPoly", r))

			// in place
			r.MulPoly(a, b, a)
			require.Equal(t, tv.want, a.Coeffs, testString("MulPoly/InPlace", r))
		}

		// X * X^(N-1) = 1
		r, err := NewRing(8, 17)
		require.NoError(t, err)
		x := r.NewPoly()
		x.Coeffs[1] = 1
		y := r.NewPoly()
		y.Coeffs[7] = 1
		r.MulPoly(x, y, x)
		require.Equal(t, []uint64{1, 0, 0, 0, 0, 0, 0, 0}, x.Coeffs)
	})
}

func testPrimes(t *testing.T) {
	t.Run("Primes", func(t *testing.T) {

		require.True(t, IsPrime(7681))
		require.True(t, IsPrime(0x1fffffffffe00001))
		require.False(t, IsPrime(7169))
		require.False(t, IsPrime(1))

		q, err := NextNTTPrime(7000, 256)
		require.NoError(t, err)
		require.Equal(t, uint64(7681), q)

		q, err = NextNTTPrime(256, 256)
		require.NoError(t, err)
		require.Equal(t, uint64(257), q)

		require.True(t, IsNTTFriendly(256, 7681))
		require.True(t, IsNTTFriendly(4, 17))
		require.False(t, IsNTTFriendly(4, 15))
		require.False(t, IsNTTFriendly(512, 7681))
		require.False(t, IsNTTFriendly(100, 7681))

		g, factors, err := PrimitiveRoot(7681, nil)
		require.NoError(t, err)
		require.NoError(t, CheckPrimitiveRoot(g, 7681, factors))
		require.ElementsMatch(t, []uint64{2, 3, 5}, factors)

		_, _, err = PrimitiveRoot(15, nil)
		require.Error(t, err)

		require.Error(t, CheckFactors(7680, []uint64{2, 3}))
		require.Error(t, CheckFactors(7680, []uint64{2, 3, 15}))
		require.Error(t, CheckPrimitiveRoot(1, 7681, factors))
	})
}

func testModularReduction(tc *testContext, t *testing.T) {

	t.Run(testString("ModularReduction/BRed", tc.ringQ), func(t *testing.T) {

		q := tc.ringQ.Modulus
		bredConstant := tc.ringQ.BRedConstant
		bigQ := new(big.Int).SetUint64(q)

		for i := 0; i < 1024; i++ {

			x := sampling.RandUint64(tc.prng) % q
			y := sampling.RandUint64(tc.prng) % q

			want := new(big.Int).Mul(new(big.Int).SetUint64(x), new(big.Int).SetUint64(y))
			want.Mod(want, bigQ)

			require.Equal(t, want.Uint64(), BRed(x, y, q, bredConstant), "x=%d y=%d", x, y)

			z := sampling.RandUint64(tc.prng)
			require.Equal(t, z%q, BRedAdd(z, q, bredConstant), "z=%d", z)
		}

		require.Equal(t, q-1, BRed(q-1, 1, q, bredConstant))
		require.Equal(t, uint64(1), BRed(q-1, q-1, q, bredConstant))
	})

	t.Run(testString("ModularReduction/ModExp", tc.ringQ), func(t *testing.T) {

		q := tc.ringQ.Modulus
		bigQ := new(big.Int).SetUint64(q)

		for i := 0; i < 64; i++ {
			x := sampling.RandUint64(tc.prng)
			e := sampling.RandUint64(tc.prng)
			want := new(big.Int).Exp(new(big.Int).SetUint64(x), new(big.Int).SetUint64(e), bigQ)
			require.Equal(t, want.Uint64(), ModExp(x, e, q))
		}

		if IsPrime(q) {
			x := uint64(3) % q
			require.Equal(t, uint64(1), BRed(x, ModInverse(x, q), q, tc.ringQ.BRedConstant))
		}
	})
}

func testMulPoly(tc *testContext, t *testing.T) {

	t.Run(testString("MulPoly/Reference", tc.ringQ), func(t *testing.T) {

		ringQ := tc.ringQ
		N, q := ringQ.N, ringQ.Modulus

		p1 := tc.uniformSampler.ReadNew()
		p2 := tc.uniformSampler.ReadNew()
		p3 := ringQ.NewPoly()

		ringQ.MulPoly(p1, p2, p3)

		// Naive convolution over the integers
		bigQ := new(big.Int).SetUint64(q)
		tmp := new(big.Int)
		for k := 0; k < N; k++ {
			acc := new(big.Int)
			for i := 0; i < N; i++ {
				tmp.SetUint64(p1.Coeffs[i])
				tmp.Mul(tmp, new(big.Int).SetUint64(p2.Coeffs[(k-i+N)%N]))
				acc.Add(acc, tmp)
			}
			acc.Mod(acc, bigQ)
			require.Equal(t, acc.Uint64(), p3.Coeffs[k], "k=%d", k)
		}
	})

	t.Run(testString("MulPoly/Commutative", tc.ringQ), func(t *testing.T) {

		ringQ := tc.ringQ

		p1 := tc.uniformSampler.ReadNew()
		p2 := tc.uniformSampler.ReadNew()
		p3 := ringQ.NewPoly()
		p4 := ringQ.NewPoly()

		ringQ.MulPoly(p1, p2, p3)
		ringQ.MulPoly(p2, p1, p4)

		require.True(t, p3.Equal(&p4))
	})

	if !IsNTTFriendly(tc.ringQ.N, tc.ringQ.Modulus) {
		return
	}

	t.Run(testString("MulPoly/NTTvsSchoolbook", tc.ringQ), func(t *testing.T) {

		ringQ := tc.ringQ

		ringSB, err := NewRingWithMultiplier(ringQ.N, ringQ.Modulus, MultiplierSchoolbook)
		require.NoError(t, err)

		p1 := tc.uniformSampler.ReadNew()
		p2 := tc.uniformSampler.ReadNew()
		p3 := ringQ.NewPoly()
		p4 := ringQ.NewPoly()

		ringQ.MulPoly(p1, p2, p3)
		ringSB.MulPoly(p1, p2, p4)

		require.Equal(t, p4.Coeffs, p3.Coeffs)
	})

	t.Run(testString("NTT/ForwardBackward", tc.ringQ), func(t *testing.T) {

		ntt, err := NewNumberTheoreticTransformer(tc.ringQ.N, tc.ringQ.Modulus)
		require.NoError(t, err)

		p1 := tc.uniformSampler.ReadNew()
		p2 := tc.ringQ.NewPoly()

		ntt.Forward(p1.Coeffs, p2.Coeffs)
		ntt.Backward(p2.Coeffs, p2.Coeffs)

		require.True(t, p1.Equal(&p2))

		// The first NTT coefficient is the evaluation at 1
		ntt.Forward(p1.Coeffs, p2.Coeffs)
		var sum uint64
		for _, c := range p1.Coeffs {
			sum = CRed(sum+c, tc.ringQ.Modulus)
		}
		require.Equal(t, sum, p2.Coeffs[0])
	})
}

func testOperations(tc *testContext, t *testing.T) {

	t.Run(testString("Operations/AddSubNeg", tc.ringQ), func(t *testing.T) {

		ringQ := tc.ringQ

		p1 := tc.uniformSampler.ReadNew()
		p2 := tc.uniformSampler.ReadNew()
		p3 := ringQ.NewPoly()

		ringQ.Add(p1, p2, p3)
		ringQ.Sub(p3, p2, p3)
		require.True(t, p1.Equal(&p3))

		ringQ.Neg(p1, p3)
		ringQ.Add(p1, p3, p3)
		for _, c := range p3.Coeffs {
			require.Zero(t, c)
		}
	})

	t.Run(testString("Operations/MulPolyThenAdd", tc.ringQ), func(t *testing.T) {

		ringQ := tc.ringQ

		p1 := tc.uniformSampler.ReadNew()
		p2 := tc.uniformSampler.ReadNew()
		acc := tc.uniformSampler.ReadNew()

		want := ringQ.NewPoly()
		ringQ.MulPoly(p1, p2, want)
		ringQ.Add(want, acc, want)

		ringQ.MulPolyThenAdd(p1, p2, acc)
		require.True(t, want.Equal(&acc))
	})

	t.Run(testString("Operations/Reduce", tc.ringQ), func(t *testing.T) {

		ringQ := tc.ringQ

		p1 := ringQ.NewPoly()
		for i := range p1.Coeffs {
			p1.Coeffs[i] = sampling.RandUint64(tc.prng)
		}

		p2 := ringQ.NewPoly()
		ringQ.Reduce(p1, p2)

		for i := range p1.Coeffs {
			require.Equal(t, p1.Coeffs[i]%ringQ.Modulus, p2.Coeffs[i])
		}
	})

	t.Run(testString("Operations/Int64", tc.ringQ), func(t *testing.T) {

		ringQ := tc.ringQ

		values := []int64{0, 1, -1, 255, -255, 3}
		n := utils.Min(len(values), ringQ.N)

		pol := tc.uniformSampler.ReadNew()
		ringQ.SetCoefficientsInt64(values[:n], pol)

		for j := n; j < ringQ.N; j++ {
			require.Zero(t, pol.Coeffs[j])
		}

		out := make([]int64, n)
		ringQ.PolyToInt64Centered(pol, out)

		if ringQ.Modulus > 512 {
			require.Equal(t, values[:n], out)
		}
	})
}

func testUniformSampler(tc *testContext, t *testing.T) {

	t.Run(testString("Sampler/Uniform", tc.ringQ), func(t *testing.T) {

		ringQ := tc.ringQ

		pol := tc.uniformSampler.ReadNew()

		for _, c := range pol.Coeffs {
			require.Less(t, c, ringQ.Modulus)
		}

		other := tc.uniformSampler.ReadNew()
		require.False(t, pol.Equal(&other))

		var sampler Sampler = tc.uniformSampler

		before := *pol.CopyNew()
		sampler.ReadAndAdd(pol)
		for _, c := range pol.Coeffs {
			require.Less(t, c, ringQ.Modulus)
		}
		require.False(t, pol.Equal(&before))

		for i := 0; i < 16; i++ {
			require.Less(t, RandUniform(tc.prng, ringQ.Modulus, ringQ.Mask), ringQ.Modulus)
		}
	})

	t.Run(testString("Sampler/Uniform/Deterministic", tc.ringQ), func(t *testing.T) {

		prng1, err := sampling.NewKeyedPRNG([]byte{'s', 'e', 'e', 'd'})
		require.NoError(t, err)
		prng2, err := sampling.NewKeyedPRNG([]byte{'s', 'e', 'e', 'd'})
		require.NoError(t, err)

		s1 := NewUniformSampler(prng1, tc.ringQ)
		s2 := tc.uniformSampler.WithPRNG(prng2)

		p1 := s1.ReadNew()
		p2 := s2.ReadNew()

		require.True(t, p1.Equal(&p2))
	})
}

func testGaussianSampler(tc *testContext, t *testing.T) {

	t.Run(testString("Sampler/Gaussian", tc.ringQ), func(t *testing.T) {

		ringQ := tc.ringQ

		X := DiscreteGaussian{Sigma: DefaultSigma, Bound: DefaultBound}

		gs, err := NewGaussianSampler(tc.prng, ringQ, X)
		require.NoError(t, err)

		var sampler Sampler = gs

		values := make([]int64, 1<<14)
		gs.ReadInt64(values)

		data := make(stats.Float64Data, len(values))
		for i, v := range values {
			require.LessOrEqual(t, math.Abs(float64(v)), DefaultBound)
			data[i] = float64(v)
		}

		std, err := stats.StandardDeviation(data)
		require.NoError(t, err)
		require.InDelta(t, DefaultSigma, std, DefaultSigma*0.1)

		mean, err := stats.Mean(data)
		require.NoError(t, err)
		require.InDelta(t, 0, mean, 0.25)

		pol := sampler.ReadNew()
		centered := make([]int64, ringQ.N)
		ringQ.PolyToInt64Centered(pol, centered)

		if ringQ.Modulus > uint64(2*DefaultBound)+1 {
			for _, c := range centered {
				require.LessOrEqual(t, math.Abs(float64(c)), DefaultBound)
			}
		}
	})

	t.Run(testString("Sampler/Gaussian/ZeroSigma", tc.ringQ), func(t *testing.T) {

		sampler, err := NewGaussianSampler(tc.prng, tc.ringQ, DiscreteGaussian{})
		require.NoError(t, err)

		pol := tc.uniformSampler.ReadNew()
		before := *pol.CopyNew()
		sampler.ReadAndAdd(pol)
		require.True(t, pol.Equal(&before))

		sampler.Read(pol)
		for _, c := range pol.Coeffs {
			require.Zero(t, c)
		}
	})

	t.Run(testString("Sampler/Gaussian/Invalid", tc.ringQ), func(t *testing.T) {

		_, err := NewGaussianSampler(tc.prng, tc.ringQ, DiscreteGaussian{Sigma: -1})
		require.Error(t, err)

		_, err = NewGaussianSampler(tc.prng, tc.ringQ, DiscreteGaussian{Sigma: math.NaN()})
		require.Error(t, err)

		_, err = NewGaussianSampler(tc.prng, tc.ringQ, DiscreteGaussian{Sigma: 1, Bound: math.Inf(1)})
		require.Error(t, err)
	})

	t.Run(testString("Sampler/Reset", tc.ringQ), func(t *testing.T) {

		// After a Reset, a sampler consumes the PRNG exactly like a newly created
		// one, whatever it read ahead before.

		X := DiscreteGaussian{Sigma: DefaultSigma, Bound: DefaultBound}

		for _, newSamplers := range []func(prng sampling.PRNG) Sampler{
			func(prng sampling.PRNG) Sampler {
				gs, err := NewGaussianSampler(prng, tc.ringQ, X)
				require.NoError(t, err)
				return gs
			},
			func(prng sampling.PRNG) Sampler {
				return NewUniformSampler(prng, tc.ringQ)
			},
		} {
			prng1, err := sampling.NewKeyedPRNG([]byte("reset"))
			require.NoError(t, err)
			prng2, err := sampling.NewKeyedPRNG([]byte("reset"))
			require.NoError(t, err)

			counter := &countingPRNG{PRNG: prng1}

			used := newSamplers(counter)
			used.ReadNew()
			used.Reset()

			// Moves prng2 to the position of prng1.
			_, err = prng2.Read(make([]byte, counter.n))
			require.NoError(t, err)

			p1, p2 := used.ReadNew(), newSamplers(prng2).ReadNew()
			require.True(t, p1.Equal(&p2))
		}

		gs, err := NewGaussianSampler(tc.prng, tc.ringQ, X)
		require.NoError(t, err)
		gs.ReadInt64(make([]int64, 3))
		gs.Reset()
		require.False(t, gs.hasSpare)
		require.Zero(t, gs.ptr)
	})
}

type countingPRNG struct {
	sampling.PRNG
	n int
}

func (c *countingPRNG) Read(p []byte) (n int, err error) {
	n, err = c.PRNG.Read(p)
	c.n += n
	return
}

func testMarshalBinary(tc *testContext, t *testing.T) {

	t.Run(testString("MarshalBinary/Poly", tc.ringQ), func(t *testing.T) {

		p := tc.uniformSampler.ReadNew()

		data, err := p.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, p.BinarySize(), len(data))

		pTest := new(Poly)
		require.NoError(t, pTest.UnmarshalBinary(data))
		require.True(t, p.Equal(pTest))

		require.Error(t, pTest.UnmarshalBinary(data[:len(data)-1]))
	})
}

func testWriterAndReader(tc *testContext, t *testing.T) {

	t.Run(testString("WriterAndReader/Poly", tc.ringQ), func(t *testing.T) {

		p := tc.uniformSampler.ReadNew()

		data := new(bytes.Buffer)

		n, err := p.WriteTo(data)
		require.NoError(t, err)
		require.Equal(t, int64(p.BinarySize()), n)
		require.Equal(t, p.BinarySize(), data.Len())

		pTest := new(Poly)
		n, err = pTest.ReadFrom(data)
		require.NoError(t, err)
		require.Equal(t, int64(p.BinarySize()), n)
		require.True(t, p.Equal(pTest))
	})

	t.Run(testString("WriterAndReader/Buffer", tc.ringQ), func(t *testing.T) {

		p := tc.uniformSampler.ReadNew()

		buf := buffer.NewBufferSize(p.BinarySize())
		_, err := p.WriteTo(buf)
		require.NoError(t, err)

		pTest := NewPoly(tc.ringQ.N)
		_, err = pTest.ReadFrom(buffer.NewBuffer(buf.Bytes()))
		require.NoError(t, err)
		require.True(t, p.Equal(&pTest))
	})
}
