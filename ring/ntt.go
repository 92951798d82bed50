package ring

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/toyrlwe/utils"
)

// MultiplierType identifies the algorithm used to evaluate cyclic convolutions.
type MultiplierType int

const (
	// MultiplierAuto selects MultiplierNTT whenever the parameters allow it, else MultiplierSchoolbook.
	MultiplierAuto = MultiplierType(iota)
	// MultiplierNTT evaluates the convolution with a cyclic number-theoretic transform in O(N log N).
	MultiplierNTT
	// MultiplierSchoolbook evaluates the convolution coefficient by coefficient in O(N^2).
	MultiplierSchoolbook
)

func (t MultiplierType) String() string {
	switch t {
	case MultiplierAuto:
		return "Auto"
	case MultiplierNTT:
		return "NTT"
	case MultiplierSchoolbook:
		return "Schoolbook"
	default:
		return "Unknown"
	}
}

// Multiplier is an interface for algorithms that evaluate the
// cyclic convolution of two vectors of N residues mod Q.
// Implementations are read-only and safe for concurrent use.
type Multiplier interface {
	Type() MultiplierType
	// MulPoly evaluates p3 = p1 * p2 mod (X^N - 1, Q). p3 can alias p1 or p2.
	MulPoly(p1, p2, p3 []uint64)
}

// NumberTheoreticTransformer computes the cyclic NTT in the ring Z_Q[X]/(X^N-1),
// i.e. the evaluation of a polynomial at the N powers of a primitive N-th root
// of unity mod Q. It requires N to be a power of two, Q to be prime and Q = 1 mod N.
type NumberTheoreticTransformer struct {
	n             int
	logN          int
	modulus       uint64
	nInv          uint64
	bredConstant  [2]uint64
	primitiveRoot uint64
	factors       []uint64
	rootsForward  []uint64
	rootsBackward []uint64
}

// NewNumberTheoreticTransformer generates the NTT constants for the ring Z_Modulus[X]/(X^N-1).
// An error is returned if the parameters do not enable a cyclic NTT.
func NewNumberTheoreticTransformer(N int, Modulus uint64) (ntt *NumberTheoreticTransformer, err error) {

	if !utils.IsPowerOfTwo(N) {
		return nil, fmt.Errorf("invalid ring degree: %d is not a power of two", N)
	}

	if !IsPrime(Modulus) {
		return nil, fmt.Errorf("invalid modulus: %d is not prime", Modulus)
	}

	if (Modulus-1)%uint64(N) != 0 {
		return nil, fmt.Errorf("invalid modulus: %d != 1 mod %d", Modulus, N)
	}

	ntt = &NumberTheoreticTransformer{
		n:            N,
		logN:         bits.Len64(uint64(N)) - 1,
		modulus:      Modulus,
		bredConstant: GenBRedConstant(Modulus),
	}

	if ntt.primitiveRoot, ntt.factors, err = PrimitiveRoot(Modulus, nil); err != nil {
		return nil, err
	}

	// Computes N^(-1) mod Q
	ntt.nInv = ModExp(uint64(N), Modulus-2, Modulus)

	// Computes the primitive N-th root of unity omega and its inverse
	omega := ModExp(ntt.primitiveRoot, (Modulus-1)/uint64(N), Modulus)
	omegaInv := ModInverse(omega, Modulus)

	ntt.rootsForward = make([]uint64, N>>1)
	ntt.rootsBackward = make([]uint64, N>>1)

	if N > 1 {
		ntt.rootsForward[0] = 1
		ntt.rootsBackward[0] = 1
		for j := 1; j < N>>1; j++ {
			ntt.rootsForward[j] = BRed(ntt.rootsForward[j-1], omega, Modulus, ntt.bredConstant)
			ntt.rootsBackward[j] = BRed(ntt.rootsBackward[j-1], omegaInv, Modulus, ntt.bredConstant)
		}
	}

	return
}

// Type returns MultiplierNTT.
func (ntt *NumberTheoreticTransformer) Type() MultiplierType {
	return MultiplierNTT
}

// PrimitiveRoot returns the primitive root of Q from which the N-th root of unity is derived.
func (ntt *NumberTheoreticTransformer) PrimitiveRoot() uint64 {
	return ntt.primitiveRoot
}

// Forward writes the forward NTT of p1 on p2.
func (ntt *NumberTheoreticTransformer) Forward(p1, p2 []uint64) {
	copy(p2, p1)
	nttCyclic(p2, ntt.logN, ntt.modulus, ntt.bredConstant, ntt.rootsForward)
}

// Backward writes the backward NTT of p1 on p2.
func (ntt *NumberTheoreticTransformer) Backward(p1, p2 []uint64) {
	copy(p2, p1)
	nttCyclic(p2, ntt.logN, ntt.modulus, ntt.bredConstant, ntt.rootsBackward)
	q, nInv, bredConstant := ntt.modulus, ntt.nInv, ntt.bredConstant
	for i := range p2 {
		p2[i] = BRed(p2[i], nInv, q, bredConstant)
	}
}

// MulPoly evaluates p3 = INTT(NTT(p1) * NTT(p2)).
func (ntt *NumberTheoreticTransformer) MulPoly(p1, p2, p3 []uint64) {

	buff1 := make([]uint64, ntt.n)
	buff2 := make([]uint64, ntt.n)

	ntt.Forward(p1, buff1)
	ntt.Forward(p2, buff2)

	q, bredConstant := ntt.modulus, ntt.bredConstant
	for i := range buff1 {
		buff1[i] = BRed(buff1[i], buff2[i], q, bredConstant)
	}

	ntt.Backward(buff1, p3)
}

// nttCyclic computes in place the iterative radix-2 Cooley-Tukey transform of p,
// with roots[j] = w^j for a primitive N-th root of unity w.
func nttCyclic(p []uint64, logN int, Q uint64, bredConstant [2]uint64, roots []uint64) {

	N := len(p)

	for i := 0; i < N; i++ {
		if j := int(utils.BitReverse64(uint64(i), logN)); i < j {
			p[i], p[j] = p[j], p[i]
		}
	}

	var U, V uint64
	for m := 2; m <= N; m <<= 1 {
		half := m >> 1
		step := N / m
		for k := 0; k < N; k += m {
			for j := 0; j < half; j++ {
				U = p[k+j]
				V = BRed(p[k+j+half], roots[j*step], Q, bredConstant)
				p[k+j] = CRed(U+V, Q)
				p[k+j+half] = CRed(U+Q-V, Q)
			}
		}
	}
}

// SchoolbookMultiplier evaluates the cyclic convolution coefficient by coefficient.
// It is exact for any N and Q.
type SchoolbookMultiplier struct {
	n            int
	modulus      uint64
	bredConstant [2]uint64
}

// NewSchoolbookMultiplier creates a new SchoolbookMultiplier for the ring Z_Modulus[X]/(X^N-1).
func NewSchoolbookMultiplier(N int, Modulus uint64) *SchoolbookMultiplier {
	return &SchoolbookMultiplier{
		n:            N,
		modulus:      Modulus,
		bredConstant: GenBRedConstant(Modulus),
	}
}

// Type returns MultiplierSchoolbook.
func (sm *SchoolbookMultiplier) Type() MultiplierType {
	return MultiplierSchoolbook
}

// MulPoly evaluates p3[k] = sum_{i} p1[i]*p2[(k-i) mod N] mod Q.
func (sm *SchoolbookMultiplier) MulPoly(p1, p2, p3 []uint64) {

	N, q, bredConstant := sm.n, sm.modulus, sm.bredConstant

	buff := make([]uint64, N)

	for i := 0; i < N; i++ {

		a := p1[i]

		if a == 0 {
			continue
		}

		// Coefficients of X^(i+j) for j < N-i do not wrap around.
		for j, b := range p2[:N-i] {
			buff[i+j] = CRed(buff[i+j]+BRed(a, b, q, bredConstant), q)
		}

		// X^(i+j) = X^(i+j-N)
		for j, b := range p2[N-i:] {
			buff[j] = CRed(buff[j]+BRed(a, b, q, bredConstant), q)
		}
	}

	copy(p3, buff)
}

// MarshalText encodes the multiplier type as its name.
func (t MultiplierType) MarshalText() ([]byte, error) {
	if t < MultiplierAuto || t > MultiplierSchoolbook {
		return nil, fmt.Errorf("invalid multiplier type: %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a multiplier type from its name (case sensitive).
// The empty string decodes to MultiplierAuto.
func (t *MultiplierType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "Auto":
		*t = MultiplierAuto
	case "NTT":
		*t = MultiplierNTT
	case "Schoolbook":
		*t = MultiplierSchoolbook
	default:
		return fmt.Errorf("invalid multiplier type: %q", text)
	}
	return nil
}
