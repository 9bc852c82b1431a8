package gpu

import (
	"math/big"

	"github.com/primesearch/goowl/mersenne"
)

// SoftEngine is a math/big implementation of Engine. It is orders of
// magnitude slower than a device engine but exact, which makes it the
// reference for tests and for verifying proofs on hosts without a GPU.
type SoftEngine struct {
	e uint32
	m *big.Int
}

// NewSoftEngine returns a software engine for residues mod 2^e-1.
func NewSoftEngine(e uint32) *SoftEngine {
	m := new(big.Int).Lsh(big.NewInt(1), uint(e))
	m.Sub(m, big.NewInt(1))
	return &SoftEngine{e: e, m: m}
}

type softBuffer struct {
	x *big.Int
}

func (s *SoftEngine) toInt(w mersenne.Words) *big.Int {
	le := w.Bytes(s.e)
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	x := new(big.Int).SetBytes(be)
	return x.Mod(x, s.m)
}

func (s *SoftEngine) toWords(x *big.Int) mersenne.Words {
	be := x.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return mersenne.FromBytes(s.e, le)
}

// ExpMul returns a^h * b, or a^h * b^2 when doSquareB is set.
func (s *SoftEngine) ExpMul(a mersenne.Words, h uint64, b mersenne.Words, doSquareB bool) mersenne.Words {
	r := new(big.Int).Exp(s.toInt(a), new(big.Int).SetUint64(h), s.m)
	bb := s.toInt(b)
	if doSquareB {
		bb.Mul(bb, bb)
		bb.Mod(bb, s.m)
	}
	r.Mul(r, bb)
	r.Mod(r, s.m)
	return s.toWords(r)
}

// ExpExp2 returns a^(2^n) by squaring n times.
func (s *SoftEngine) ExpExp2(a mersenne.Words, n uint32) mersenne.Words {
	r := s.toInt(a)
	for i := uint32(0); i < n; i++ {
		r.Mul(r, r)
		r.Mod(r, s.m)
	}
	return s.toWords(r)
}

// MakeBufVector returns size+1 residue buffers.
func (s *SoftEngine) MakeBufVector(size uint32) []Buffer {
	bufs := make([]Buffer, size+1)
	for i := range bufs {
		bufs[i] = &softBuffer{x: new(big.Int)}
	}
	return bufs
}

// WriteIn loads a residue into a buffer.
func (s *SoftEngine) WriteIn(buf Buffer, w mersenne.Words) {
	buf.(*softBuffer).x = s.toInt(w)
}

// ExpMulBuf folds src into dst in place: dst = dst^h * src.
func (s *SoftEngine) ExpMulBuf(dst Buffer, h uint64, src Buffer) {
	d := dst.(*softBuffer)
	r := new(big.Int).Exp(d.x, new(big.Int).SetUint64(h), s.m)
	r.Mul(r, src.(*softBuffer).x)
	d.x = r.Mod(r, s.m)
}

// ReadAndCompress reads a buffer back as a canonically reduced residue, or
// nil if the residue is zero.
func (s *SoftEngine) ReadAndCompress(buf Buffer) mersenne.Words {
	x := new(big.Int).Mod(buf.(*softBuffer).x, s.m)
	if x.Sign() == 0 {
		return nil
	}
	return s.toWords(x)
}
