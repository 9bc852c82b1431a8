// Package gpu declares the compute-engine contract needed by PRP proof
// construction and verification, together with a software engine used for
// host-side verification and tests. The real engine performs the same
// operations on device-resident residues.
package gpu

import (
	"github.com/primesearch/goowl/mersenne"
)

// Buffer is an opaque handle to an engine-resident residue.
type Buffer interface{}

// Engine operates on residues mod 2^E-1. All calls block until the engine
// has produced the result.
type Engine interface {
	// ExpMul returns a^h * b, or a^h * b^2 when doSquareB is set.
	ExpMul(a mersenne.Words, h uint64, b mersenne.Words, doSquareB bool) mersenne.Words

	// ExpExp2 returns a^(2^n), i.e. a squared n times.
	ExpExp2(a mersenne.Words, n uint32) mersenne.Words

	// MakeBufVector returns at least size+1 residue buffers for the proof
	// fold stack.
	MakeBufVector(size uint32) []Buffer

	// WriteIn loads a residue into a buffer.
	WriteIn(buf Buffer, w mersenne.Words)

	// ExpMulBuf folds src into dst in place: dst = dst^h * src.
	ExpMulBuf(dst Buffer, h uint64, src Buffer)

	// ReadAndCompress reads a buffer back as a canonically reduced residue.
	// A zero residue reads as nil, signalling a broken computation.
	ReadAndCompress(buf Buffer) mersenne.Words
}
