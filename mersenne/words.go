// Package mersenne defines the residue representation for numbers mod 2^E-1
// and the M<E>[/factor]* string codec shared by proof files and worktodo
// assignments.
package mersenne

import (
	"encoding/binary"
)

// Words holds a residue mod 2^E-1 as E/32+1 little-endian 32-bit words.
type Words []uint32

// NWords returns the word count of a residue for exponent e.
func NWords(e uint32) uint32 {
	return e/32 + 1
}

// Make returns the residue of exponent e holding the small value v.
func Make(e uint32, v uint32) Words {
	w := make(Words, NWords(e))
	w[0] = v
	return w
}

// Bytes returns the significant bytes of the residue, little-endian.
// Only the first (e-1)/8+1 bytes carry the e-bit value; these are the bytes
// that are hashed and written to proof files.
func (w Words) Bytes(e uint32) []byte {
	buf := make([]byte, len(w)*4)
	for i, x := range w {
		binary.LittleEndian.PutUint32(buf[i*4:], x)
	}
	return buf[:(e-1)/8+1]
}

// FromBytes rebuilds a residue for exponent e from its little-endian bytes.
func FromBytes(e uint32, b []byte) Words {
	w := make(Words, NWords(e))
	var buf [4]byte
	for i := range w {
		n := copy(buf[:], b[i*4:])
		for j := n; j < 4; j++ {
			buf[j] = 0
		}
		w[i] = binary.LittleEndian.Uint32(buf[:])
		if (i+1)*4 >= len(b) {
			break
		}
	}
	return w
}

// Res64 returns the low 64 bits of the residue, the conventional short form
// shown in log lines and result reports.
func (w Words) Res64() uint64 {
	if len(w) == 0 {
		return 0
	}
	lo := uint64(w[0])
	var hi uint64
	if len(w) > 1 {
		hi = uint64(w[1])
	}
	return hi<<32 | lo
}

// Equal reports whether two residues hold the same words.
func (w Words) Equal(o Words) bool {
	if len(w) != len(o) {
		return false
	}
	for i := range w {
		if w[i] != o[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether the residue is the zero element.
func (w Words) IsZero() bool {
	for _, x := range w {
		if x != 0 {
			return false
		}
	}
	return true
}
