// Package hash implements the 256-bit residue hash that drives the PRP
// proof challenge chain. The digest byte order is pinned by the external
// proof verifier: SHA3-256 over the significant little-endian residue
// bytes, read back as four little-endian 64-bit words.
package hash

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/primesearch/goowl/mersenne"
)

// Words hashes the significant bytes of a residue mod 2^e-1.
func Words(e uint32, w mersenne.Words) [4]uint64 {
	h := sha3.New256()
	h.Write(w.Bytes(e))
	return digest(h.Sum(nil))
}

// WordsPrefix chains a previous digest in front of the residue bytes. The
// prefix is absorbed first, as 32 little-endian bytes; the ordering is part
// of the proof format.
func WordsPrefix(e uint32, prefix [4]uint64, w mersenne.Words) [4]uint64 {
	h := sha3.New256()
	var buf [32]byte
	for i, p := range prefix {
		binary.LittleEndian.PutUint64(buf[i*8:], p)
	}
	h.Write(buf[:])
	h.Write(w.Bytes(e))
	return digest(h.Sum(nil))
}

func digest(sum []byte) [4]uint64 {
	var d [4]uint64
	for i := range d {
		d[i] = binary.LittleEndian.Uint64(sum[i*8:])
	}
	return d
}
