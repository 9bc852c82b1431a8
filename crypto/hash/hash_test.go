package hash_test

import (
	"encoding/binary"
	"testing"

	"golang.org/x/crypto/sha3"

	"github.com/primesearch/goowl/crypto/hash"
	"github.com/primesearch/goowl/mersenne"
	"github.com/primesearch/goowl/testing/assert"
	"github.com/primesearch/goowl/testing/require"
)

func digestWords(sum [32]byte) [4]uint64 {
	var d [4]uint64
	for i := range d {
		d[i] = binary.LittleEndian.Uint64(sum[i*8:])
	}
	return d
}

// The exact byte sequence fed to the sponge is part of the proof format:
// the significant little-endian residue bytes, preceded for chained hashes
// by the 32-byte little-endian previous digest.
func TestWordsPinnedByteSequence(t *testing.T) {
	w := mersenne.Words{0x04030201, 0x08070605}
	// E=33: exactly the first 5 bytes are hashed.
	want := digestWords(sha3.Sum256([]byte{0x01, 0x02, 0x03, 0x04, 0x05}))
	require.Equal(t, want, hash.Words(33, w))
}

func TestWordsPrefixPinnedByteSequence(t *testing.T) {
	w := mersenne.Words{9}
	prefix := [4]uint64{1, 2, 3, 0x1122334455667788}

	buf := make([]byte, 0, 33)
	for _, p := range prefix {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], p)
		buf = append(buf, b[:]...)
	}
	buf = append(buf, w.Bytes(31)...)
	want := digestWords(sha3.Sum256(buf))
	require.Equal(t, want, hash.WordsPrefix(31, prefix, w))
}

func TestWordsDeterministic(t *testing.T) {
	w := mersenne.Make(127, 3)
	assert.Equal(t, hash.Words(127, w), hash.Words(127, w))
}

func TestWordsSensitivity(t *testing.T) {
	a := mersenne.Make(127, 3)
	b := mersenne.Make(127, 4)
	assert.NotEqual(t, hash.Words(127, a), hash.Words(127, b))

	prefix := hash.Words(127, a)
	other := hash.Words(127, b)
	assert.NotEqual(t, hash.WordsPrefix(127, prefix, a), hash.WordsPrefix(127, other, a))
	// Chaining is order-sensitive: prefix-then-words differs from a plain
	// hash of the words.
	assert.NotEqual(t, hash.Words(127, a), hash.WordsPrefix(127, prefix, a))
}
