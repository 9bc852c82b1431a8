package mersenne_test

import (
	"testing"

	"github.com/primesearch/goowl/mersenne"
	"github.com/primesearch/goowl/testing/assert"
	"github.com/primesearch/goowl/testing/require"
)

func TestMake(t *testing.T) {
	w := mersenne.Make(31, 9)
	require.Equal(t, 1, len(w))
	assert.Equal(t, uint32(9), w[0])

	w = mersenne.Make(127, 3)
	require.Equal(t, 4, len(w))
	assert.Equal(t, uint32(3), w[0])
	assert.Equal(t, uint32(0), w[3])
}

func TestBytesLittleEndian(t *testing.T) {
	w := mersenne.Words{0x04030201, 0x08070605}
	// E=33 keeps (33-1)/8+1 = 5 bytes.
	require.DeepEqual(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, w.Bytes(33))
	// E=63 keeps all 8 bytes.
	require.DeepEqual(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, w.Bytes(63))
}

func TestFromBytesRoundTrip(t *testing.T) {
	w := mersenne.Words{0xdeadbeef, 0x12345678, 0x1}
	got := mersenne.FromBytes(65, w.Bytes(65))
	require.DeepEqual(t, w, got)
}

func TestRes64(t *testing.T) {
	assert.Equal(t, uint64(0x0807060504030201), mersenne.Words{0x04030201, 0x08070605}.Res64())
	assert.Equal(t, uint64(9), mersenne.Words{9}.Res64())
}

func TestEqualAndZero(t *testing.T) {
	a := mersenne.Make(31, 9)
	b := mersenne.Make(31, 9)
	assert.Equal(t, true, a.Equal(b))
	b[0] = 10
	assert.Equal(t, false, a.Equal(b))
	assert.Equal(t, false, a.Equal(mersenne.Make(127, 9)))
	assert.Equal(t, true, mersenne.Make(31, 0).IsZero())
	assert.Equal(t, false, a.IsZero())
}
