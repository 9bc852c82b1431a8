package gpu_test

import (
	"math/big"
	"testing"

	"github.com/primesearch/goowl/gpu"
	"github.com/primesearch/goowl/mersenne"
	"github.com/primesearch/goowl/testing/assert"
	"github.com/primesearch/goowl/testing/require"
)

func TestExpMul(t *testing.T) {
	eng := gpu.NewSoftEngine(31)
	a := mersenne.Make(31, 3)
	b := mersenne.Make(31, 7)

	// 3^5 * 7 = 1701
	got := eng.ExpMul(a, 5, b, false)
	require.DeepEqual(t, mersenne.Make(31, 1701), got)

	// 3^5 * 7^2 = 11907
	got = eng.ExpMul(a, 5, b, true)
	require.DeepEqual(t, mersenne.Make(31, 11907), got)
}

func TestExpMulReduces(t *testing.T) {
	e := uint32(31)
	eng := gpu.NewSoftEngine(e)
	a := mersenne.Make(e, 3)

	got := eng.ExpMul(a, 1<<40, mersenne.Make(e, 1), false)

	m := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(e)), big.NewInt(1))
	want := new(big.Int).Exp(big.NewInt(3), new(big.Int).Lsh(big.NewInt(1), 40), m)
	require.Equal(t, want.Uint64(), got.Res64())
}

func TestExpExp2(t *testing.T) {
	eng := gpu.NewSoftEngine(31)
	// 3^(2^3) = 6561
	got := eng.ExpExp2(mersenne.Make(31, 3), 3)
	require.DeepEqual(t, mersenne.Make(31, 6561), got)

	// a^(2^0) = a
	got = eng.ExpExp2(mersenne.Make(31, 5), 0)
	require.DeepEqual(t, mersenne.Make(31, 5), got)
}

func TestBufferFold(t *testing.T) {
	eng := gpu.NewSoftEngine(31)
	bufs := eng.MakeBufVector(2)
	require.Equal(t, 3, len(bufs))

	eng.WriteIn(bufs[0], mersenne.Make(31, 3))
	eng.WriteIn(bufs[1], mersenne.Make(31, 7))
	// bufs[0] = 3^5 * 7 = 1701
	eng.ExpMulBuf(bufs[0], 5, bufs[1])
	got := eng.ReadAndCompress(bufs[0])
	require.DeepEqual(t, mersenne.Make(31, 1701), got)
}

func TestReadAndCompressZero(t *testing.T) {
	eng := gpu.NewSoftEngine(31)
	bufs := eng.MakeBufVector(1)
	eng.WriteIn(bufs[0], mersenne.Make(31, 0))
	assert.Equal(t, true, eng.ReadAndCompress(bufs[0]) == nil)
}

func TestCanonicalReduction(t *testing.T) {
	e := uint32(31)
	eng := gpu.NewSoftEngine(e)
	// 2^31 - 1 is the modulus itself and reduces to zero.
	m := mersenne.Words{0x7fffffff}
	bufs := eng.MakeBufVector(1)
	eng.WriteIn(bufs[0], m)
	assert.Equal(t, true, eng.ReadAndCompress(bufs[0]) == nil)
}
