package proof

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/primesearch/goowl/io/file"
	"github.com/primesearch/goowl/mersenne"
)

// MaxPower is the largest supported proof power.
const MaxPower = 12

// ErrInvalidPower is returned for powers outside [1, MaxPower].
var ErrInvalidPower = errors.New("invalid proof power")

// guard sits after the last proof point so that Next never runs off the end.
const guard = math.MaxUint32

// Set owns the checkpoint schedule of a PRP run: the 2^power iteration
// indices whose residues are persisted for later proof construction, and
// the on-disk store holding them.
type Set struct {
	E            uint32
	Power        uint32
	KnownFactors []string

	dir    string
	points []uint32 // 2^power ascending points, then the guard sentinel
	cache  int      // memoized Next position
}

// Dir returns the residue directory for exponent e under root.
func Dir(root string, e uint32) string {
	return filepath.Join(root, strconv.FormatUint(uint64(e), 10), "proof")
}

// NewSet builds the proof-point schedule for (e, power) and creates the
// residue directory under root. The exponent must be odd.
func NewSet(root string, e uint32, knownFactors []string, power uint32) (*Set, error) {
	if e&1 == 0 {
		return nil, errors.Errorf("exponent %d is even", e)
	}
	if power < 1 || power > MaxPower {
		return nil, errors.Wrapf(ErrInvalidPower, "%d", power)
	}

	dir := Dir(root, e)
	if err := file.MkdirAll(dir); err != nil {
		return nil, err
	}

	points := make([]uint32, 1, 1<<power+1)
	for p, span := uint32(0), (e+1)/2; p < power; p, span = p+1, (span+1)/2 {
		for i, end := 0, len(points); i < end; i++ {
			points = append(points, points[i]+span)
		}
	}
	points[0] = e
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	if len(points) != 1<<power || points[len(points)-1] != e {
		return nil, errors.Errorf("proof point schedule broken for E=%d power=%d", e, power)
	}
	for _, k := range points {
		if !IsInPoints(e, power, k) {
			return nil, errors.Errorf("point %d not reproduced by membership test, E=%d power=%d", k, e, power)
		}
	}
	points = append(points, guard)

	return &Set{E: e, Power: power, KnownFactors: knownFactors, dir: dir, points: points}, nil
}

// IsInPoints reports whether iteration k is a proof point of (e, power)
// without materializing the schedule.
func IsInPoints(e, power, k uint32) bool {
	if k == e {
		return true
	}
	start := uint32(0)
	for p, span := uint32(0), (e+1)/2; p < power; p, span = p+1, (span+1)/2 {
		if k > start+span {
			start += span
		} else if k == start+span {
			return true
		}
	}
	return false
}

// BestPower returns the policy power for an exponent, one more checkpoint
// level per fourfold growth: 10 at 60M, 11 from 240M, 12 from 960M, never
// below 2.
func BestPower(e uint32) uint32 {
	power := 10 + int(math.Floor(math.Log2(float64(e)/60e6)/2))
	if power < 2 {
		power = 2
	}
	return uint32(power)
}

// DiskUsageGB estimates the residue storage for (e, power): 2^power
// residues of e bits, plus 5% overhead.
func DiskUsageGB(e, power uint32) float64 {
	if power == 0 {
		return 0
	}
	return math.Ldexp(float64(e), int(power)-33) * 1.05
}

// Next returns the smallest proof point strictly greater than k. The
// position is memoized for the monotone walk of a running iteration.
func (s *Set) Next(k uint32) uint32 {
	if s.points[s.cache] <= k || (s.cache > 0 && s.points[s.cache-1] > k) {
		s.cache = sort.Search(len(s.points), func(i int) bool { return s.points[i] > k })
	}
	return s.points[s.cache]
}

func (s *Set) pointFile(k uint32) string {
	return filepath.Join(s.dir, strconv.FormatUint(uint64(k), 10))
}

func (s *Set) checkPoint(k uint32) error {
	if k == 0 || k > s.E || !IsInPoints(s.E, s.Power, k) {
		return errors.Errorf("iteration %d is not a proof point of E=%d power=%d", k, s.E, s.Power)
	}
	return nil
}

// Save persists the residue of proof point k and verifies the round trip;
// a divergence means the store cannot be trusted and is fatal to the run.
func (s *Set) Save(k uint32, w mersenne.Words) error {
	if err := s.checkPoint(k); err != nil {
		return err
	}
	if err := file.WriteChecked(s.pointFile(k), w); err != nil {
		return err
	}
	r, err := s.Load(k)
	if err != nil {
		return errors.Wrapf(err, "residue %d of E=%d did not read back", k, s.E)
	}
	if !r.Equal(w) {
		return errors.Errorf("residue %d of E=%d diverged on round trip", k, s.E)
	}
	return nil
}

// Load reads back the residue of proof point k.
func (s *Set) Load(k uint32) (mersenne.Words, error) {
	if err := s.checkPoint(k); err != nil {
		return nil, err
	}
	words, err := file.ReadChecked(s.pointFile(k), mersenne.NWords(s.E))
	if err != nil {
		return nil, err
	}
	return mersenne.Words(words), nil
}

// Clear removes every persisted residue of the set.
func (s *Set) Clear() error {
	return errors.Wrapf(os.RemoveAll(s.dir), "could not clear %s", s.dir)
}

func (s *Set) fileExists(k uint32) bool {
	return file.Size(s.pointFile(k)) == int64(s.E/32+2)*4
}

// isValidTo reports whether the store can support a proof up to limitK: the
// largest point at or below limitK must load cleanly and every earlier
// point must be present on disk.
func (s *Set) isValidTo(limitK uint32) bool {
	i := sort.Search(len(s.points), func(j int) bool { return s.points[j] > limitK })
	if i == 0 {
		return true
	}
	i--
	if _, err := s.Load(s.points[i]); err != nil {
		return false
	}
	for i > 0 {
		i--
		if !s.fileExists(s.points[i]) {
			return false
		}
	}
	return true
}

// EffectivePower returns the largest power not above power whose residues
// are usable up to currentK, or 0 if none is. A partially populated store
// from an interrupted run degrades gracefully to a lower power.
func EffectivePower(root string, e uint32, knownFactors []string, power, currentK uint32) uint32 {
	for p := power; p > 0; p-- {
		s, err := NewSet(root, e, knownFactors, p)
		if err != nil {
			return 0
		}
		if s.isValidTo(currentK) {
			return p
		}
	}
	return 0
}
