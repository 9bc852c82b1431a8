package proof

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/primesearch/goowl/mersenne"
)

/* Example header:
   PRP PROOF\n
   VERSION=2\n
   HASHSIZE=64\n
   POWER=8\n
   NUMBER=M216091\n
*/

// FileName returns the canonical proof file name, "<E>-<power>.proof".
func (p *Proof) FileName() string {
	return fmt.Sprintf("%d-%d.proof", p.E, p.Power())
}

// Save writes the proof file under dir and returns its path. The header is
// followed by B and the middles, each as (E-1)/8+1 little-endian bytes.
func (p *Proof) Save(dir string) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "PRP PROOF\nVERSION=2\nHASHSIZE=64\nPOWER=%d\nNUMBER=%s\n",
		p.Power(), mersenne.ToString(p.E, p.KnownFactors))
	buf.Write(p.B.Bytes(p.E))
	for _, m := range p.Middles {
		buf.Write(m.Bytes(p.E))
	}
	path := filepath.Join(dir, p.FileName())
	if err := ioutil.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return "", errors.Wrapf(err, "could not write proof %s", path)
	}
	return path, nil
}

// Load reads back a proof file written by Save. Any header divergence is a
// format error; nothing is returned on a short body.
func Load(path string) (*Proof, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read proof %s", path)
	}
	e, power, factors, body, err := parseHeader(data)
	if err != nil {
		return nil, errors.Wrapf(err, "proof file %s", path)
	}
	nBytes := int((e-1)/8 + 1)
	if len(body) != nBytes*int(power+1) {
		return nil, errors.Errorf("proof file %s: body is %d bytes, want %d", path, len(body), nBytes*int(power+1))
	}
	b := mersenne.FromBytes(e, body[:nBytes])
	middles := make([]mersenne.Words, power)
	for i := range middles {
		off := nBytes * (i + 1)
		middles[i] = mersenne.FromBytes(e, body[off:off+nBytes])
	}
	return &Proof{E: e, KnownFactors: factors, B: b, Middles: middles}, nil
}

// Info describes a proof file without loading its residues.
type Info struct {
	Exp          uint32
	Power        uint32
	KnownFactors []string
	MD5          string
}

// GetInfo parses the header of a proof file and hashes the whole file.
func GetInfo(path string) (Info, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Info{}, errors.Wrapf(err, "could not read proof %s", path)
	}
	e, power, factors, _, err := parseHeader(data)
	if err != nil {
		return Info{}, errors.Wrapf(err, "proof file %s", path)
	}
	sum := md5.Sum(data)
	return Info{Exp: e, Power: power, KnownFactors: factors, MD5: hex.EncodeToString(sum[:])}, nil
}

func parseHeader(data []byte) (e, power uint32, factors []string, body []byte, err error) {
	rest := data
	line := func() (string, bool) {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			return "", false
		}
		l := string(rest[:i])
		rest = rest[i+1:]
		return l, true
	}

	for _, want := range []string{"PRP PROOF", "VERSION=2", "HASHSIZE=64"} {
		got, ok := line()
		if !ok || got != want {
			return 0, 0, nil, nil, errors.Errorf("invalid header: missing %q", want)
		}
	}

	powerLine, ok := line()
	if !ok || !strings.HasPrefix(powerLine, "POWER=") {
		return 0, 0, nil, nil, errors.New("invalid header: missing POWER")
	}
	p, perr := strconv.ParseUint(powerLine[len("POWER="):], 10, 32)
	if perr != nil || p < 1 || p > MaxPower {
		return 0, 0, nil, nil, errors.Errorf("invalid header: bad POWER %q", powerLine)
	}

	numberLine, ok := line()
	if !ok || !strings.HasPrefix(numberLine, "NUMBER=") {
		return 0, 0, nil, nil, errors.New("invalid header: missing NUMBER")
	}
	e, factors, err = mersenne.FromString(numberLine[len("NUMBER="):])
	if err != nil {
		return 0, 0, nil, nil, errors.Wrap(err, "invalid header")
	}
	return e, uint32(p), factors, rest, nil
}
