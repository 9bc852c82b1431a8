package mersenne

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ToString renders a Mersenne number with optional known factors, e.g.
// "M124647911" or "M18178631/36357263/145429049/8411216206439".
func ToString(e uint32, factors []string) string {
	var b strings.Builder
	b.WriteByte('M')
	b.WriteString(strconv.FormatUint(uint64(e), 10))
	for _, f := range factors {
		b.WriteByte('/')
		b.WriteString(f)
	}
	return b.String()
}

// FromString parses a Mersenne number string produced by ToString. Factor
// order is preserved. Empty factor fields are skipped.
func FromString(s string) (uint32, []string, error) {
	if s == "" || s[0] != 'M' {
		return 0, nil, errors.Errorf("invalid mersenne number %q: must start with M", s)
	}
	parts := strings.Split(s[1:], "/")
	if parts[0] == "" {
		return 0, nil, errors.Errorf("invalid mersenne number %q: no exponent", s)
	}
	e, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, nil, errors.Errorf("invalid exponent %q", parts[0])
	}
	var factors []string
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		f, ok := new(big.Int).SetString(p, 10)
		if !ok {
			return 0, nil, errors.Errorf("invalid factor %q: not numeric", p)
		}
		if f.Sign() <= 0 {
			return 0, nil, errors.Errorf("invalid factor %q: not positive", p)
		}
		factors = append(factors, p)
	}
	return uint32(e), factors, nil
}

// ValidateFactors checks that every factor is a decimal integer greater than
// one and divides 2^e-1 exactly.
func ValidateFactors(e uint32, factors []string) error {
	if len(factors) == 0 {
		return nil
	}
	m := new(big.Int).Lsh(big.NewInt(1), uint(e))
	m.Sub(m, big.NewInt(1))
	for _, s := range factors {
		f, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return errors.Errorf("factor %q of M%d is not numeric", s, e)
		}
		if f.Cmp(big.NewInt(1)) <= 0 {
			return errors.Errorf("factor %s of M%d is not greater than one", s, e)
		}
		if new(big.Int).Mod(m, f).Sign() != 0 {
			return errors.Errorf("factor %s does not divide M%d", s, e)
		}
	}
	return nil
}
