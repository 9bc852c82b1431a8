package worktodo

import (
	"strconv"
	"strings"

	"github.com/primesearch/goowl/mersenne"
)

// Examples:
// PRP=FEEE9DCD59A0855711265C1165C4C693,1,2,124647911,-1,77,0
// PRP=D01D05DD3394CFF8887960999DC0D9EE,1,2,18178631,-1,99,2,"36357263,145429049,8411216206439"
// DoubleCheck=E0F583710728343C61643028FBDBA0FB,70198703,75,1
// Cert=B2EE67DC0A514753E488794C9DD6F6BD,1,2,82997591,-1,162105

func isHex32(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// splitQuoted splits on commas outside balanced double quotes. Quotes stay
// part of the token so the cofactor field remains recognizable.
func splitQuoted(s string) []string {
	var parts []string
	var b strings.Builder
	inQuote := false
	for _, c := range s {
		switch {
		case c == '"':
			inQuote = !inQuote
			b.WriteRune(c)
		case c == ',' && !inQuote:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteRune(c)
		}
	}
	parts = append(parts, b.String())
	return parts
}

func parseExponent(s string) uint32 {
	exp, err := strconv.ParseUint(s, 10, 64)
	if err != nil || exp > 1<<32-1 {
		return 0
	}
	return uint32(exp)
}

// parseFactors validates the quoted cofactor field of a PRP assignment:
// every listed factor must be a decimal integer above one dividing 2^e-1.
func parseFactors(e uint32, field string) ([]string, error) {
	inner := strings.TrimPrefix(strings.TrimSuffix(field, `"`), `"`)
	var factors []string
	for _, f := range strings.Split(inner, ",") {
		if f != "" {
			factors = append(factors, f)
		}
	}
	if err := mersenne.ValidateFactors(e, factors); err != nil {
		return nil, err
	}
	return factors, nil
}

// parse turns one worktodo line into a Task, or nil when the line is a
// comment, blank, or not an assignment this worker accepts. Rejections are
// logged with the offending text.
func parse(line string) *Task {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] == '#' {
		return nil
	}

	topParts := strings.Split(line, "=")
	isPRP, isLL, isCERT := false, false, false
	if len(topParts) == 2 {
		switch topParts[0] {
		case "PRP", "PRPDC":
			isPRP = true
		case "Test", "DoubleCheck":
			isLL = true
		case "Cert":
			isCERT = true
		}
	}

	if isPRP || isLL {
		parts := splitQuoted(topParts[1])
		if len(parts) > 0 && (parts[0] == "N/A" || parts[0] == "") {
			parts = parts[1:] // skip empty AID
		}
		var aid string
		if len(parts) > 0 && isHex32(parts[0]) {
			aid = parts[0]
			parts = parts[1:]
		}

		var s string
		if len(parts) >= 4 && parts[0] == "1" && parts[1] == "2" && parts[3] == "-1" {
			s = parts[2]
		} else if len(parts) > 0 {
			s = parts[0]
		}

		if exp := parseExponent(s); exp > 1000 {
			task := &Task{Kind: LL, Exponent: exp, AID: aid, Line: line, ResidueType: 1}
			if isPRP {
				task.Kind = PRP
				if len(parts) >= 7 {
					last := parts[len(parts)-1]
					if !strings.HasPrefix(last, `"`) || !strings.HasSuffix(last, `"`) || len(last) < 2 {
						log.Warnf("Rejecting assignment with malformed factor list: %q", line)
						return nil
					}
					factors, err := parseFactors(exp, last)
					if err != nil {
						log.WithError(err).Warnf("Rejecting cofactor assignment: %q", line)
						return nil
					}
					task.KnownFactors = factors
					task.ResidueType = 5
				}
			}
			return task
		}
	}

	if isCERT {
		parts := splitQuoted(topParts[1])
		if len(parts) > 0 && isHex32(parts[0]) {
			aid := parts[0]
			parts = parts[1:]
			if len(parts) == 5 && parts[0] == "1" && parts[1] == "2" && parts[3] == "-1" {
				exp := parseExponent(parts[2])
				squarings := parseExponent(parts[4])
				if exp > 1000 && squarings > 100 {
					return &Task{Kind: Cert, Exponent: exp, AID: aid, Line: line, Squarings: squarings, ResidueType: 1}
				}
			}
		}
	}

	log.Warnf("worktodo line ignored: %q", strings.TrimRight(line, "\r\n"))
	return nil
}
