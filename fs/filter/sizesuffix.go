package filter

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// sizeSuffixMultipliers mirrors the teacher's SizeSuffix.Set grammar: a
// decimal number followed by an optional unit letter, with an optional
// "i"/"iB" tail that is accepted but does not change the binary
// (1024-based) multiplier - spec.md's filters always work in bytes, so
// there is no decimal-SI variant to distinguish.
var sizeSuffixMultipliers = map[byte]int64{
	'b': 1,
	'k': 1 << 10,
	'm': 1 << 20,
	'g': 1 << 30,
	't': 1 << 40,
	'p': 1 << 50,
}

// ParseSizeSuffix parses a human byte-size string such as "1Ki", "10G",
// "1.5m" or a bare "1000" into a byte count, following the teacher's
// fs.SizeSuffix.Set grammar (fs/sizesuffix_test.go): an optional unit
// letter (b/k/m/g/t/p, case-insensitive) immediately after the digits,
// with an optional following "i" or "ib"/"iB" that is consumed but adds
// no further multiplier since this grammar is binary-only throughout.
func ParseSizeSuffix(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty size")
	}

	numEnd := 0
	for numEnd < len(s) {
		c := s[numEnd]
		if (c >= '0' && c <= '9') || c == '.' || (c == '-' && numEnd == 0) {
			numEnd++
			continue
		}
		break
	}
	if numEnd == 0 {
		return 0, errors.Errorf("bad size %q: no leading digits", s)
	}

	val, err := strconv.ParseFloat(s[:numEnd], 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad size %q", s)
	}
	if val < 0 {
		return 0, errors.Errorf("bad size %q: negative", s)
	}

	unit := strings.ToLower(strings.TrimSpace(s[numEnd:]))

	if unit == "" {
		// A bare number with no unit defaults to Ki, as in the teacher's grammar.
		return int64(val * float64(sizeSuffixMultipliers['k'])), nil
	}

	base := unit[0]
	mult, ok := sizeSuffixMultipliers[base]
	if !ok {
		return 0, errors.Errorf("bad size %q: unknown unit %q", s, unit)
	}
	switch rest := unit[1:]; rest {
	case "", "i", "ib":
		// accepted, binary multiplier already selected above
	default:
		return 0, errors.Errorf("bad size %q: unknown unit %q", s, unit)
	}

	return int64(val * float64(mult)), nil
}
