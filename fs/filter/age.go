package filter

import (
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// ageUnits follows the teacher's parseDurationFromNow grammar
// (fs/parseduration_test.go): single-letter suffixes beyond time.Duration's
// own ParseDuration vocabulary, for calendar-scale spans. "M" (month) is
// deliberately distinct from "m" (minute).
var ageUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"y", 365 * 24 * time.Hour},
	{"w", 7 * 24 * time.Hour},
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"ms", time.Millisecond},
	{"s", time.Second},
	{"m", time.Minute},
}

var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var ageTermRe = regexp.MustCompile(`^([0-9.]+)(y|w|d|h|ms|s|m|M)`)

// ParseAge parses a relative age expression (spec.md §6's time_filter
// grammar, e.g. "1d", "1.5y", "1h2m3s") or an absolute timestamp, and
// returns the corresponding time.Duration elapsed since now - matching
// the sign convention of the teacher's parseDurationFromNow: a relative
// duration in the past is positive, so "since 1d" means "since
// now-1d".
func ParseAge(s string, now time.Time) (time.Duration, error) {
	if s == "" {
		return 0, errors.New("empty age")
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return now.Sub(t), nil
		}
	}

	return parseCompositeAge(s, now)
}

func parseCompositeAge(s string, now time.Time) (time.Duration, error) {
	neg := false
	rest := s
	if len(rest) > 0 && rest[0] == '-' {
		neg = true
		rest = rest[1:]
	}

	var total time.Duration
	matchedAny := false
	for len(rest) > 0 {
		m := ageTermRe.FindStringSubmatch(rest)
		if m == nil {
			return 0, errors.Errorf("bad age %q: cannot parse %q", s, rest)
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, errors.Wrapf(err, "bad age %q", s)
		}
		unit, err := ageUnitDuration(m[2])
		if err != nil {
			return 0, errors.Wrapf(err, "bad age %q", s)
		}
		total += time.Duration(n * float64(unit))
		rest = rest[len(m[0]):]
		matchedAny = true
	}
	if !matchedAny {
		return 0, errors.Errorf("bad age %q", s)
	}
	if neg {
		total = -total
	}
	return total, nil
}

func ageUnitDuration(suffix string) (time.Duration, error) {
	if suffix == "M" {
		return 30 * 24 * time.Hour, nil
	}
	for _, u := range ageUnits {
		if u.suffix == suffix {
			return u.unit, nil
		}
	}
	return 0, errors.Errorf("unknown age unit %q", suffix)
}
