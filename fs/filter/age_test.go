package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgeStdlibDurations(t *testing.T) {
	now := time.Date(2020, 9, 5, 8, 15, 5, 0, time.UTC)
	for _, test := range []struct {
		in   string
		want time.Duration
	}{
		{"1ms", time.Millisecond},
		{"1s", time.Second},
		{"1m", time.Minute},
		{"1h", time.Hour},
		{"1h2m3s", time.Hour + 2*time.Minute + 3*time.Second},
	} {
		got, err := ParseAge(test.in, now)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, got, test.in)
	}
}

func TestParseAgeCalendarUnits(t *testing.T) {
	now := time.Date(2020, 9, 5, 8, 15, 5, 0, time.UTC)
	for _, test := range []struct {
		in   string
		want time.Duration
	}{
		{"1d", 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"1y", 365 * 24 * time.Hour},
	} {
		got, err := ParseAge(test.in, now)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, got, test.in)
	}
}

func TestParseAgeFractional(t *testing.T) {
	now := time.Now()
	got, err := ParseAge("1.5y", now)
	require.NoError(t, err)
	want := time.Duration(1.5 * float64(365*24*time.Hour))
	assert.Equal(t, want, got)
}

func TestParseAgeAbsoluteDate(t *testing.T) {
	now := time.Date(2020, 9, 5, 8, 15, 5, 0, time.UTC)
	got, err := ParseAge("2001-02-03", now)
	require.NoError(t, err)
	want := now.Sub(time.Date(2001, 2, 3, 0, 0, 0, 0, time.Local))
	assert.InDelta(t, want.Seconds(), got.Seconds(), 1)
}

func TestParseAgeEmptyIsError(t *testing.T) {
	_, err := ParseAge("", time.Now())
	assert.Error(t, err)
}

func TestParseAgeUnknownUnitIsError(t *testing.T) {
	_, err := ParseAge("1x", time.Now())
	assert.Error(t, err)
}
