package main

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ncw-find/gofind/fs/filter"
)

// parseSizeFlag parses a find(1)-flavoured size expression: an
// optional leading '+' (at least), '-' (at most), or no prefix (exact),
// followed by a SizeSuffix per fs/filter's grammar.
func parseSizeFlag(raw string) (*filter.SizeFilter, error) {
	if raw == "" {
		return nil, nil
	}
	op := filter.SizeExact
	rest := raw
	switch raw[0] {
	case '+':
		op = filter.SizeAtLeast
		rest = raw[1:]
	case '-':
		op = filter.SizeAtMost
		rest = raw[1:]
	}
	bytes, err := filter.ParseSizeSuffix(rest)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing --size %q", raw)
	}
	return &filter.SizeFilter{Op: op, Bytes: bytes}, nil
}

// parseTimeFlags turns --newer/--older age expressions (e.g. "1d",
// "2h30m", an absolute date) into a single TimeFilter window. Either
// flag may be empty, leaving that side of the window unbounded.
func parseTimeFlags(newer, older string, now time.Time) (*filter.TimeFilter, error) {
	if newer == "" && older == "" {
		return nil, nil
	}
	tf := &filter.TimeFilter{}
	if newer != "" {
		age, err := filter.ParseAge(strings.TrimSpace(newer), now)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing --newer %q", newer)
		}
		tf.Since = now.Add(-age)
	}
	if older != "" {
		age, err := filter.ParseAge(strings.TrimSpace(older), now)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing --older %q", older)
		}
		tf.Until = now.Add(-age)
	}
	return tf, nil
}
