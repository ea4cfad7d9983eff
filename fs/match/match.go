// Package match implements the name-predicate abstraction of spec.md
// §4.4 item 5 and §9: a single-method matcher shared by reference
// across traversal workers, with three backing kinds - Regex, Glob
// (translated to Regex at construction time) and FixedString.
package match

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Kind selects which pattern language Config.Pattern is written in.
type Kind uint8

const (
	Regex Kind = iota
	Glob
	FixedString
)

// Matcher is the capability set spec.md §9 calls for: "a tagged variant
// with a single matches(bytes) -> bool operation". Implementations are
// read-only after construction and safe for concurrent use by every
// traversal worker without per-worker cloning, since Go's *regexp.Regexp
// is documented safe for concurrent use and the fixed-string/glob
// matchers hold no mutable state at all.
type Matcher interface {
	Match(name []byte) bool
}

// New builds a Matcher for pattern according to kind. caseSensitive
// applies uniformly across all three kinds: for Regex it is honoured by
// prepending "(?i)" to pattern, the same flag regexp itself recognises,
// rather than requiring every Regex-kind caller to splice it in by hand.
func New(kind Kind, pattern string, caseSensitive bool) (Matcher, error) {
	switch kind {
	case Regex:
		reSrc := pattern
		if !caseSensitive {
			reSrc = "(?i)" + reSrc
		}
		re, err := regexp.Compile(reSrc)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling regex %q", pattern)
		}
		return regexMatcher{re: re}, nil
	case Glob:
		reSrc, err := globToRegexSource(pattern, caseSensitive)
		if err != nil {
			return nil, errors.Wrapf(err, "translating glob %q", pattern)
		}
		re, err := regexp.Compile(reSrc)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling translated glob %q as %q", pattern, reSrc)
		}
		return regexMatcher{re: re}, nil
	case FixedString:
		needle := []byte(pattern)
		if !caseSensitive {
			needle = bytes.ToLower(needle)
		}
		return fixedMatcher{needle: needle, caseSensitive: caseSensitive}, nil
	default:
		return nil, errors.Errorf("match: unknown pattern kind %d", kind)
	}
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) Match(name []byte) bool { return m.re.Match(name) }

// fixedMatcher does a substring comparison, the FixedString kind's
// contract: "contains this literal text", mirroring how fd's
// fixed-string mode and grep -F behave.
type fixedMatcher struct {
	needle        []byte
	caseSensitive bool
}

func (m fixedMatcher) Match(name []byte) bool {
	if m.caseSensitive {
		return bytes.Contains(name, m.needle)
	}
	return bytes.Contains(bytes.ToLower(name), m.needle)
}

// globToRegexSource translates a shell glob into an anchored regex
// source string. Supported metacharacters: '*' (any run, not crossing
// '/'), '?' (single non-'/' byte), '[...]' character classes (including
// a leading '!' or '^' negation), and literal everything else escaped.
// This is the "glob-to-regex converter" spec.md §1 names as an external
// collaborator; a concrete default implementation is provided here
// since a runnable CLI needs one.
func globToRegexSource(glob string, caseSensitive bool) (string, error) {
	var b strings.Builder
	if !caseSensitive {
		b.WriteString("(?i)")
	}
	b.WriteByte('^')
	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '*':
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		case '[':
			j := i + 1
			neg := false
			if j < len(runes) && (runes[j] == '!' || runes[j] == '^') {
				neg = true
				j++
			}
			start := j
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				// Unterminated class: treat '[' as a literal.
				b.WriteString(regexp.QuoteMeta("["))
				continue
			}
			class := string(runes[start:j])
			b.WriteByte('[')
			if neg {
				b.WriteByte('^')
			}
			b.WriteString(regexp.QuoteMeta(class))
			b.WriteByte(']')
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteByte('$')
	return b.String(), nil
}
