package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexMatcher(t *testing.T) {
	m, err := New(Regex, `^foo.*\.go$`, true)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("foobar.go")))
	assert.False(t, m.Match([]byte("barfoo.go")))
}

func TestRegexMatcherInvalidPattern(t *testing.T) {
	_, err := New(Regex, `(unterminated`, true)
	assert.Error(t, err)
}

func TestRegexMatcherCaseSensitive(t *testing.T) {
	m, err := New(Regex, `^Report`, true)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("Report.pdf")))
	assert.False(t, m.Match([]byte("report.pdf")))
}

func TestRegexMatcherCaseInsensitive(t *testing.T) {
	m, err := New(Regex, `^Report`, false)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("Report.pdf")))
	assert.True(t, m.Match([]byte("report.pdf")))
}

func TestFixedMatcherCaseSensitive(t *testing.T) {
	m, err := New(FixedString, "Report", true)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("QuarterlyReport.pdf")))
	assert.False(t, m.Match([]byte("QuarterlyreportPDF")))
}

func TestFixedMatcherCaseInsensitive(t *testing.T) {
	m, err := New(FixedString, "Report", false)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("QuarterlyreportPDF")))
}

func TestGlobMatcherStar(t *testing.T) {
	m, err := New(Glob, "*.txt", true)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("notes.txt")))
	assert.False(t, m.Match([]byte("notes.txt.bak")))
	assert.False(t, m.Match([]byte("dir/notes.txt")), "glob '*' must not cross a path separator")
}

func TestGlobMatcherQuestionMark(t *testing.T) {
	m, err := New(Glob, "a?.log", true)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("ab.log")))
	assert.False(t, m.Match([]byte("abc.log")))
}

func TestGlobMatcherCharClass(t *testing.T) {
	m, err := New(Glob, "file[0-9].txt", true)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("file3.txt")))
	assert.False(t, m.Match([]byte("fileX.txt")))
}

func TestGlobMatcherNegatedCharClass(t *testing.T) {
	m, err := New(Glob, "file[!0-9].txt", true)
	require.NoError(t, err)
	assert.False(t, m.Match([]byte("file3.txt")))
	assert.True(t, m.Match([]byte("fileX.txt")))
}

func TestGlobMatcherCaseInsensitive(t *testing.T) {
	m, err := New(Glob, "*.TXT", false)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("notes.txt")))
}

func TestGlobMatcherEscapesRegexMetacharacters(t *testing.T) {
	m, err := New(Glob, "a.b+c", true)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("a.b+c")))
	assert.False(t, m.Match([]byte("aXb+c")), "literal '.' in a glob must not behave as regex any-char")
}

func TestUnknownKind(t *testing.T) {
	_, err := New(Kind(99), "x", true)
	assert.Error(t, err)
}
