package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncw-find/gofind/fs/match"
	"github.com/ncw-find/gofind/fs/sink"
)

func validConfig(root string) Config {
	return Config{
		RootPaths:       []string{root},
		PatternKind:     match.FixedString,
		OutputSeparator: sink.SeparatorNewline,
		Threads:         4,
	}
}

func TestValidateRejectsNoRootPaths(t *testing.T) {
	cfg := validConfig("")
	cfg.RootPaths = nil
	err := cfg.Validate()
	require.Error(t, err)
	assert.IsType(t, &InvalidConfigError{}, err)
}

func TestValidateAcceptsEmptyPatternAsMatchEverything(t *testing.T) {
	cfg := validConfig(".")
	cfg.PatternKind = match.Regex
	cfg.Pattern = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadSeparator(t *testing.T) {
	cfg := validConfig(".")
	cfg.OutputSeparator = 'x'
	require.Error(t, cfg.Validate())
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := validConfig(".")
	assert.NoError(t, cfg.Validate())
}

func TestBuildMatcherEmptyPatternMatchesEverything(t *testing.T) {
	cfg := validConfig(".")
	m, err := cfg.BuildMatcher()
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestBuildMatcherCompilesPattern(t *testing.T) {
	cfg := validConfig(".")
	cfg.Pattern = "*.go"
	cfg.PatternKind = match.Glob
	cfg.CaseSensitive = true
	m, err := cfg.BuildMatcher()
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.Match([]byte("main.go")))
	assert.False(t, m.Match([]byte("main.py")))
}

func TestFilterConfigLowercasesExtensions(t *testing.T) {
	cfg := validConfig(".")
	cfg.Extensions = []string{"TXT", "Go"}
	fc, err := cfg.FilterConfig()
	require.NoError(t, err)
	assert.True(t, fc.Extensions["txt"])
	assert.True(t, fc.Extensions["go"])
}

func TestWalkConfigDefaultsZeroThreadsToOne(t *testing.T) {
	cfg := validConfig(".")
	cfg.Threads = 0
	wc := cfg.WalkConfig()
	assert.Equal(t, 1, wc.Threads)
}

func TestWalkConfigPassesThroughMaxDepth(t *testing.T) {
	cfg := validConfig(".")
	cfg.MaxDepth = 3
	wc := cfg.WalkConfig()
	assert.Equal(t, int32(3), wc.MaxDepth)
}

func TestResolveRootPathsNoopWhenNotAbsolute(t *testing.T) {
	cfg := validConfig("relative/path")
	require.NoError(t, cfg.ResolveRootPaths())
	assert.Equal(t, []string{"relative/path"}, cfg.RootPaths)
}

func TestResolveRootPathsCanonicalisesWithoutFollowingSymlinks(t *testing.T) {
	dir := t.TempDir()
	cfg := validConfig(dir)
	cfg.Absolute = true
	require.NoError(t, cfg.ResolveRootPaths())
	assert.True(t, filepath.IsAbs(cfg.RootPaths[0]))
}

func TestResolveRootPathsFollowsSymlinksWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.MkdirAll(target, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	cfg := validConfig(link)
	cfg.Absolute = true
	cfg.FollowSymlinks = true
	require.NoError(t, cfg.ResolveRootPaths())

	real, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, real, cfg.RootPaths[0])
}

func TestBuildSinkReturnsCollectingWhenSortSet(t *testing.T) {
	cfg := validConfig(".")
	cfg.Sort = true
	s := cfg.BuildSink()
	_, ok := s.(*sink.Collecting)
	assert.True(t, ok)
}

func TestBuildSinkReturnsStreamingByDefault(t *testing.T) {
	cfg := validConfig(".")
	s := cfg.BuildSink()
	_, ok := s.(*sink.Streaming)
	assert.True(t, ok)
}
