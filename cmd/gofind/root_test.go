package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncw-find/gofind/fs/filter"
	"github.com/ncw-find/gofind/fs/match"
	"github.com/ncw-find/gofind/fs/sink"
)

func TestBuildConfigDefaultsToCurrentDirAndRegex(t *testing.T) {
	flags := &cliFlags{threads: 4}
	cfg, err := buildConfig(flags, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, cfg.RootPaths)
	assert.Equal(t, match.Regex, cfg.PatternKind)
	assert.Equal(t, "", cfg.Pattern)
}

func TestBuildConfigSplitsPatternAndRoots(t *testing.T) {
	flags := &cliFlags{threads: 4}
	cfg, err := buildConfig(flags, []string{"*.go", "src", "vendor"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "*.go", cfg.Pattern)
	assert.Equal(t, []string{"src", "vendor"}, cfg.RootPaths)
}

func TestBuildConfigPatternKindFromFlags(t *testing.T) {
	flags := &cliFlags{threads: 1, glob: true}
	cfg, err := buildConfig(flags, []string{"*.go"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, match.Glob, cfg.PatternKind)

	flags = &cliFlags{threads: 1, fixedString: true}
	cfg, err = buildConfig(flags, []string{"lit"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, match.FixedString, cfg.PatternKind)
}

func TestBuildConfigFullPathSetsMatchTarget(t *testing.T) {
	flags := &cliFlags{threads: 1, fullPath: true}
	cfg, err := buildConfig(flags, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, filter.MatchFullPath, cfg.MatchTarget)
}

func TestBuildConfigPrint0SelectsNULSeparator(t *testing.T) {
	flags := &cliFlags{threads: 1, print0: true}
	cfg, err := buildConfig(flags, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, sink.SeparatorNUL, cfg.OutputSeparator)
}

func TestBuildConfigNoColourDisablesColouring(t *testing.T) {
	flags := &cliFlags{threads: 1, noColour: true}
	cfg, err := buildConfig(flags, nil, time.Now())
	require.NoError(t, err)
	assert.False(t, cfg.Colouring)
}

func TestBuildConfigPropagatesSizeAndTimeErrors(t *testing.T) {
	flags := &cliFlags{threads: 1, size: "not-a-size"}
	_, err := buildConfig(flags, nil, time.Now())
	require.Error(t, err)

	flags = &cliFlags{threads: 1, newer: "not-an-age"}
	_, err = buildConfig(flags, nil, time.Now())
	require.Error(t, err)

	flags = &cliFlags{threads: 1, types: []string{"bogus"}}
	_, err = buildConfig(flags, nil, time.Now())
	require.Error(t, err)
}

func TestBuildConfigDefaultRegexIsCaseInsensitive(t *testing.T) {
	flags := &cliFlags{threads: 1}
	cfg, err := buildConfig(flags, []string{"^report"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, match.Regex, cfg.PatternKind)
	assert.False(t, cfg.CaseSensitive)

	m, err := cfg.BuildMatcher()
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("Report.pdf")), "regex matching must honour the CLI's stated case-insensitive default")
}

func TestBuildConfigCaseSensitiveFlagAppliesToRegex(t *testing.T) {
	flags := &cliFlags{threads: 1, caseSensitive: true}
	cfg, err := buildConfig(flags, []string{"^report"}, time.Now())
	require.NoError(t, err)

	m, err := cfg.BuildMatcher()
	require.NoError(t, err)
	assert.False(t, m.Match([]byte("Report.pdf")))
	assert.True(t, m.Match([]byte("report.pdf")))
}

func TestBuildConfigMaxDepthDefaultIsUnlimited(t *testing.T) {
	flags := &cliFlags{threads: 1, maxDepth: -1}
	cfg, err := buildConfig(flags, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int32(-1), cfg.MaxDepth)
}
