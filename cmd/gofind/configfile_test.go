package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gofind "github.com/ncw-find/gofind/fs"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyConfigFileOverlaySetsFields(t *testing.T) {
	path := writeYAML(t, `
include_hidden: true
follow_symlinks: true
threads: 8
max_depth: 2
`)
	cfg := &gofind.Config{Threads: 1, MaxDepth: -1}
	require.NoError(t, applyConfigFileOverlay(cfg, path))
	assert.True(t, cfg.IncludeHidden)
	assert.True(t, cfg.FollowSymlinks)
	assert.Equal(t, 8, cfg.Threads)
	assert.Equal(t, int32(2), cfg.MaxDepth)
}

func TestApplyConfigFileOverlayLeavesUnsetFieldsAlone(t *testing.T) {
	path := writeYAML(t, `threads: 8`)
	cfg := &gofind.Config{Threads: 1, SameFilesystem: true}
	require.NoError(t, applyConfigFileOverlay(cfg, path))
	assert.Equal(t, 8, cfg.Threads)
	assert.True(t, cfg.SameFilesystem)
}

func TestApplyConfigFileOverlayRejectsMissingFile(t *testing.T) {
	cfg := &gofind.Config{}
	err := applyConfigFileOverlay(cfg, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestApplyConfigFileOverlayRejectsBadYAML(t *testing.T) {
	path := writeYAML(t, "not: valid: yaml: [")
	cfg := &gofind.Config{}
	err := applyConfigFileOverlay(cfg, path)
	require.Error(t, err)
}
