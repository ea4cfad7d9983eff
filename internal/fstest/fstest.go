// Package fstest builds scratch directory trees for package tests, the
// way the teacher's own fstest package gives every backend test suite a
// shared way to set up fixtures instead of each package hand-rolling
// os.MkdirAll/os.WriteFile calls.
package fstest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// File describes one entry to create under a Tree: a regular file when
// Content is non-nil, a directory otherwise.
type File struct {
	Path    string // slash-separated, relative to the tree root
	Content []byte
	Mode    os.FileMode // defaults to 0o644 for files, 0o755 for dirs
}

// Tree creates t.TempDir() populated with files, returning its root.
// Parent directories are created automatically; a File with nil Content
// creates an explicit empty directory instead of a regular file.
func Tree(t *testing.T, files ...File) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f.Path))
		if f.Content == nil {
			mode := f.Mode
			if mode == 0 {
				mode = 0o755
			}
			require.NoError(t, os.MkdirAll(full, mode))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		mode := f.Mode
		if mode == 0 {
			mode = 0o644
		}
		require.NoError(t, os.WriteFile(full, f.Content, mode))
	}
	return root
}

// Symlink creates a symbolic link at linkPath (relative to root)
// pointing at target (relative to root), failing the test on error.
func Symlink(t *testing.T, root, linkPath, target string) {
	t.Helper()
	link := filepath.Join(root, filepath.FromSlash(linkPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, filepath.FromSlash(target)), link))
}

// Touch creates an empty regular file at path (relative to root).
func Touch(t *testing.T, root, path string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, nil, 0o644))
}
