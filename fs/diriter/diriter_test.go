package diriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncw-find/gofind/fs/ioerror"
	"github.com/ncw-find/gofind/fs/pathbuf"
)

func TestOpenOnMissingPathReturnsOpenError(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist")

	_, err := Open(missing, 0, 0, false, false)
	require.Error(t, err)
	assert.True(t, ioerror.IsPerEntryError(err))
	var openErr *ioerror.OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, missing, openErr.Path)
}

func TestOpenOnRegularFileReturnsOpenError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Open(file, 0, 0, false, false)
	require.Error(t, err)
	assert.True(t, ioerror.IsPerEntryError(err))
}

func TestNextYieldsAllEntriesExceptDotDirs(t *testing.T) {
	dir := t.TempDir()
	want := map[string]bool{"a.txt": true, "b.txt": true, "sub": true}
	for name := range want {
		if name == "sub" {
			require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	it, err := Open(dir, 0, 0, false, false)
	require.NoError(t, err)
	defer it.Close()

	pb, err := pathbuf.New([]byte(dir))
	require.NoError(t, err)

	got := map[string]bool{}
	for {
		entry, err := it.Next(pb)
		if err == ErrExhausted {
			break
		}
		require.NoError(t, err)
		got[string(entry.FileName())] = true
		assert.Equal(t, int32(1), entry.Depth())
		assert.Equal(t, dir+"/"+string(entry.FileName()), string(entry.FullPath()))
	}
	assert.Equal(t, want, got)
}

func TestNextOnEmptyDirectoryIsImmediatelyExhausted(t *testing.T) {
	dir := t.TempDir()
	it, err := Open(dir, 0, 0, false, false)
	require.NoError(t, err)
	defer it.Close()

	pb, err := pathbuf.New([]byte(dir))
	require.NoError(t, err)

	_, err = it.Next(pb)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	it, err := Open(dir, 0, 0, false, false)
	require.NoError(t, err)
	require.NoError(t, it.Close())
	require.NoError(t, it.Close())
}

func TestPathBufferRestoredAfterIteration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o644))

	pb, err := pathbuf.New([]byte(dir))
	require.NoError(t, err)
	before := append([]byte(nil), pb.Bytes()...)

	it, err := Open(dir, 0, 0, false, false)
	require.NoError(t, err)
	defer it.Close()
	_, err = it.Next(pb)
	require.NoError(t, err)

	assert.Equal(t, before, pb.Bytes(), "DirIter.Next must not leave the shared PathBuffer mutated")
}
