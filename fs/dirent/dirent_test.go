package dirent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name    string
		wantExt string
		wantOK  bool
	}{
		{"file.txt", "txt", true},
		{"archive.tar.gz", "gz", true},
		{".gitignore", "", false},
		{"noext", "", false},
		{"trailingdot.", "", false},
		{".", "", false},
		{"..", "", false},
		{"a.b", "b", true},
	}
	for _, tc := range tests {
		d := New([]byte("/r/"+tc.name), len("/r/"), 1, Regular, 1, false)
		ext, ok := d.Extension()
		assert.Equal(t, tc.wantOK, ok, tc.name)
		if ok {
			assert.Equal(t, tc.wantExt, string(ext), tc.name)
		}
	}
}

func TestHidden(t *testing.T) {
	d := New([]byte("/r/.hidden"), len("/r/"), 1, Regular, 1, false)
	assert.True(t, d.Hidden())
	d2 := New([]byte("/r/visible"), len("/r/"), 1, Regular, 1, false)
	assert.False(t, d2.Hidden())
}

func TestFileNameAndFullPath(t *testing.T) {
	d := New([]byte("/a/b/c.txt"), len("/a/b/"), 2, Regular, 42, false)
	assert.Equal(t, "c.txt", string(d.FileName()))
	assert.Equal(t, "/a/b/c.txt", string(d.FullPath()))
	assert.Equal(t, int32(2), d.Depth())
	assert.Equal(t, uint64(42), d.Inode())
}

func TestEnsureMetadataResolvesRealFile(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(fpath, []byte("hello"), 0o644))

	d := New([]byte(fpath), len(dir)+1, 0, Unknown, 0, false)
	m, err := d.EnsureMetadata()
	require.NoError(t, err)
	assert.Equal(t, int64(5), m.Size)
	assert.True(t, d.IsDir() == false)
	assert.Equal(t, Regular, d.TypeTag())

	// second call must not re-stat - CachedMetadata returns the same pointer
	m2, err := d.EnsureMetadata()
	require.NoError(t, err)
	assert.Same(t, m, m2)
}

func TestIsDirResolvesUnknown(t *testing.T) {
	dir := t.TempDir()
	d := New([]byte(dir), 0, 0, Unknown, 0, false)
	assert.True(t, d.IsDir())
	assert.Equal(t, Directory, d.TypeTag())
}

// buildRecord constructs a synthetic Linux-family getdents64 record for
// NameLen tests: header + name + NUL + zero padding to an 8-byte
// boundary, matching the real kernel layout.
func buildRecord(name string) (record []byte, reclen int) {
	total := LinuxDirentHeaderSize + len(name) + 1
	padded := (total + 7) &^ 7
	record = make([]byte, padded)
	copy(record[LinuxDirentHeaderSize:], name)
	return record, padded
}

func TestNameLenAgreesWithStrlen(t *testing.T) {
	names := []string{
		"a", "ab", "abc", "abcdefgh", "abcdefghi",
		"averylongfilenamethatspansmultiplewords.txt",
		"x", "12345678", "123456789012345",
	}
	for _, n := range names {
		record, reclen := buildRecord(n)
		got := NameLen(record, reclen)
		assert.Equal(t, len(n), got, "name=%q reclen=%d", n, reclen)
	}
}

func TestNameLenSingleByteName(t *testing.T) {
	record, reclen := buildRecord("a")
	assert.Equal(t, 1, NameLen(record, reclen))
}
