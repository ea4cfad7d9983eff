// Package dirent defines the single filesystem entry record produced by
// fs/diriter and consumed by fs/filter, fs/walk and fs/sink.
package dirent

import (
	"bytes"
	"time"

	"github.com/ncw-find/gofind/fs/ioerror"
)

// TypeTag classifies a DirEntry without requiring a stat call, when the
// kernel directory record carried the type.
type TypeTag uint8

// The ten type tags named in spec.md §4.4; Empty and Executable are
// derived filter-time properties rather than kernel-reported types, so
// they are not TypeTag values — see fs/filter.
const (
	Unknown TypeTag = iota
	Regular
	Directory
	Symlink
	Block
	Char
	Fifo
	Socket
)

// Raw POSIX S_IFMT mode bits, used to classify a resolved stat's Mode
// field without depending on golang.org/x/sys/unix from this
// platform-independent file (the per-platform stat_*.go files own that
// dependency).
const (
	modeFmtMask = 0170000
	modeSocket  = 0140000
	modeSymlink = 0120000
	modeRegular = 0100000
	modeBlock   = 0060000
	modeDir     = 0040000
	modeChar    = 0020000
	modeFifo    = 0010000
)

func typeTagFromMode(mode uint32) TypeTag {
	switch mode & modeFmtMask {
	case modeRegular:
		return Regular
	case modeDir:
		return Directory
	case modeSymlink:
		return Symlink
	case modeBlock:
		return Block
	case modeChar:
		return Char
	case modeFifo:
		return Fifo
	case modeSocket:
		return Socket
	default:
		return Unknown
	}
}

// compactPath is a small-string-optimised owner of a path's bytes: a
// length-prefixed box whose length field is narrower than a native
// word, since MaxPath fits comfortably in a uint16.
type compactPath struct {
	length uint16
	bytes  []byte
}

func newCompactPath(full []byte) compactPath {
	b := make([]byte, len(full))
	copy(b, full)
	return compactPath{length: uint16(len(full)), bytes: b}
}

func (c compactPath) slice() []byte { return c.bytes[:c.length] }

// DirEntry is one filesystem entry discovered during traversal.
type DirEntry struct {
	path           compactPath
	filenameOffset uint16
	depth          int32
	typeTag        TypeTag
	inode          uint64
	followSymlinks bool
	meta           *Metadata
}

// New builds a DirEntry. fullPath is copied into the entry's own compact
// storage; filenameOffset is the byte offset of the filename within
// fullPath (0 for the search root itself).
func New(fullPath []byte, filenameOffset int, depth int32, typeTag TypeTag, inode uint64, followSymlinks bool) *DirEntry {
	return &DirEntry{
		path:           newCompactPath(fullPath),
		filenameOffset: uint16(filenameOffset),
		depth:          depth,
		typeTag:        typeTag,
		inode:          inode,
		followSymlinks: followSymlinks,
	}
}

// FileName returns the filename component of the entry.
func (d *DirEntry) FileName() []byte { return d.path.slice()[d.filenameOffset:] }

// FullPath returns the whole path of the entry, root through filename.
func (d *DirEntry) FullPath() []byte { return d.path.slice() }

// Depth is the count of path separators beyond the search root.
func (d *DirEntry) Depth() int32 { return d.depth }

// Inode is the 64-bit inode number as reported by the directory read.
func (d *DirEntry) Inode() uint64 { return d.inode }

// TypeTag returns the entry's currently-known type; it may be Unknown
// until EnsureMetadata is called.
func (d *DirEntry) TypeTag() TypeTag { return d.typeTag }

// Hidden reports whether the filename starts with '.'.
func (d *DirEntry) Hidden() bool {
	name := d.FileName()
	return len(name) > 0 && name[0] == '.'
}

// Extension returns the bytes after the last '.' in the filename. A
// filename starting with '.' and containing no other '.' has no
// extension, and a filename ending in '.' has no extension either -
// spec.md §9's deliberately chosen rule, locked by fs/dirent/dirent_test.go.
func (d *DirEntry) Extension() ([]byte, bool) {
	name := d.FileName()
	idx := bytes.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return nil, false
	}
	return name[idx+1:], true
}

// IsDir reports whether the entry is a directory, resolving metadata on
// demand if the kernel did not report a type.
func (d *DirEntry) IsDir() bool {
	if d.typeTag == Unknown {
		_, _ = d.EnsureMetadata()
	}
	return d.typeTag == Directory
}

// Metadata holds the subset of a stat result the filter pipeline and
// sink need, normalised across platforms by the stat_*.go files.
type Metadata struct {
	Mode    uint32
	Size    int64
	ModTime time.Time
	Dev     uint64
	Ino     uint64
	Nlink   uint64
	Uid     uint32
	Gid     uint32
}

// EnsureMetadata triggers a stat/lstat call if metadata isn't already
// cached, choosing lstat when symlinks aren't followed and stat when
// they are, per spec.md §4.2. The result is cached on the entry so
// metadata is only ever resolved once.
func (d *DirEntry) EnsureMetadata() (*Metadata, error) {
	if d.meta != nil {
		return d.meta, nil
	}
	m, err := statPath(string(d.FullPath()), d.followSymlinks)
	if err != nil {
		return nil, ioerror.NewStatError(string(d.FullPath()), err)
	}
	d.meta = &m
	d.typeTag = typeTagFromMode(m.Mode)
	return d.meta, nil
}

// CachedMetadata returns previously resolved metadata without
// triggering a stat call, or nil if none has been resolved yet.
func (d *DirEntry) CachedMetadata() *Metadata { return d.meta }
