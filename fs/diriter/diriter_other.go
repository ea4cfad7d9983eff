//go:build !linux && !freebsd && !darwin

package diriter

import (
	"io"
	"os"

	"github.com/ncw-find/gofind/fs/dirent"
	"github.com/ncw-find/gofind/fs/ioerror"
	"github.com/ncw-find/gofind/fs/pathbuf"
)

// DirIter is the portable fallback for OpenBSD/NetBSD/DragonflyBSD and
// any other platform without a direct raw-syscall binding wired up
// above: it wraps the standard directory-stream API (os.File.ReadDir),
// trading the constant-time record parsing for portability, exactly as
// spec.md §4.3 describes for "OpenBSD/NetBSD/other fallback".
//
// The short-read optimisation and the type byte from the raw record
// don't exist at this layer, so disableShortRead is accepted but
// unused, and each entry's type comes from os.DirEntry.Info (an lstat
// on most platforms); it is Unknown only when that call fails.
type DirIter struct {
	f              *os.File
	path           string
	pending        []os.DirEntry
	idx            int
	parentDepth    int32
	followSymlinks bool
	exhausted      bool
	closed         bool
	batchSize      int
}

// Open opens path as a directory for streaming enumeration.
func Open(path string, parentDepth int32, bufSize int, followSymlinks, disableShortRead bool) (*DirIter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioerror.NewOpenError(path, err)
	}
	batch := bufSize / 64
	if batch < 64 {
		batch = 64
	}
	return &DirIter{f: f, path: path, parentDepth: parentDepth, followSymlinks: followSymlinks, batchSize: batch}, nil
}

func (it *DirIter) State() State {
	switch {
	case it.exhausted:
		return Exhausted
	case it.idx < len(it.pending):
		return HasBuffer
	default:
		return Unread
	}
}

func (it *DirIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.f.Close()
}

func osModeToTag(m os.FileMode) dirent.TypeTag {
	switch {
	case m.IsDir():
		return dirent.Directory
	case m&os.ModeSymlink != 0:
		return dirent.Symlink
	case m&os.ModeNamedPipe != 0:
		return dirent.Fifo
	case m&os.ModeSocket != 0:
		return dirent.Socket
	case m&os.ModeDevice != 0:
		if m&os.ModeCharDevice != 0 {
			return dirent.Char
		}
		return dirent.Block
	case m.IsRegular():
		return dirent.Regular
	default:
		return dirent.Unknown
	}
}

// Next returns the next entry.
func (it *DirIter) Next(pb *pathbuf.PathBuffer) (*dirent.DirEntry, error) {
	for {
		if it.idx >= len(it.pending) {
			if it.exhausted {
				return nil, ErrExhausted
			}
			batch, err := it.f.ReadDir(it.batchSize)
			if err != nil && err != io.EOF {
				it.exhausted = true
				return nil, ioerror.NewReadError(it.path, err)
			}
			if len(batch) == 0 {
				it.exhausted = true
				return nil, ErrExhausted
			}
			it.pending = batch
			it.idx = 0
		}

		ent := it.pending[it.idx]
		it.idx++
		name := []byte(ent.Name())
		if isDotOrDotDot(name) {
			continue
		}

		info, err := ent.Info()
		var tag dirent.TypeTag
		if err == nil {
			tag = osModeToTag(info.Mode())
		}

		prevLen, err := pb.PushChild(name)
		if err != nil {
			continue
		}
		full := append([]byte(nil), pb.Bytes()...)
		pb.PopTo(prevLen)

		entry := dirent.New(full, len(full)-len(name), it.parentDepth+1, tag, 0, it.followSymlinks)
		return entry, nil
	}
}
