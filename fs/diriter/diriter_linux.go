//go:build linux

package diriter

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/ncw-find/gofind/fs/dirent"
	"github.com/ncw-find/gofind/fs/ioerror"
	"github.com/ncw-find/gofind/fs/pathbuf"
)

// DirIter enumerates one directory via raw getdents64, bypassing the
// per-entry lstat that package os performs on Linux when it needs file
// types. This is the Linux branch of spec.md §4.3; Illumos/Solaris
// share the same getdents64 record layout but aren't wired to this
// build tag since their golang.org/x/sys/unix bindings weren't
// available to verify against in this pack.
type DirIter struct {
	fd               int
	path             string
	buf              []byte
	validLen         int
	cursor           int
	parentDepth      int32
	state            State
	disableShortRead bool
	followSymlinks   bool
	closed           bool
}

// Open opens path as a directory and prepares to enumerate it.
// parentDepth is the depth of path itself (the depth assigned to its
// children will be parentDepth+1). bufSize<=0 selects DefaultBufSize.
func Open(path string, parentDepth int32, bufSize int, followSymlinks, disableShortRead bool) (*DirIter, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, ioerror.NewOpenError(path, err)
	}
	if bufSize <= 0 {
		bufSize = DefaultBufSize
	}
	return &DirIter{
		fd:               fd,
		path:             path,
		buf:              make([]byte, bufSize),
		parentDepth:      parentDepth,
		state:            Unread,
		followSymlinks:   followSymlinks,
		disableShortRead: disableShortRead || ShortReadUnsafe(path),
	}, nil
}

// State reports the iterator's current position in the state machine.
func (it *DirIter) State() State { return it.state }

// Close releases the directory file descriptor. Safe to call more than
// once; subsequent calls are no-ops. Guaranteed to run on every code
// path including errors, per spec.md §5's file-descriptor discipline.
func (it *DirIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return unix.Close(it.fd)
}

// typeTagFromDType maps the kernel's d_type byte to a dirent.TypeTag.
// DT_UNKNOWN (0) is reported as dirent.Unknown, deferring classification
// to an on-demand stat call as spec.md §4.2 requires.
func typeTagFromDType(dt byte) dirent.TypeTag {
	switch dt {
	case unix.DT_REG:
		return dirent.Regular
	case unix.DT_DIR:
		return dirent.Directory
	case unix.DT_LNK:
		return dirent.Symlink
	case unix.DT_BLK:
		return dirent.Block
	case unix.DT_CHR:
		return dirent.Char
	case unix.DT_FIFO:
		return dirent.Fifo
	case unix.DT_SOCK:
		return dirent.Socket
	default:
		return dirent.Unknown
	}
}

// Next returns the next entry, building its full path by pushing onto
// pb (the caller's shared per-worker PathBuffer) and popping it back
// off before returning, so DirEntry always owns an independent copy.
// Returns ErrExhausted once the directory is fully enumerated.
func (it *DirIter) Next(pb *pathbuf.PathBuffer) (*dirent.DirEntry, error) {
	for {
		if it.cursor >= it.validLen {
			if it.state == Exhausted {
				return nil, ErrExhausted
			}
			n, err := unix.Getdents(it.fd, it.buf)
			if err != nil {
				it.state = Exhausted
				return nil, ioerror.NewReadError(it.path, err)
			}
			if n == 0 {
				it.state = Exhausted
				return nil, ErrExhausted
			}
			it.validLen = n
			it.cursor = 0
			// Short-read termination: if the kernel returned fewer
			// bytes than the buffer can hold, there is no more data -
			// unless the optimisation is disabled for this mount (see
			// fs/diriter/fstype_linux.go).
			if n < len(it.buf) && !it.disableShortRead {
				it.state = Exhausted
			} else {
				it.state = HasBuffer
			}
		}

		record := it.buf[it.cursor:it.validLen]
		if len(record) < dirent.LinuxDirentHeaderSize {
			return nil, ioerror.NewReadError(it.path, errors.New("truncated record in getdents64 buffer"))
		}
		reclen := int(binary.LittleEndian.Uint16(record[16:18]))
		if reclen <= 0 || reclen > len(record) {
			return nil, ioerror.NewReadError(it.path, errors.New("corrupt reclen in getdents64 buffer"))
		}
		rec := record[:reclen]
		it.cursor += reclen

		nameLen := dirent.NameLen(rec, reclen)
		name := rec[dirent.LinuxDirentHeaderSize : dirent.LinuxDirentHeaderSize+nameLen]
		if isDotOrDotDot(name) {
			continue
		}

		ino := binary.LittleEndian.Uint64(rec[0:8])
		tag := typeTagFromDType(rec[18])

		prevLen, err := pb.PushChild(name)
		if err != nil {
			// Per-entry PathTooLong: skip this entry, keep iterating.
			continue
		}
		full := append([]byte(nil), pb.Bytes()...)
		pb.PopTo(prevLen)

		entry := dirent.New(full, len(full)-len(name), it.parentDepth+1, tag, ino, it.followSymlinks)
		return entry, nil
	}
}
