//go:build freebsd

package diriter

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/ncw-find/gofind/fs/dirent"
	"github.com/ncw-find/gofind/fs/ioerror"
	"github.com/ncw-find/gofind/fs/pathbuf"
)

// freebsdDirentHeaderSize covers the fixed fields of FreeBSD's 64-bit
// ino dirent: d_fileno(8) d_off(8) d_reclen(2) d_type(1) d_pad0(1)
// d_namlen(2) d_pad1(2). Unlike Linux, d_namlen is reported directly by
// the kernel, so no SWAR length extraction is needed (spec.md §4.3).
const freebsdDirentHeaderSize = 24

// DirIter enumerates one directory via getdirentries(2), the FreeBSD
// position-tracking entry call.
type DirIter struct {
	fd               int
	path             string
	buf              []byte
	validLen         int
	cursor           int
	basep            uintptr
	parentDepth      int32
	state            State
	disableShortRead bool
	followSymlinks   bool
	closed           bool
}

// Open opens path as a directory and prepares to enumerate it.
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
		disableShortRead: disableShortRead,
	}, nil
}

func (it *DirIter) State() State { return it.state }

func (it *DirIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return unix.Close(it.fd)
}

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

// Next returns the next entry. See diriter_linux.go's Next for the
// shared PathBuffer discipline.
func (it *DirIter) Next(pb *pathbuf.PathBuffer) (*dirent.DirEntry, error) {
	for {
		if it.cursor >= it.validLen {
			if it.state == Exhausted {
				return nil, ErrExhausted
			}
			n, err := unix.Getdirentries(it.fd, it.buf, &it.basep)
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
			if n < len(it.buf) && !it.disableShortRead {
				it.state = Exhausted
			} else {
				it.state = HasBuffer
			}
		}

		record := it.buf[it.cursor:it.validLen]
		if len(record) < freebsdDirentHeaderSize {
			return nil, ioerror.NewReadError(it.path, errors.New("truncated record in getdirentries buffer"))
		}
		reclen := int(binary.LittleEndian.Uint16(record[16:18]))
		if reclen <= 0 || reclen > len(record) {
			return nil, ioerror.NewReadError(it.path, errors.New("corrupt reclen in getdirentries buffer"))
		}
		dtype := record[18]
		namlen := int(binary.LittleEndian.Uint16(record[20:22]))
		rec := record[:reclen]
		it.cursor += reclen

		if namlen <= 0 || freebsdDirentHeaderSize+namlen > len(rec) {
			continue
		}
		name := rec[freebsdDirentHeaderSize : freebsdDirentHeaderSize+namlen]
		if isDotOrDotDot(name) {
			continue
		}

		ino := binary.LittleEndian.Uint64(rec[0:8])
		tag := typeTagFromDType(dtype)

		prevLen, err := pb.PushChild(name)
		if err != nil {
			continue
		}
		full := append([]byte(nil), pb.Bytes()...)
		pb.PopTo(prevLen)

		entry := dirent.New(full, len(full)-len(name), it.parentDepth+1, tag, ino, it.followSymlinks)
		return entry, nil
	}
}
