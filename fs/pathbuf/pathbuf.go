// Package pathbuf implements a stack-bounded byte buffer for composing
// filesystem paths without a heap allocation per visited entry.
package pathbuf

import (
	"github.com/pkg/errors"

	"github.com/ncw-find/gofind/fs/ioerror"
)

// MaxPath is the host path length limit. It matches unix.PathMax on every
// platform this module supports; kept here rather than importing
// golang.org/x/sys/unix so this package has no platform-specific build
// constraints of its own.
const MaxPath = 4096

// ErrPathTooLong is the sentinel wrapped inside every ioerror.PathTooLongError
// this package returns, so callers can still test for it with errors.Is
// without caring about the specific offending path.
var ErrPathTooLong = errors.New("path exceeds host path limit")

// PathBuffer is a fixed-capacity byte buffer holding the full byte
// representation of a path. It is not safe for concurrent use; callers
// give each traversal worker its own PathBuffer.
type PathBuffer struct {
	buf [MaxPath]byte
	len int
}

// New creates a PathBuffer seeded with initial. initial must fit within
// MaxPath-1 bytes (one byte is reserved for an on-demand null terminator).
func New(initial []byte) (*PathBuffer, error) {
	pb := &PathBuffer{}
	if len(initial) >= MaxPath {
		return nil, ioerror.NewPathTooLongError(string(initial), ErrPathTooLong)
	}
	copy(pb.buf[:], initial)
	pb.len = len(initial)
	return pb, nil
}

// Len returns the current length of the composed path.
func (p *PathBuffer) Len() int { return p.len }

// Reset reseeds the buffer with base, discarding whatever path it held
// before. A worker reuses one PathBuffer across many unrelated
// directory jobs via Reset instead of allocating a fresh buffer per job.
func (p *PathBuffer) Reset(base []byte) error {
	if len(base) >= MaxPath {
		return ioerror.NewPathTooLongError(string(base), ErrPathTooLong)
	}
	copy(p.buf[:], base)
	p.len = len(base)
	return nil
}

// Bytes returns the bytes of the path currently held. The slice aliases
// the buffer's backing array and is only valid until the next PushChild
// or PopTo call.
func (p *PathBuffer) Bytes() []byte { return p.buf[:p.len] }

// CString returns a NUL-terminated view of the current path suitable for
// passing to syscalls that expect a C string. The terminator is written
// at p.len and is overwritten by subsequent mutation, so callers must
// not hold on to the returned slice across another call.
func (p *PathBuffer) CString() []byte {
	if p.len >= MaxPath {
		// len is always <= MaxPath-1 by construction (see PushChild/New),
		// this branch exists only to document the invariant.
		panic("pathbuf: length invariant violated")
	}
	p.buf[p.len] = 0
	return p.buf[:p.len+1]
}

// PushChild appends "/" + name to the path (unless the buffer already
// ends in "/", e.g. for the root "/"), returning the previous length so
// the caller can restore it with PopTo. This is the only allocation-free
// way to descend into a child entry.
func (p *PathBuffer) PushChild(name []byte) (prevLen int, err error) {
	prevLen = p.len
	needSep := p.len == 0 || p.buf[p.len-1] != '/'
	extra := len(name)
	if needSep {
		extra++
	}
	if p.len+extra > MaxPath-1 {
		attempted := string(p.buf[:p.len]) + "/" + string(name)
		return prevLen, ioerror.NewPathTooLongError(attempted, ErrPathTooLong)
	}
	if needSep {
		p.buf[p.len] = '/'
		p.len++
	}
	copy(p.buf[p.len:], name)
	p.len += len(name)
	return prevLen, nil
}

// PopTo restores the buffer to a length previously returned by
// PushChild, implementing the stack discipline the hot path relies on.
func (p *PathBuffer) PopTo(prevLen int) {
	p.len = prevLen
}
