// Package diriter enumerates a single open directory file descriptor,
// dispatching to the cheapest syscall available on the host platform
// per spec.md §4.3, and yields fs/dirent.DirEntry values without going
// through the stdlib's per-entry-stat directory iteration.
package diriter

import "github.com/pkg/errors"

// DefaultBufSize is the default size of the kernel read buffer, tunable
// per spec.md §3 DirIter state.
const DefaultBufSize = 32 * 1024

// State is the DirIter state machine named in spec.md §4.8.
type State uint8

const (
	// Unread: no enumerate syscall has been issued yet.
	Unread State = iota
	// HasBuffer: records remain in the current kernel buffer and a
	// further enumerate syscall may follow once it is drained.
	HasBuffer
	// Exhausted: terminal; no further enumerate syscall will be issued.
	// After a short read the state is already Exhausted while records
	// from that last buffer are still being returned by Next.
	Exhausted
)

// ErrExhausted is returned by Next once the directory has been fully
// enumerated. It is a sentinel, not a failure: callers should treat it
// the same way as io.EOF.
var ErrExhausted = errors.New("diriter: exhausted")

func isDotOrDotDot(name []byte) bool {
	return len(name) == 1 && name[0] == '.' || len(name) == 2 && name[0] == '.' && name[1] == '.'
}
