// Package fs hosts the shared configuration record and error taxonomy
// used across gofind's core packages (fs/filter, fs/walk, fs/sink) and
// bound to flags by cmd/gofind. The per-entry I/O taxonomy itself
// (PathTooLongError, OpenError, ReadError, StatError) lives one layer
// down in fs/ioerror, constructed at the real point of origin in
// fs/pathbuf, fs/dirent and fs/diriter; this package re-exports it so
// callers of the fs package never need to import fs/ioerror directly.
package fs

import (
	"github.com/pkg/errors"

	"github.com/ncw-find/gofind/fs/ioerror"
)

// ErrInterrupted reports a traversal cancelled through its context -
// by the caller, or by a signal the host CLI turned into a context
// cancellation. Scheduler.Run returns the context's error in that
// case, and cmd/gofind reports it as ErrInterrupted. It is fatal to the
// traversal but not to the process, per spec.md §7.
var ErrInterrupted = errors.New("gofind: traversal interrupted")

// PathTooLongError, OpenError, ReadError and StatError are aliases for
// their fs/ioerror definitions, where they are actually constructed.
type (
	PathTooLongError = ioerror.PathTooLongError
	OpenError        = ioerror.OpenError
	ReadError        = ioerror.ReadError
	StatError        = ioerror.StatError
)

// InvalidConfigError reports a contradictory or unsupported
// combination of Config options, detected and returned before any I/O
// begins.
type InvalidConfigError struct {
	Reason string
}

func (e *InvalidConfigError) Error() string { return "invalid config: " + e.Reason }

// NewInvalidConfigError builds an InvalidConfigError with reason.
func NewInvalidConfigError(reason string) *InvalidConfigError {
	return &InvalidConfigError{Reason: reason}
}

// IsPerEntryError reports whether err is one of the per-entry I/O kinds
// spec.md §7 says must be locally recovered rather than aborting the
// whole traversal: OpenError, ReadError, StatError, or a
// PathTooLongError for a single offending entry.
func IsPerEntryError(err error) bool {
	return ioerror.IsPerEntryError(err)
}
