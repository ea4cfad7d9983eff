// Package ioerror is the taxonomy of per-entry I/O failures a
// traversal can hit: a path too long for the host limit, a directory
// that refuses to open, a read that fails mid-enumeration, or a stat
// that fails on demand. It is a leaf package (no dependency on
// fs/pathbuf, fs/dirent or fs/diriter) precisely so each of those
// packages can construct these errors at their own point of origin
// without an import cycle back up through fs/walk.
package ioerror

import "github.com/pkg/errors"

// PathTooLongError reports an entry whose path would exceed the host
// path limit (fs/pathbuf.MaxPath). Recovered per-entry: the offending
// subtree is skipped and traversal continues.
type PathTooLongError struct {
	Path string
	err  error
}

func (e *PathTooLongError) Error() string { return "path too long: " + e.Path }
func (e *PathTooLongError) Unwrap() error { return e.err }

// NewPathTooLongError wraps cause as a PathTooLongError for path.
func NewPathTooLongError(path string, cause error) *PathTooLongError {
	return &PathTooLongError{Path: path, err: errors.Wrapf(cause, "path %s exceeds host limit", path)}
}

// OpenError reports a failed attempt to open a directory for reading
// (permission denied, not found, too many open file descriptors).
type OpenError struct {
	Path string
	err  error
}

func (e *OpenError) Error() string { return "open failed: " + e.Path }
func (e *OpenError) Unwrap() error { return e.err }

// NewOpenError wraps cause as an OpenError for path.
func NewOpenError(path string, cause error) *OpenError {
	return &OpenError{Path: path, err: errors.Wrapf(cause, "open %s", path)}
}

// ReadError reports a directory-enumeration syscall that failed mid
// iteration, after the directory was successfully opened.
type ReadError struct {
	Path string
	err  error
}

func (e *ReadError) Error() string { return "read failed: " + e.Path }
func (e *ReadError) Unwrap() error { return e.err }

// NewReadError wraps cause as a ReadError for path.
func NewReadError(path string, cause error) *ReadError {
	return &ReadError{Path: path, err: errors.Wrapf(cause, "read %s", path)}
}

// StatError reports a failed on-demand metadata resolution
// (EnsureMetadata's underlying stat/lstat call).
type StatError struct {
	Path string
	err  error
}

func (e *StatError) Error() string { return "stat failed: " + e.Path }
func (e *StatError) Unwrap() error { return e.err }

// NewStatError wraps cause as a StatError for path.
func NewStatError(path string, cause error) *StatError {
	return &StatError{Path: path, err: errors.Wrapf(cause, "stat %s", path)}
}

// IsPerEntryError reports whether err is one of the four kinds above -
// the ones spec.md §7 says must be locally recovered (logged, offending
// entry or subtree skipped) rather than aborting the whole traversal.
func IsPerEntryError(err error) bool {
	switch err.(type) {
	case *OpenError, *ReadError, *StatError, *PathTooLongError:
		return true
	default:
		return false
	}
}
