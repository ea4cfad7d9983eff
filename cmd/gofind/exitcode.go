package main

import gofind "github.com/ncw-find/gofind/fs"

// Exit codes per spec.md §6: 0 = completed with a match, 1 = completed
// with zero matches, 2 = invalid arguments, 3 = traversal aborted by
// an unrecoverable error.
const (
	exitOK           = 0
	exitNoMatches    = 1
	exitInvalidArgs  = 2
	exitAbortedError = 3
)

// exitError carries an exit code alongside an optional error to print.
// err is nil for the "completed, zero matches" case, which is not a
// failure worth logging, just a different outcome.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func newExitError(code int, err error) *exitError {
	return &exitError{code: code, err: err}
}

// exitCodeForError maps any error RunE can return to a host exit code.
// A *gofind.InvalidConfigError always maps to exitInvalidArgs regardless
// of where it surfaced, since it is detected before any I/O begins.
func exitCodeForError(err error) int {
	if err == nil {
		return exitOK
	}
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	if _, ok := err.(*gofind.InvalidConfigError); ok {
		return exitInvalidArgs
	}
	return exitAbortedError
}
