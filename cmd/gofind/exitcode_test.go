package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	gofind "github.com/ncw-find/gofind/fs"
)

func TestExitCodeForErrorNil(t *testing.T) {
	assert.Equal(t, exitOK, exitCodeForError(nil))
}

func TestExitCodeForErrorExitError(t *testing.T) {
	assert.Equal(t, exitNoMatches, exitCodeForError(newExitError(exitNoMatches, nil)))
	assert.Equal(t, exitAbortedError, exitCodeForError(newExitError(exitAbortedError, assert.AnError)))
}

func TestExitCodeForErrorInvalidConfig(t *testing.T) {
	err := gofind.NewInvalidConfigError("bad")
	assert.Equal(t, exitInvalidArgs, exitCodeForError(err))
}

func TestExitCodeForErrorUnknownDefaultsToAborted(t *testing.T) {
	assert.Equal(t, exitAbortedError, exitCodeForError(assert.AnError))
}

func TestExitErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	e := newExitError(exitAbortedError, inner)
	assert.Equal(t, inner, e.Unwrap())
}

func TestExitErrorNoMatchesHasEmptyMessage(t *testing.T) {
	e := newExitError(exitNoMatches, nil)
	assert.Equal(t, "", e.Error())
}
