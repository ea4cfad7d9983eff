package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncw-find/gofind/fs/dirent"
)

func TestParseTypeFlagsEmpty(t *testing.T) {
	types, empty, exec, err := parseTypeFlags(nil)
	require.NoError(t, err)
	assert.Nil(t, types)
	assert.False(t, empty)
	assert.False(t, exec)
}

func TestParseTypeFlagsMixesKernelTypesAndDerived(t *testing.T) {
	types, empty, exec, err := parseTypeFlags([]string{"f", "d", "empty", "x"})
	require.NoError(t, err)
	assert.True(t, types[dirent.Regular])
	assert.True(t, types[dirent.Directory])
	assert.True(t, empty)
	assert.True(t, exec)
}

func TestParseTypeFlagsAcceptsLongNamesCaseInsensitively(t *testing.T) {
	types, _, _, err := parseTypeFlags([]string{"Symlink", "SOCKET"})
	require.NoError(t, err)
	assert.True(t, types[dirent.Symlink])
	assert.True(t, types[dirent.Socket])
}

func TestParseTypeFlagsRejectsUnknown(t *testing.T) {
	_, _, _, err := parseTypeFlags([]string{"bogus"})
	require.Error(t, err)
}
