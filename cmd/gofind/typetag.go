package main

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ncw-find/gofind/fs/dirent"
)

// parseTypeFlags splits the raw --type values into the dirent.TypeTag
// set Filter.Config.Types consumes, plus the two derived predicates
// (empty, executable) spec.md §4.4 item 4 calls out as requiring
// resolved metadata rather than a kernel-reported type byte.
func parseTypeFlags(raw []string) (types map[dirent.TypeTag]bool, empty, executable bool, err error) {
	if len(raw) == 0 {
		return nil, false, false, nil
	}
	types = make(map[dirent.TypeTag]bool, len(raw))
	for _, t := range raw {
		switch strings.ToLower(t) {
		case "f", "file", "regular":
			types[dirent.Regular] = true
		case "d", "dir", "directory":
			types[dirent.Directory] = true
		case "l", "symlink":
			types[dirent.Symlink] = true
		case "b", "block":
			types[dirent.Block] = true
		case "c", "char":
			types[dirent.Char] = true
		case "p", "fifo", "pipe":
			types[dirent.Fifo] = true
		case "s", "socket":
			types[dirent.Socket] = true
		case "empty":
			empty = true
		case "x", "executable":
			executable = true
		default:
			return nil, false, false, errors.Errorf("unknown type %q", t)
		}
	}
	if len(types) == 0 {
		types = nil
	}
	return types, empty, executable, nil
}
