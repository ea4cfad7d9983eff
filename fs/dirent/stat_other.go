//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package dirent

import "os"

// statPath is the portable fallback for platforms without a direct
// golang.org/x/sys/unix Stat_t binding wired up here (spec.md §4.3's
// "portable directory-stream API" fallback extends naturally to stat
// as well). It loses Dev/Ino/Uid/Gid precision, which only matters to
// VisitedSet and same_filesystem - both already no-ops off the
// fast-path platforms per spec.md's Non-goals around Windows semantics.
func statPath(path string, followSymlinks bool) (Metadata, error) {
	var fi os.FileInfo
	var err error
	if followSymlinks {
		fi, err = os.Stat(path)
	} else {
		fi, err = os.Lstat(path)
	}
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Mode:    posixModeFromFileMode(fi.Mode()),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

// posixModeFromFileMode re-encodes Go's portable os.FileMode bits into
// the POSIX S_IFMT nibble typeTagFromMode expects, so the fallback path
// still reports a usable TypeTag.
func posixModeFromFileMode(m os.FileMode) uint32 {
	perm := uint32(m.Perm())
	switch {
	case m.IsDir():
		return perm | modeDir
	case m&os.ModeSymlink != 0:
		return perm | modeSymlink
	case m&os.ModeNamedPipe != 0:
		return perm | modeFifo
	case m&os.ModeSocket != 0:
		return perm | modeSocket
	case m&os.ModeDevice != 0:
		if m&os.ModeCharDevice != 0 {
			return perm | modeChar
		}
		return perm | modeBlock
	default:
		return perm | modeRegular
	}
}
