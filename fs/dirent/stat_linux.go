//go:build linux

package dirent

import (
	"time"

	"golang.org/x/sys/unix"
)

// statPath resolves metadata via a direct fstatat/lstat syscall,
// grounded on backend/local/metadata_linux.go's Fstatat fallback path
// (this module skips the statx() probe that file does, since statx's
// only advantage there - btime - isn't part of Metadata).
func statPath(path string, followSymlinks bool) (Metadata, error) {
	var st unix.Stat_t
	var err error
	if followSymlinks {
		err = unix.Stat(path, &st)
	} else {
		err = unix.Lstat(path, &st)
	}
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Mode:    st.Mode,
		Size:    st.Size,
		ModTime: time.Unix(st.Mtim.Sec, st.Mtim.Nsec),
		Dev:     uint64(st.Dev),
		Ino:     st.Ino,
		Nlink:   uint64(st.Nlink),
		Uid:     st.Uid,
		Gid:     st.Gid,
	}, nil
}
