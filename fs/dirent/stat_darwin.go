//go:build darwin

package dirent

import (
	"time"

	"golang.org/x/sys/unix"
)

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
		Mode:    uint32(st.Mode),
		Size:    st.Size,
		ModTime: time.Unix(st.Mtimespec.Sec, st.Mtimespec.Nsec),
		Dev:     uint64(st.Dev),
		Ino:     st.Ino,
		Nlink:   uint64(st.Nlink),
		Uid:     st.Uid,
		Gid:     st.Gid,
	}, nil
}
