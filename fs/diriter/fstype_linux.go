//go:build linux

package diriter

import (
	"golang.org/x/sync/singleflight"
	"golang.org/x/sys/unix"
)

// Magic numbers for filesystem types known to break the short-read
// termination invariant (spec.md §9 open question #1: "observation on
// a CIFS server"). NFS and 9p are included defensively since they share
// the same class of problem (a short read doesn't guarantee no more
// entries remain once the client's attribute cache is involved).
const (
	magicNFS      = 0x6969
	magicSMB      = 0x517B
	magicCIFS     = 0xFF534D42
	magicSMB2     = 0xFE534D42
	magicFUSE     = 0x65735546
	magicPlan9FS  = 0x01021997
)

var denyList = map[int64]bool{
	magicNFS:     true,
	magicSMB:     true,
	magicCIFS:    true,
	magicSMB2:    true,
	magicFUSE:    true,
	magicPlan9FS: true,
}

var mountTypeGroup singleflight.Group

// ShortReadUnsafe reports whether the filesystem backing path is known
// to misbehave under the short-read termination optimisation. Concurrent
// lookups for the same path share one statfs call through singleflight;
// results are not cached, and different paths (sibling directories on
// the same mount included) each issue their own statfs.
func ShortReadUnsafe(path string) bool {
	v, _, _ := mountTypeGroup.Do(path, func() (interface{}, error) {
		var st unix.Statfs_t
		if err := unix.Statfs(path, &st); err != nil {
			// Unknown filesystem: fail safe by disabling the
			// optimisation rather than risking a truncated listing.
			return true, nil
		}
		return denyList[int64(st.Type)], nil
	})
	unsafe, _ := v.(bool)
	return unsafe
}
