// Package visited implements the VisitedSet module of spec.md §4.6: a
// concurrent set of (device, inode) pairs used to detect symlink cycles
// during traversal when follow_symlinks is enabled. It is sharded the
// way rclone's backend/local parallel stat cache shards work, trading a
// single global mutex for many small ones so concurrent workers rarely
// contend on the same shard.
package visited

import (
	"hash/fnv"
	"sync"
)

// shardCount is a power of two so the shard index can be taken with a
// bitmask instead of a modulo.
const shardCount = 16

type key struct {
	dev uint64
	ino uint64
}

type shard struct {
	mu   sync.Mutex
	seen map[key]struct{}
}

// Set is a concurrent (device, inode) membership set. The zero value is
// not usable; construct with New.
type Set struct {
	shards [shardCount]*shard
}

// New returns an empty Set ready for concurrent use.
func New() *Set {
	s := &Set{}
	for i := range s.shards {
		s.shards[i] = &shard{seen: make(map[key]struct{})}
	}
	return s
}

func shardIndex(dev, ino uint64) uint64 {
	h := fnv.New64a()
	var buf [16]byte
	buf[0] = byte(dev)
	buf[1] = byte(dev >> 8)
	buf[2] = byte(dev >> 16)
	buf[3] = byte(dev >> 24)
	buf[4] = byte(dev >> 32)
	buf[5] = byte(dev >> 40)
	buf[6] = byte(dev >> 48)
	buf[7] = byte(dev >> 56)
	buf[8] = byte(ino)
	buf[9] = byte(ino >> 8)
	buf[10] = byte(ino >> 16)
	buf[11] = byte(ino >> 24)
	buf[12] = byte(ino >> 32)
	buf[13] = byte(ino >> 40)
	buf[14] = byte(ino >> 48)
	buf[15] = byte(ino >> 56)
	h.Write(buf[:])
	return h.Sum64() & (shardCount - 1)
}

// InsertIfNew records (dev, ino) and reports whether it was not already
// present. A traversal worker following a symlink should skip descending
// further when InsertIfNew returns false - the target has already been
// visited by this run, and descending again would cycle.
func (s *Set) InsertIfNew(dev, ino uint64) bool {
	sh := s.shards[shardIndex(dev, ino)]
	k := key{dev: dev, ino: ino}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.seen[k]; ok {
		return false
	}
	sh.seen[k] = struct{}{}
	return true
}

// Contains reports whether (dev, ino) has already been recorded, without
// inserting it.
func (s *Set) Contains(dev, ino uint64) bool {
	sh := s.shards[shardIndex(dev, ino)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, ok := sh.seen[key{dev: dev, ino: ino}]
	return ok
}

// Len returns the total number of recorded (device, inode) pairs across
// all shards. Intended for tests and diagnostics, not the hot path.
func (s *Set) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.seen)
		sh.mu.Unlock()
	}
	return n
}
