package dirent

import (
	"bytes"
	"math/bits"
	"unsafe"
)

// LinuxDirentHeaderSize is the fixed header size of a Linux-family
// getdents64 record: d_ino(8) + d_off(8) + d_reclen(2) + d_type(1).
const LinuxDirentHeaderSize = 19

// nativeLittleEndian is resolved once at init so NameLen can pick the
// trailing- vs leading-zero-count variant spec.md §4.2 calls for,
// without importing a build-tag-specific endian package.
var nativeLittleEndian = func() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// haszero is the classic SWAR "does this word contain a zero byte"
// trick: nonzero iff v has at least one zero byte, with the result's
// nonzero bits landing in the high bit of each zero byte's position.
func haszero(v uint64) uint64 {
	const lo = 0x0101010101010101
	const hi = 0x8080808080808080
	return (v - lo) & ^v & hi
}

// NameLen returns the length of the NUL-terminated, 8-byte-alignment-
// padded name embedded in a raw Linux-family getdents64 record, without
// calling strlen: it inspects only the record's final 8 bytes (which
// always contain the terminator plus zero padding, since d_reclen is
// rounded up to a multiple of 8) and locates the first zero byte with a
// branchless SWAR scan. record is the full reclen-byte record including
// header and name; reclen is the kernel-reported record length.
func NameLen(record []byte, reclen int) int {
	if reclen < LinuxDirentHeaderSize+8 || reclen > len(record) {
		// Window would reach into the header itself - record too
		// short for the branchless path to stay inside the name
		// region. Fall back to a direct scan; this only happens for
		// the minimum 24-byte record, i.e. names of one to four bytes.
		return scanNameLen(record, reclen)
	}
	window := record[reclen-8 : reclen]
	var word uint64
	if nativeLittleEndian {
		word = uint64(window[0]) | uint64(window[1])<<8 | uint64(window[2])<<16 | uint64(window[3])<<24 |
			uint64(window[4])<<32 | uint64(window[5])<<40 | uint64(window[6])<<48 | uint64(window[7])<<56
	} else {
		word = uint64(window[7]) | uint64(window[6])<<8 | uint64(window[5])<<16 | uint64(window[4])<<24 |
			uint64(window[3])<<32 | uint64(window[2])<<40 | uint64(window[1])<<48 | uint64(window[0])<<56
	}
	mask := haszero(word)
	if mask == 0 {
		// reclen left no padding slack (name filled the record to its
		// 8-byte boundary exactly with only the NUL as the 8th byte
		// would already have set a bit - so this means the window
		// straddled into non-zero header bytes); scan instead.
		return scanNameLen(record, reclen)
	}
	// indexInWindow is the terminator's position counted from window[0].
	var indexInWindow int
	if nativeLittleEndian {
		indexInWindow = bits.TrailingZeros64(mask) / 8
	} else {
		indexInWindow = bits.LeadingZeros64(mask) / 8
	}
	terminatorOffset := (reclen - 8) + indexInWindow
	return terminatorOffset - LinuxDirentHeaderSize
}

// scanNameLen is the correctness fallback: an ordinary IndexByte scan
// bounded by reclen, used only when the record is too short for the
// constant-time window to be safe.
func scanNameLen(record []byte, reclen int) int {
	if reclen > len(record) {
		reclen = len(record)
	}
	nameStart := LinuxDirentHeaderSize
	if nameStart >= reclen {
		return 0
	}
	rel := bytes.IndexByte(record[nameStart:reclen], 0)
	if rel < 0 {
		return reclen - nameStart
	}
	return rel
}
