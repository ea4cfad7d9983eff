// Package sink implements the two output consumers of spec.md §4.7:
// Streaming, a line-buffered writer emitting matches as the
// TraversalScheduler finds them, and Collecting, an in-memory
// accumulator for callers that need every result before acting (e.g.
// --sort). Both satisfy walk.Sink's single Emit method.
package sink

import (
	"bufio"
	"io"
	"sort"
	"sync"

	"github.com/mattn/go-colorable"

	"github.com/ncw-find/gofind/fs/colour"
	"github.com/ncw-find/gofind/fs/dirent"
)

// Separator is the terminator written after each streamed path. NUL
// (the find -print0 convention) lets consumers pipe results through
// xargs -0 without ambiguity from filenames containing newlines.
const (
	SeparatorNewline byte = '\n'
	SeparatorNUL     byte = 0
)

// Streaming writes each matched entry to an underlying writer as soon
// as it is emitted, flushing after every write so a consumer reading
// the other end of a pipe sees results incrementally rather than only
// at process exit. Safe for concurrent Emit calls from multiple
// TraversalScheduler workers.
type Streaming struct {
	mu        sync.Mutex
	w         *bufio.Writer
	sep       byte
	colourise bool
	count     int64
}

// NewStreaming wraps w. sep should be SeparatorNewline or SeparatorNUL.
func NewStreaming(w io.Writer, sep byte, colourise bool) *Streaming {
	return &Streaming{w: bufio.NewWriter(w), sep: sep, colourise: colourise}
}

// NewStdoutStreaming wraps os.Stdout through go-colorable so ANSI
// escapes degrade gracefully on terminals that don't understand them,
// the way the teacher keeps its own coloured command output portable.
func NewStdoutStreaming(sep byte, colourise bool) *Streaming {
	return NewStreaming(colorable.NewColorableStdout(), sep, colourise)
}

// Emit writes entry's path followed by the configured separator.
func (s *Streaming) Emit(entry *dirent.DirEntry) error {
	line := renderPath(entry, s.colourise)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(line); err != nil {
		return err
	}
	if err := s.w.WriteByte(s.sep); err != nil {
		return err
	}
	s.count++
	return s.w.Flush()
}

// EmittedCount returns how many entries have been written so far.
func (s *Streaming) EmittedCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Collecting accumulates every emitted entry's path in memory instead
// of writing it out, for callers that need the full result set before
// producing output (spec.md's sort=true case, or a library caller that
// wants a []string rather than a stream).
type Collecting struct {
	mu        sync.Mutex
	paths     []string
	colourise bool
}

// NewCollecting builds an empty Collecting sink.
func NewCollecting(colourise bool) *Collecting {
	return &Collecting{colourise: colourise}
}

// Emit records entry's path.
func (c *Collecting) Emit(entry *dirent.DirEntry) error {
	line := string(renderPath(entry, c.colourise))
	c.mu.Lock()
	c.paths = append(c.paths, line)
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries collected so far.
func (c *Collecting) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

// Results returns every collected path. sorted requests a
// lexicographic sort before returning; traversal order is otherwise
// whatever order workers happened to emit in, which is not
// deterministic across runs.
func (c *Collecting) Results(sorted bool) []string {
	c.mu.Lock()
	out := make([]string, len(c.paths))
	copy(out, c.paths)
	c.mu.Unlock()
	if sorted {
		sort.Strings(out)
	}
	return out
}

// WriteTo streams the collected results (optionally sorted) to w,
// separated by sep, for a caller that wants Collecting's ordering
// guarantees but Streaming's output shape.
func (c *Collecting) WriteTo(w io.Writer, sep byte, sorted bool) error {
	bw := bufio.NewWriter(w)
	for _, p := range c.Results(sorted) {
		if _, err := bw.WriteString(p); err != nil {
			return err
		}
		if err := bw.WriteByte(sep); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// renderPath formats entry's full path, wrapping it in an ANSI colour
// run keyed off its type or extension when colourise is set.
func renderPath(entry *dirent.DirEntry, colourise bool) []byte {
	path := entry.FullPath()
	if !colourise {
		return path
	}

	code := colourCode(entry)
	if code == "" {
		return path
	}
	out := make([]byte, len(path))
	copy(out, path)
	return colour.Wrap(out, code)
}

func colourCode(entry *dirent.DirEntry) string {
	switch entry.TypeTag() {
	case dirent.Directory:
		return colour.Directory
	case dirent.Symlink:
		return colour.Symlink
	}

	if meta := entry.CachedMetadata(); meta != nil && meta.Mode&0o111 != 0 {
		return colour.Executable
	}

	if ext, ok := entry.Extension(); ok {
		return colour.ForExtension(ext)
	}
	return ""
}
