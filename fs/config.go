package fs

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ncw-find/gofind/fs/dirent"
	"github.com/ncw-find/gofind/fs/filter"
	"github.com/ncw-find/gofind/fs/match"
	"github.com/ncw-find/gofind/fs/sink"
	"github.com/ncw-find/gofind/fs/walk"
)

// Config is the single configuration record spec.md §6 enumerates.
// cmd/gofind populates one of these from pflag/cobra (and optionally a
// YAML overlay) and translates it into a filter.Config/walk.Config
// pair plus a chosen fs/sink implementation; the core packages never
// see this struct directly, matching spec.md §1's boundary between
// the core engine and its external collaborators.
type Config struct {
	RootPaths []string

	Pattern     string
	PatternKind match.Kind
	MatchTarget filter.MatchTarget

	CaseSensitive              bool
	IncludeHidden              bool
	IncludeDirectoriesInOutput bool
	FollowSymlinks             bool
	SameFilesystem             bool

	MaxDepth   int32 // negative means unset/unlimited
	MaxResults int64 // zero means unset/unlimited

	Types      map[dirent.TypeTag]bool
	Empty      bool
	Executable bool
	Extensions []string

	Size *filter.SizeFilter
	Time *filter.TimeFilter

	Threads int

	OutputSeparator byte // sink.SeparatorNewline or sink.SeparatorNUL; the host CLI must set this explicitly, the zero value is NUL
	Colouring       bool
	Sort            bool
	Absolute        bool
	ShowErrors      bool

	DirIterBufSize               int
	DisableShortReadOptimisation bool
}

// Validate rejects contradictory or unsupported option combinations
// before any I/O begins, per spec.md §7's InvalidConfig handling.
func (c *Config) Validate() error {
	if len(c.RootPaths) == 0 {
		return NewInvalidConfigError("at least one root path is required")
	}
	if c.MaxResults < 0 {
		return NewInvalidConfigError("max_results must be non-negative")
	}
	if c.Threads < 0 {
		return NewInvalidConfigError("threads must be non-negative")
	}
	if c.OutputSeparator != sink.SeparatorNewline && c.OutputSeparator != sink.SeparatorNUL {
		return NewInvalidConfigError("output_separator must be newline or NUL")
	}
	return nil
}

// ResolveRootPaths canonicalises RootPaths in place when Absolute is
// set: filepath.Abs always, plus filepath.EvalSymlinks only when
// FollowSymlinks is also set, since resolving symlinks in a root path
// the config asked not to follow would silently dereference them
// anyway.
func (c *Config) ResolveRootPaths() error {
	if !c.Absolute {
		return nil
	}
	resolved := make([]string, len(c.RootPaths))
	for i, root := range c.RootPaths {
		abs, err := filepath.Abs(root)
		if err != nil {
			return errors.Wrapf(err, "resolving absolute path for %s", root)
		}
		if c.FollowSymlinks {
			real, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return errors.Wrapf(err, "resolving symlinks for %s", abs)
			}
			abs = real
		}
		resolved[i] = abs
	}
	c.RootPaths = resolved
	return nil
}

// BuildMatcher compiles Pattern/PatternKind/CaseSensitive into a
// match.Matcher, or returns (nil, nil) if Pattern is empty (meaning
// "match everything", the name predicate's neutral element).
func (c *Config) BuildMatcher() (match.Matcher, error) {
	if c.Pattern == "" {
		return nil, nil
	}
	return match.New(c.PatternKind, c.Pattern, c.CaseSensitive)
}

// FilterConfig translates the parts of Config the Filter pipeline
// consumes into a filter.Config.
func (c *Config) FilterConfig() (filter.Config, error) {
	m, err := c.BuildMatcher()
	if err != nil {
		return filter.Config{}, errors.Wrap(err, "compiling name pattern")
	}

	maxDepth := int32(-1)
	if c.MaxDepth >= 0 {
		maxDepth = c.MaxDepth
	}

	var extensions map[string]bool
	if len(c.Extensions) > 0 {
		extensions = make(map[string]bool, len(c.Extensions))
		for _, ext := range c.Extensions {
			extensions[lowerASCII(ext)] = true
		}
	}

	return filter.Config{
		IncludeHidden: c.IncludeHidden,
		MaxDepth:      maxDepth,
		Extensions:    extensions,
		Types:         c.Types,
		RequireEmpty:  c.Empty,
		RequireExec:   c.Executable,
		Name:          m,
		Target:        c.MatchTarget,
		Size:          c.Size,
		Time:          c.Time,
	}, nil
}

// WalkConfig translates the parts of Config the TraversalScheduler
// consumes into a walk.Config.
func (c *Config) WalkConfig() walk.Config {
	threads := c.Threads
	if threads <= 0 {
		threads = 1
	}
	maxDepth := int32(-1)
	if c.MaxDepth >= 0 {
		maxDepth = c.MaxDepth
	}
	return walk.Config{
		Threads:                      threads,
		FollowSymlinks:               c.FollowSymlinks,
		SameFilesystem:               c.SameFilesystem,
		IncludeHidden:                c.IncludeHidden,
		MaxDepth:                     maxDepth,
		MaxResults:                   c.MaxResults,
		IncludeDirectoriesInOutput:   c.IncludeDirectoriesInOutput,
		DirIterBufSize:               c.DirIterBufSize,
		DisableShortReadOptimisation: c.DisableShortReadOptimisation,
	}
}

// BuildSink constructs the Sink Config.Sort and Config.Colouring call
// for: Collecting when Sort is set (results must be gathered before
// they can be ordered), Streaming to stdout otherwise.
func (c *Config) BuildSink() walk.Sink {
	if c.Sort {
		return sink.NewCollecting(c.Colouring)
	}
	return sink.NewStdoutStreaming(c.OutputSeparator, c.Colouring)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
