package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	gofind "github.com/ncw-find/gofind/fs"
	"github.com/ncw-find/gofind/fs/filter"
	"github.com/ncw-find/gofind/fs/log"
	"github.com/ncw-find/gofind/fs/match"
	"github.com/ncw-find/gofind/fs/sink"
	"github.com/ncw-find/gofind/fs/visited"
	"github.com/ncw-find/gofind/fs/walk"
)

// cliFlags mirrors spec.md §6's option table one field per flag,
// before translation into fs.Config; pflag populates this directly via
// the flag set the way the teacher's backend commands read flags off
// *cobra.Command.Flags() into local variables.
type cliFlags struct {
	configFile string

	glob          bool
	regex         bool
	fixedString   bool
	caseSensitive bool
	fullPath      bool

	hidden      bool
	dirs        bool
	follow      bool
	sameFS      bool
	absolute    bool
	showErrors  bool
	sortResults bool
	print0      bool
	noColour    bool

	maxDepth   int32
	maxResults int64
	threads    int

	types      []string
	extensions []string
	size       string
	newer      string
	older      string
}

func newRootCommand() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "gofind [pattern] [path...]",
		Short: "Search a POSIX directory tree in parallel",
		Long: `gofind walks one or more directory trees concurrently, matching
each entry's name (or full path) against a pattern, and streams the
paths that survive a short-circuiting filter pipeline to stdout.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, flags, args)
		},
	}

	registerFlags(cmd.Flags(), flags)
	return cmd
}

func registerFlags(fl *pflag.FlagSet, c *cliFlags) {
	fl.StringVar(&c.configFile, "config-file", "", "load a Config overlay from this YAML file")

	fl.BoolVarP(&c.glob, "glob", "g", false, "treat pattern as a glob (default: regex)")
	fl.BoolVarP(&c.regex, "regex", "r", false, "treat pattern as a regex (default)")
	fl.BoolVarP(&c.fixedString, "fixed-strings", "F", false, "treat pattern as a literal substring")
	fl.BoolVarP(&c.caseSensitive, "case-sensitive", "s", false, "case-sensitive matching (default: insensitive)")
	fl.BoolVarP(&c.fullPath, "full-path", "p", false, "match pattern against the full path, not just the filename")

	fl.BoolVarP(&c.hidden, "hidden", "H", false, "include hidden files and directories")
	fl.BoolVar(&c.dirs, "dirs", false, "include directories themselves in the output")
	fl.BoolVarP(&c.follow, "follow", "L", false, "follow symbolic links")
	fl.BoolVar(&c.sameFS, "same-file-system", false, "don't descend into other filesystems")
	fl.BoolVarP(&c.absolute, "absolute-path", "a", false, "print absolute, canonicalised paths")
	fl.BoolVar(&c.showErrors, "show-errors", false, "print per-entry I/O errors to stderr")
	fl.BoolVar(&c.sortResults, "sort", false, "sort output lexicographically (buffers all results)")
	fl.BoolVar(&c.print0, "print0", false, "separate results by NUL instead of newline")
	fl.BoolVar(&c.noColour, "no-color", false, "disable coloured output")

	fl.Int32VarP(&c.maxDepth, "max-depth", "d", -1, "maximum directory depth to descend (root's children are depth 0)")
	fl.Int64Var(&c.maxResults, "max-results", 0, "stop after this many matches (0 = unlimited)")
	fl.IntVarP(&c.threads, "threads", "j", runtime.NumCPU(), "number of worker threads")

	fl.StringSliceVarP(&c.types, "type", "t", nil, "restrict to type(s): f,d,l,b,c,p,s,empty,executable")
	fl.StringSliceVarP(&c.extensions, "extension", "e", nil, "restrict to file extension(s)")
	fl.StringVarP(&c.size, "size", "S", "", "restrict by size, e.g. +1M, -500k, 10g")
	fl.StringVar(&c.newer, "newer", "", "restrict to entries modified within this long ago, e.g. 2h, 1d")
	fl.StringVar(&c.older, "older", "", "restrict to entries modified longer ago than this")
}

func runSearch(cmd *cobra.Command, flags *cliFlags, args []string) error {
	cfg, err := buildConfig(flags, args, time.Now())
	if err != nil {
		return newExitError(exitInvalidArgs, err)
	}
	if flags.configFile != "" {
		if err := applyConfigFileOverlay(cfg, flags.configFile); err != nil {
			return newExitError(exitInvalidArgs, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return newExitError(exitInvalidArgs, err)
	}
	if err := cfg.ResolveRootPaths(); err != nil {
		return newExitError(exitAbortedError, err)
	}

	filterCfg, err := cfg.FilterConfig()
	if err != nil {
		return newExitError(exitInvalidArgs, err)
	}

	logger := buildLogger(cfg)
	f := filter.New(filterCfg)
	walkCfg := cfg.WalkConfig()
	outputSink := cfg.BuildSink()
	scheduler := walk.New(walkCfg, f, outputSink, visited.New(), logger)

	ctx, cancel := signalContext()
	defer cancel()

	runErr := scheduler.Run(ctx, cfg.RootPaths)

	if collecting, ok := outputSink.(*sink.Collecting); ok {
		if writeErr := collecting.WriteTo(os.Stdout, cfg.OutputSeparator, cfg.Sort); writeErr != nil {
			return newExitError(exitAbortedError, writeErr)
		}
		if runErr != nil {
			return newExitError(exitAbortedError, errors.Wrap(runErr, "traversal failed"))
		}
		if collecting.Len() == 0 {
			return newExitError(exitNoMatches, nil)
		}
		return nil
	}

	if runErr != nil {
		if stderrors.Is(runErr, context.Canceled) {
			return newExitError(exitAbortedError, gofind.ErrInterrupted)
		}
		return newExitError(exitAbortedError, errors.Wrap(runErr, "traversal failed"))
	}

	streaming := outputSink.(*sink.Streaming)
	if streaming.EmittedCount() == 0 {
		return newExitError(exitNoMatches, nil)
	}
	return nil
}

func buildConfig(flags *cliFlags, args []string, now time.Time) (*gofind.Config, error) {
	pattern := ""
	roots := args
	if len(args) > 0 {
		pattern = args[0]
		roots = args[1:]
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}

	kind := match.Regex
	switch {
	case flags.glob:
		kind = match.Glob
	case flags.fixedString:
		kind = match.FixedString
	case flags.regex:
		kind = match.Regex
	}

	target := filter.MatchFilename
	if flags.fullPath {
		target = filter.MatchFullPath
	}

	types, empty, executable, err := parseTypeFlags(flags.types)
	if err != nil {
		return nil, err
	}

	sizeFilter, err := parseSizeFlag(flags.size)
	if err != nil {
		return nil, err
	}

	timeFilter, err := parseTimeFlags(flags.newer, flags.older, now)
	if err != nil {
		return nil, err
	}

	sep := sink.SeparatorNewline
	if flags.print0 {
		sep = sink.SeparatorNUL
	}

	maxDepth := int32(-1)
	if flags.maxDepth >= 0 {
		maxDepth = flags.maxDepth
	}

	return &gofind.Config{
		RootPaths:                  roots,
		Pattern:                    pattern,
		PatternKind:                kind,
		MatchTarget:                target,
		CaseSensitive:              flags.caseSensitive,
		IncludeHidden:              flags.hidden,
		IncludeDirectoriesInOutput: flags.dirs,
		FollowSymlinks:             flags.follow,
		SameFilesystem:             flags.sameFS,
		MaxDepth:                   maxDepth,
		MaxResults:                 flags.maxResults,
		Types:                      types,
		Empty:                      empty,
		Executable:                 executable,
		Extensions:                 flags.extensions,
		Size:                       sizeFilter,
		Time:                       timeFilter,
		Threads:                    flags.threads,
		OutputSeparator:            sep,
		Colouring:                  !flags.noColour,
		Sort:                       flags.sortResults,
		Absolute:                   flags.absolute,
		ShowErrors:                 flags.showErrors,
		DirIterBufSize:             32 * 1024,
	}, nil
}

func buildLogger(cfg *gofind.Config) *log.Logger {
	if !cfg.ShowErrors {
		// A level above Emergency silences every Warn call the
		// scheduler and filter pipeline make for recovered per-entry
		// errors, matching spec.md §7's "iff show_errors is set".
		return log.New(os.Stderr, log.SlogLevelEmergency+1, false)
	}
	return log.Default()
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, so a
// caller hitting Ctrl-C gets ErrInterrupted rather than a hung process.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
