// Command gofind is the CLI host for the core search engine in fs/:
// a cobra/pflag front end that builds an fs.Config from flags (and an
// optional YAML overlay), runs a TraversalScheduler over it, and maps
// the outcome onto the exit codes spec.md §6 defines.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(exitCodeForError(err))
	}
}
