package fs

import (
	"context"
	"sync"

	"github.com/ncw-find/gofind/fs/dirent"
	"github.com/ncw-find/gofind/fs/filter"
	"github.com/ncw-find/gofind/fs/log"
	"github.com/ncw-find/gofind/fs/visited"
	"github.com/ncw-find/gofind/fs/walk"
)

// entryCollector is a walk.Sink that retains every matched DirEntry in
// memory, for callers that want the entries themselves rather than
// cmd/gofind's rendered-path output. DirEntry.New copies its path bytes
// into entry-owned storage, so retaining the pointer past the walk that
// produced it is safe.
type entryCollector struct {
	mu      sync.Mutex
	entries []*dirent.DirEntry
}

func (c *entryCollector) Emit(entry *dirent.DirEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
	return nil
}

// Find runs a complete search against cfg and returns every matching
// DirEntry, for library callers that want gofind's engine without
// wiring the filter/walk/sink layers by hand the way cmd/gofind does.
// cfg is validated and root paths resolved exactly as the CLI does.
func Find(ctx context.Context, cfg *Config) ([]*dirent.DirEntry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ResolveRootPaths(); err != nil {
		return nil, err
	}

	filterCfg, err := cfg.FilterConfig()
	if err != nil {
		return nil, err
	}

	collector := &entryCollector{}
	scheduler := walk.New(cfg.WalkConfig(), filter.New(filterCfg), collector, visited.New(), log.Default())
	if err := scheduler.Run(ctx, cfg.RootPaths); err != nil {
		return collector.entries, err
	}
	return collector.entries, nil
}
