// Package walk implements the TraversalScheduler module of spec.md
// §4.6: a work-stealing pool of worker goroutines that consumes
// directories breadth across the whole tree rather than depth-first on
// a single goroutine, the way the teacher's backend/local parallel stat
// pool fans work out over a bounded worker set (backend/local/parallel_stat.go)
// but adapted from a channel fan-in to per-worker local deques with
// stealing, since the spec calls for that specific scheduling shape.
package walk

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ncw-find/gofind/fs/dirent"
	"github.com/ncw-find/gofind/fs/diriter"
	"github.com/ncw-find/gofind/fs/filter"
	"github.com/ncw-find/gofind/fs/ioerror"
	"github.com/ncw-find/gofind/fs/log"
	"github.com/ncw-find/gofind/fs/pathbuf"
	"github.com/ncw-find/gofind/fs/visited"

	"github.com/pkg/errors"
)

// Sink is the narrow capability the scheduler needs from fs/sink: emit
// one matched entry. Defined here rather than imported so fs/sink and
// fs/walk have no compile-time dependency on each other; cmd/gofind
// wires a concrete *sink.Streaming or *sink.Collecting into a Scheduler.
type Sink interface {
	Emit(entry *dirent.DirEntry) error
}

// Config is every traversal-shaping option of spec.md §6 that isn't
// itself a Filter predicate.
type Config struct {
	Threads                      int
	FollowSymlinks               bool
	SameFilesystem               bool
	IncludeHidden                bool // also controls directory descent, not just emission
	MaxDepth                     int32 // negative means unlimited
	MaxResults                   int64 // zero means unlimited
	IncludeDirectoriesInOutput   bool
	DirIterBufSize               int
	DisableShortReadOptimisation bool
}

// job is one directory awaiting a readdir pass.
type job struct {
	path  string
	depth int32 // depth of this directory itself; its children are depth+1
}

// deque is a worker's local LIFO job queue, with FIFO stealing from the
// opposite end so a thief takes the oldest (shallowest, usually
// cheapest) work rather than competing with the owner for its own
// freshest job.
type deque struct {
	mu    sync.Mutex
	items []job
}

func (d *deque) pushOwn(j job) {
	d.mu.Lock()
	d.items = append(d.items, j)
	d.mu.Unlock()
}

func (d *deque) popOwn() (job, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return job{}, false
	}
	j := d.items[len(d.items)-1]
	d.items = d.items[:len(d.items)-1]
	return j, true
}

func (d *deque) steal() (job, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return job{}, false
	}
	j := d.items[0]
	d.items = d.items[1:]
	return j, true
}

// Scheduler is the work-stealing TraversalScheduler. Construct with New
// and run with Run; a Scheduler is single-use.
type Scheduler struct {
	cfg     Config
	filter  *filter.Filter
	sink    Sink
	visited *visited.Set
	logger  *log.Logger

	deques   []*deque
	injector deque // shared FIFO overflow/seed queue, reuses deque's locking

	inFlight    atomic.Int64
	resultCount atomic.Int64
	maxHit      atomic.Bool

	rootDev     uint64
	haveRootDev bool
}

// stealBackoff bounds how long an idle worker sleeps between steal
// attempts; it grows with each empty pass so a long-idle worker doesn't
// spin hot, and resets the moment it finds work.
const (
	stealBackoffStart = 10 * time.Microsecond
	stealBackoffMax   = 2 * time.Millisecond
)

// New builds a Scheduler. f and s may be shared across multiple
// Scheduler instances (both are safe for concurrent use); v is owned by
// this Scheduler's run.
func New(cfg Config, f *filter.Filter, s Sink, v *visited.Set, logger *log.Logger) *Scheduler {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	sc := &Scheduler{
		cfg:     cfg,
		filter:  f,
		sink:    s,
		visited: v,
		logger:  logger,
		deques:  make([]*deque, cfg.Threads),
	}
	for i := range sc.deques {
		sc.deques[i] = &deque{}
	}
	return sc
}

// Run traverses every root concurrently and blocks until the whole tree
// (subject to MaxResults and ctx cancellation) has been visited. The
// first worker error is returned; workers stop promptly once any one of
// them fails or ctx is cancelled, via errgroup's shared context.
func (s *Scheduler) Run(ctx context.Context, roots []string) error {
	for _, root := range roots {
		meta, err := s.rootMetadata(root)
		if err != nil {
			return err
		}
		if s.cfg.SameFilesystem && !s.haveRootDev {
			s.rootDev = meta
			s.haveRootDev = true
		}
		s.emitRootCandidate(ctx, root)
		s.inFlight.Add(1)
		s.injector.pushOwn(job{path: root, depth: -1})
	}

	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.cfg.Threads; i++ {
		workerID := i
		group.Go(func() error {
			return s.workerLoop(gctx, workerID)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Scheduler) rootMetadata(root string) (uint64, error) {
	if !s.cfg.SameFilesystem {
		return 0, nil
	}
	entry := dirent.New([]byte(root), 0, -1, dirent.Unknown, 0, true)
	meta, err := entry.EnsureMetadata()
	if err != nil {
		return 0, errors.Wrapf(err, "stat root %s", root)
	}
	return meta.Dev, nil
}

// emitRootCandidate runs the root path itself through the same filter
// that every descendant passes through and emits it via the sink when
// it matches, before the root is ever opened for readdir. The root's
// filename offset is 0, so the name predicate sees the root path
// exactly as given (e.g. pattern "src$" matches root "project/src").
// Without this step a matching root could never appear in output,
// since every other code path only evaluates children discovered
// during descent.
func (s *Scheduler) emitRootCandidate(ctx context.Context, root string) {
	if s.maxHit.Load() {
		return
	}
	entry := dirent.New([]byte(root), 0, -1, dirent.Unknown, 0, s.cfg.FollowSymlinks)
	if entry.IsDir() && !s.cfg.IncludeDirectoriesInOutput {
		return
	}

	ok, err := s.filter.Matches(ctx, entry)
	if err != nil {
		s.logger.Warn("filter evaluation failed", "path", root, "error", err)
		return
	}
	if !ok {
		return
	}

	if s.cfg.MaxResults > 0 {
		if n := s.resultCount.Add(1); n > s.cfg.MaxResults {
			s.maxHit.Store(true)
			return
		}
	}

	if err := s.sink.Emit(entry); err != nil {
		s.logger.Warn("sink write failed", "path", root, "error", err)
	}
}

func (s *Scheduler) workerLoop(ctx context.Context, id int) error {
	own := s.deques[id]
	pb, err := pathbuf.New(nil)
	if err != nil {
		return errors.Wrap(err, "allocating worker path buffer")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil // cancellation is not itself a worker error
		}
		j, ok := s.nextJob(own, id)
		if !ok {
			return nil
		}
		if err := s.processDir(ctx, j, own, pb); err != nil {
			if !ioerror.IsPerEntryError(err) {
				return err
			}
			s.logger.Warn("directory read failed", "path", j.path, "error", err)
		}
		s.inFlight.Add(-1)
	}
}

// nextJob finds work for worker id: its own deque first, then the
// shared injector, then another worker's deque (oldest-first theft).
// When nothing is available it backs off with a growing sleep rather
// than blocking on a condition variable, since a push-then-broadcast
// scheme can't be made race-free here (the push lands on one deque's
// own mutex, the wait would need to be registered under a different
// one) without a lock held across the steal scan. It returns ok=false
// once inFlight reaches zero with nothing left to steal - traversal is
// complete.
func (s *Scheduler) nextJob(own *deque, id int) (job, bool) {
	backoff := stealBackoffStart
	for {
		if j, ok := own.popOwn(); ok {
			return j, true
		}
		if j, ok := s.injector.steal(); ok {
			return j, true
		}
		for i, d := range s.deques {
			if i == id {
				continue
			}
			if j, ok := d.steal(); ok {
				return j, true
			}
		}
		if s.inFlight.Load() == 0 {
			return job{}, false
		}
		time.Sleep(backoff)
		if backoff < stealBackoffMax {
			backoff *= 2
		}
	}
}

func (s *Scheduler) processDir(ctx context.Context, j job, own *deque, pb *pathbuf.PathBuffer) error {
	if err := pb.Reset([]byte(j.path)); err != nil {
		return err
	}

	it, err := diriter.Open(j.path, j.depth, s.cfg.DirIterBufSize, s.cfg.FollowSymlinks, s.cfg.DisableShortReadOptimisation)
	if err != nil {
		return err
	}
	defer it.Close()

	for {
		if s.maxHit.Load() || ctx.Err() != nil {
			return nil
		}
		entry, err := it.Next(pb)
		if err == diriter.ErrExhausted {
			return nil
		}
		if err != nil {
			return err
		}

		s.handleEntry(ctx, entry, own)
	}
}

func (s *Scheduler) handleEntry(ctx context.Context, entry *dirent.DirEntry, own *deque) {
	viaSymlink := entry.TypeTag() == dirent.Symlink
	isDir := s.resolvesToDirectory(entry)

	if isDir && s.shouldDescend(entry, viaSymlink) {
		s.inFlight.Add(1)
		own.pushOwn(job{path: string(entry.FullPath()), depth: entry.Depth()})
	}

	if isDir && !s.cfg.IncludeDirectoriesInOutput {
		return
	}

	ok, err := s.filter.Matches(ctx, entry)
	if err != nil {
		s.logger.Warn("filter evaluation failed", "path", string(entry.FullPath()), "error", err)
		return
	}
	if !ok {
		return
	}

	if s.cfg.SameFilesystem && s.haveRootDev {
		meta, err := entry.EnsureMetadata()
		if err != nil || meta.Dev != s.rootDev {
			return
		}
	}

	if s.cfg.MaxResults > 0 {
		if n := s.resultCount.Add(1); n > s.cfg.MaxResults {
			s.maxHit.Store(true)
			return
		}
	}

	if err := s.sink.Emit(entry); err != nil {
		s.logger.Warn("sink write failed", "path", string(entry.FullPath()), "error", err)
	}
}

// resolvesToDirectory reports whether entry is, or (when following
// symlinks) resolves to, a directory. A symlink's kernel-reported type
// is always Symlink, never the target's type, so descending through a
// followed symlink requires a stat to learn what it actually points at;
// EnsureMetadata updates entry's cached TypeTag as a side effect of
// that resolution, so TypeTag() reflects the target afterward.
func (s *Scheduler) resolvesToDirectory(entry *dirent.DirEntry) bool {
	switch entry.TypeTag() {
	case dirent.Directory:
		return true
	case dirent.Symlink:
		if !s.cfg.FollowSymlinks {
			return false
		}
		if _, err := entry.EnsureMetadata(); err != nil {
			return false
		}
		return entry.TypeTag() == dirent.Directory
	case dirent.Unknown:
		return entry.IsDir()
	default:
		return false
	}
}

// shouldDescend decides whether a directory entry should be enqueued
// for its own readdir pass: within depth, recorded in the VisitedSet
// when traversal reached it via a followed symlink (spec.md §4.5: a
// regular descent can't collide on (dev, ino) by construction, so only
// symlink-originated directories need the check), and on the starting
// filesystem when same_filesystem is set.
func (s *Scheduler) shouldDescend(entry *dirent.DirEntry, viaSymlink bool) bool {
	if !s.cfg.IncludeHidden && entry.Hidden() {
		return false
	}

	if s.cfg.MaxDepth >= 0 && entry.Depth() >= s.cfg.MaxDepth {
		return false
	}

	if viaSymlink && s.visited != nil {
		meta := entry.CachedMetadata() // resolvesToDirectory already resolved this entry
		if meta == nil {
			return false
		}
		if !s.visited.InsertIfNew(meta.Dev, meta.Ino) {
			return false // already visited this (dev, ino): a symlink cycle
		}
	}

	if s.cfg.SameFilesystem && s.haveRootDev {
		meta, err := entry.EnsureMetadata()
		if err != nil {
			return false
		}
		if meta.Dev != s.rootDev {
			return false
		}
	}

	return true
}
