package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/aatuh/treesync/internal/filter"
	"github.com/aatuh/treesync/internal/logging"
	"github.com/aatuh/treesync/internal/metrics"
	"github.com/aatuh/treesync/internal/pathutil"
	"github.com/aatuh/treesync/internal/scan"
	"github.com/aatuh/treesync/internal/tree"
)

// ErrStale is returned when a newer request was issued while a scan was in flight.
var ErrStale = errors.New("scan result superseded by a newer request")

// Generation orders requests. Higher generations are newer.
type Generation uint64

// Snapshot is one built tree together with the request that produced it.
type Snapshot struct {
	Generation Generation
	Request    scan.Request
	Result     tree.Result
	// Filtered counts entries removed by the path filter before building.
	Filtered int
	BuiltAt  time.Time
}

// Options configure a Synchronizer.
type Options struct {
	Scanner scan.Scanner
	Filter  filter.PathFilter
	Logger  *logrus.Entry
	Locale  language.Tag
	// CacheMaxCost is how many snapshots are kept for Cached. Zero disables the cache.
	CacheMaxCost int64
	Clock        func() time.Time
}

// Synchronizer keeps the latest tree for a project in step with scan results.
// When requests overlap, only the most recently issued one is published.
type Synchronizer struct {
	scanner scan.Scanner
	filter  filter.PathFilter
	log     *logrus.Entry
	locale  language.Tag
	clock   func() time.Time
	cache   *ristretto.Cache

	latest atomic.Uint64

	mu         sync.RWMutex
	current    Snapshot
	hasCurrent bool
}

// New validates opts and returns a Synchronizer.
func New(opts Options) (*Synchronizer, error) {
	if opts.Scanner == nil {
		return nil, fmt.Errorf("scanner is required")
	}
	if opts.CacheMaxCost < 0 {
		return nil, fmt.Errorf("cache max cost must not be negative")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Synchronizer{
		scanner: opts.Scanner,
		filter:  opts.Filter,
		log:     opts.Logger.WithField("component", "synchronizer"),
		locale:  opts.Locale,
		clock:   opts.Clock,
	}
	if opts.CacheMaxCost > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: opts.CacheMaxCost * 10,
			MaxCost:     opts.CacheMaxCost,
			BufferItems: 64,
			// Cost counts snapshots, not bytes.
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, fmt.Errorf("create snapshot cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Begin issues a new generation, making every earlier one stale.
func (s *Synchronizer) Begin() Generation {
	return Generation(s.latest.Add(1))
}

// Latest returns the most recently issued generation.
func (s *Synchronizer) Latest() Generation {
	return Generation(s.latest.Load())
}

// Refresh scans req, builds the tree and publishes it. It returns ErrStale if
// another request was issued before the result arrived; the result is discarded.
func (s *Synchronizer) Refresh(ctx context.Context, req scan.Request) (Snapshot, error) {
	gen := s.Begin()
	log := s.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"generation": uint64(gen),
		"root":       req.ProjectRoot,
	})
	log.Debug("scan requested")

	start := time.Now()
	entries, err := s.scanner.Scan(ctx, req)
	metrics.RecordScan(time.Since(start), err == nil)
	if s.Latest() != gen {
		metrics.RecordStaleDiscard()
		log.Debug("discarding stale scan result")
		return Snapshot{}, ErrStale
	}
	if err != nil {
		log.WithError(err).Warn("scan failed")
		return Snapshot{}, fmt.Errorf("scan %s: %w", req.ProjectRoot, err)
	}

	snap := s.Build(req, entries, log)
	if !s.Publish(gen, snap) {
		metrics.RecordStaleDiscard()
		log.Debug("discarding stale tree")
		return Snapshot{}, ErrStale
	}
	snap.Generation = gen
	log.WithField("entries", len(entries)).Debug("tree published")
	return snap, nil
}

// Build filters entries and builds the tree for req without publishing it.
func (s *Synchronizer) Build(req scan.Request, entries []tree.Entry, log *logrus.Entry) Snapshot {
	if log == nil {
		log = s.log
	}
	root := pathutil.Root(req.ProjectRoot)
	filtered := 0
	if s.filter != nil {
		entries, filtered = filter.Entries(entries, root, s.filter)
	}

	result := tree.Build(entries, root, tree.WithLogger(log), tree.WithLocale(s.locale))
	d := result.Diagnostics
	metrics.RecordBuild(tree.Count(result.Nodes), len(d.Skipped), len(d.Orphans), len(d.Outside), len(d.Duplicates))
	if !d.Empty() {
		log.WithFields(logrus.Fields{
			"skipped":    len(d.Skipped),
			"orphans":    len(d.Orphans),
			"outside":    len(d.Outside),
			"duplicates": len(d.Duplicates),
		}).Info("tree built with diagnostics")
	}

	return Snapshot{
		Request:  req,
		Result:   result,
		Filtered: filtered,
		BuiltAt:  s.clock(),
	}
}

// Publish makes snap current if gen is still the latest generation.
func (s *Synchronizer) Publish(gen Generation, snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Latest() != gen {
		return false
	}
	snap.Generation = gen
	s.current = snap
	s.hasCurrent = true
	metrics.SetTreeSize(tree.Count(snap.Result.Nodes))

	if s.cache != nil {
		s.cache.Set(snap.Request.Key(), snap, 1)
		s.cache.Wait()
	}
	return true
}

// Current returns the most recently published snapshot.
func (s *Synchronizer) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.hasCurrent
}

// Cached returns the last snapshot published for a request covering the same paths.
func (s *Synchronizer) Cached(req scan.Request) (Snapshot, bool) {
	if s.cache == nil {
		return Snapshot{}, false
	}
	v, ok := s.cache.Get(req.Key())
	if !ok {
		return Snapshot{}, false
	}
	snap, ok := v.(Snapshot)
	return snap, ok
}

// Close releases the snapshot cache.
func (s *Synchronizer) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}
