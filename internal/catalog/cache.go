// Package catalog implements the Catalog Cache (spec §4.6): an in-memory,
// write-through-on-refresh mapping from creator id to Creator record with
// bounded staleness. The cache is single-writer (the refresh worker) and
// many-reader (request threads); snapshots are swapped atomically so
// readers never observe a half-populated snapshot (spec §5).
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// Source is the abstract backing store for the catalog (spec §6): a single
// operation returning a complete snapshot.
type Source interface {
	ListAll(ctx context.Context) ([]scoring.Creator, error)
}

type snapshot struct {
	byID    map[string]scoring.Creator
	ordered []scoring.Creator
	loadedAt time.Time
}

// Cache is the creator catalog cache. The zero value is not usable; use New.
type Cache struct {
	source     Source
	refreshTTL time.Duration
	logger     *slog.Logger

	current atomic.Pointer[snapshot]
}

// New creates a Cache that refreshes from source every refreshTTL.
func New(source Source, refreshTTL time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{source: source, refreshTTL: refreshTTL, logger: logger}
	c.current.Store(&snapshot{byID: map[string]scoring.Creator{}})
	return c
}

// Load performs the initial synchronous population. Call once at startup
// before serving requests.
func (c *Cache) Load(ctx context.Context) error {
	return c.refresh(ctx)
}

// Get returns the creator for id from the current snapshot.
func (c *Cache) Get(id string) (scoring.Creator, bool) {
	snap := c.current.Load()
	creator, ok := snap.byID[id]
	return creator, ok
}

// All returns every creator in the current snapshot, in load order.
func (c *Cache) All() []scoring.Creator {
	snap := c.current.Load()
	out := make([]scoring.Creator, len(snap.ordered))
	copy(out, snap.ordered)
	return out
}

// Len reports the number of creators in the current snapshot.
func (c *Cache) Len() int {
	return len(c.current.Load().byID)
}

// LoadedAt reports when the current snapshot was populated.
func (c *Cache) LoadedAt() time.Time {
	return c.current.Load().loadedAt
}

// Stale reports whether a refresh is due (spec §4.6 TTL).
func (c *Cache) Stale(now time.Time) bool {
	return now.Sub(c.LoadedAt()) >= c.refreshTTL
}

// RefreshIfStale refreshes the snapshot if the TTL has elapsed. Refresh
// failures are logged and do not invalidate the existing snapshot (spec
// §4.6); callers should invoke this from a dedicated background worker.
func (c *Cache) RefreshIfStale(ctx context.Context, now time.Time) {
	if !c.Stale(now) {
		return
	}
	if err := c.refresh(ctx); err != nil {
		c.logger.Warn("catalog refresh failed, retaining previous snapshot",
			slog.String("error", err.Error()))
	}
}

func (c *Cache) refresh(ctx context.Context) error {
	creators, err := c.source.ListAll(ctx)
	if err != nil {
		return domainerrors.DependencyUnavailable("catalog", "list catalog source", err)
	}

	byID := make(map[string]scoring.Creator, len(creators))
	ordered := make([]scoring.Creator, 0, len(creators))

	for _, creator := range creators {
		if _, dup := byID[creator.ID]; dup {
			c.logger.Warn("dropping duplicate creator id from catalog", slog.String("id", creator.ID))
			continue
		}
		normalized := normalizeTags(creator)
		byID[normalized.ID] = normalized
		ordered = append(ordered, normalized)
	}

	c.current.Store(&snapshot{byID: byID, ordered: ordered, loadedAt: time.Now()})
	return nil
}

// normalizeTags lower-cases every tag set at ingest (spec §4.6 invariant).
func normalizeTags(c scoring.Creator) scoring.Creator {
	c.Region = strings.ToLower(strings.TrimSpace(c.Region))
	c.Analysis.PrimaryNiches = lowerAll(c.Analysis.PrimaryNiches)
	c.Analysis.SecondaryNiches = lowerAll(c.Analysis.SecondaryNiches)
	c.Analysis.ApparentValues = lowerAll(c.Analysis.ApparentValues)
	c.Analysis.AudienceInterests = lowerAll(c.Analysis.AudienceInterests)
	c.Analysis.EngagementStyle.Tone = lowerAll(c.Analysis.EngagementStyle.Tone)
	return c
}

func lowerAll(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return out
}
