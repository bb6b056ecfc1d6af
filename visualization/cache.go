package visualization

import (
	"context"
	"sync"
	"time"
	"wagescraper/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const snapshotKey = "wages"

// Source runs the scrape pipeline. *scraper.Scraper satisfies it.
type Source interface {
	GetWageTable(ctx context.Context) (*models.Snapshot, error)
}

// snapshotCache memoizes the last successful snapshot for ttl. Failed runs
// are never cached, and concurrent misses share one pipeline run.
type snapshotCache struct {
	source Source
	cache  *expirable.LRU[string, *models.Snapshot]
	group  singleflight.Group

	// generation is bumped by Purge; a run started before the bump does
	// not store its result.
	mu         sync.Mutex
	generation uint64
}

// newSnapshotCache returns a pass-through cache when ttl is zero.
func newSnapshotCache(source Source, ttl time.Duration) *snapshotCache {
	c := &snapshotCache{source: source}
	if ttl > 0 {
		c.cache = expirable.NewLRU[string, *models.Snapshot](1, nil, ttl)
	}
	return c
}

func (c *snapshotCache) Get(ctx context.Context) (*models.Snapshot, error) {
	if c.cache != nil {
		if cached, hit := c.cache.Get(snapshotKey); hit {
			return cached, nil
		}
	}

	// The shared run must outlive any single caller that gives up.
	ch := c.group.DoChan(snapshotKey, func() (interface{}, error) {
		c.mu.Lock()
		generation := c.generation
		c.mu.Unlock()

		snap, err := c.source.GetWageTable(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(generation, snap)
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Snapshot), nil
	}
}

func (c *snapshotCache) store(generation uint64, snap *models.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache == nil || generation != c.generation {
		return
	}
	c.cache.Add(snapshotKey, snap)
}

// Purge drops the cached snapshot and detaches any run in flight, so the
// next Get starts a fresh pipeline run.
func (c *snapshotCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.group.Forget(snapshotKey)
	if c.cache != nil {
		c.cache.Purge()
	}
}
