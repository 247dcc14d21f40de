package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
)

// DefaultTTL is the cache window used when none is configured.
const DefaultTTL = 5 * time.Minute

const keyTypeRecords = "records"

// Cached serves snapshots of an inner Fetcher from a cache for TTL. Cache
// failures are treated as misses; only the inner fetch can fail a Fetch.
type Cached struct {
	inner Fetcher
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCached wraps inner. A nil cache disables caching; a nil keyer uses
// [cache.DefaultKeyer].
func NewCached(inner Fetcher, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{inner: inner, cache: c, keyer: keyer, ttl: ttl}
}

// Name returns the inner source's name.
func (c *Cached) Name() string { return c.inner.Name() }

// Fetch returns the cached snapshot or fetches and stores a fresh one.
func (c *Cached) Fetch(ctx context.Context) (org.Dataset, error) {
	key := c.keyer.RecordsKey(c.Name())
	hooks := observability.Cache()

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var ds org.Dataset
		if json.Unmarshal(data, &ds) == nil {
			hooks.OnCacheHit(ctx, keyTypeRecords)
			return ds, nil
		}
		_ = c.cache.Delete(ctx, key)
	}
	hooks.OnCacheMiss(ctx, keyTypeRecords)

	ds, err := c.inner.Fetch(ctx)
	if err != nil {
		return org.Dataset{}, err
	}
	if data, err := json.Marshal(ds); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl, cache.TagRecords, c.keyer.RecordsTag(c.Name())) == nil {
			hooks.OnCacheSet(ctx, keyTypeRecords, len(data))
		}
	}
	return ds, nil
}

// Invalidate drops the cached snapshot of this source so the next Fetch
// goes to the backend.
func (c *Cached) Invalidate(ctx context.Context) error {
	return c.cache.InvalidateTag(ctx, c.keyer.RecordsTag(c.Name()))
}

// Close closes the inner source and the cache.
func (c *Cached) Close() error {
	err := c.inner.Close()
	if cerr := c.cache.Close(); err == nil {
		err = cerr
	}
	return err
}
