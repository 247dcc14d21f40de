package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Defaults for [NewMemoryCache].
const (
	DefaultMemorySize   = 256
	DefaultMemoryMaxTTL = time.Hour
)

type memEntry struct {
	data      []byte
	tags      []string
	expiresAt time.Time
}

// MemoryCache is a bounded in-process cache. Entries are evicted least
// recently used first and never outlive maxTTL, whatever ttl Set is given.
type MemoryCache struct {
	lru *expirable.LRU[string, memEntry]

	// writeMu serializes Set and InvalidateTag so an invalidation never
	// lands between storing an entry and tagging it.
	writeMu sync.Mutex

	// tagMu guards tags. It is never held while calling into lru, whose
	// eviction callback takes it.
	tagMu sync.Mutex
	tags  map[string]map[string]struct{}
}

// NewMemoryCache creates a cache holding at most size entries.
func NewMemoryCache(size int, maxTTL time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if maxTTL <= 0 {
		maxTTL = DefaultMemoryMaxTTL
	}
	c := &MemoryCache{tags: make(map[string]map[string]struct{})}
	c.lru = expirable.NewLRU[string, memEntry](size, c.onEvict, maxTTL)
	return c
}

// onEvict runs inside lru calls and on its background expiry sweep.
func (c *MemoryCache) onEvict(key string, e memEntry) {
	c.tagMu.Lock()
	defer c.tagMu.Unlock()
	for _, t := range e.tags {
		if keys := c.tags[t]; keys != nil {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.tags, t)
			}
		}
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration, tags ...string) error {
	e := memEntry{data: data, tags: tags}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	// Evict the old entry first so its callback cannot drop the new tags.
	c.lru.Remove(key)

	c.tagMu.Lock()
	for _, t := range tags {
		if c.tags[t] == nil {
			c.tags[t] = make(map[string]struct{})
		}
		c.tags[t][key] = struct{}{}
	}
	c.tagMu.Unlock()

	c.lru.Add(key, e)
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// InvalidateTag removes every entry stored with tag.
func (c *MemoryCache) InvalidateTag(ctx context.Context, tag string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.tagMu.Lock()
	keys := c.tags[tag]
	delete(c.tags, tag)
	c.tagMu.Unlock()

	for k := range keys {
		c.lru.Remove(k)
	}
	return nil
}

// Len returns the number of live entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
