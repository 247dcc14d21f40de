// Package cache stores fetched org records between builds.
//
// Records are fetched fresh once per cache window. The window (TTL) and the
// invalidation tags are chosen by the caller; nothing is kept in package
// state. Backends:
//
//   - [NullCache]: never stores, for --no-cache and tests
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [MemoryCache]: bounded in-process LRU, for a single server
//   - [RedisCache]: shared across server instances
//
// Every backend supports tags: [Cache.InvalidateTag] drops all entries that
// were stored with that tag, which is how a data refresh is forced.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry and tags.
type Cache interface {
	// Get returns the value for key. A miss, including an expired entry,
	// returns ok=false and a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration, tags ...string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// InvalidateTag removes every entry stored with tag.
	InvalidateTag(ctx context.Context, tag string) error

	// Close releases backend resources.
	Close() error
}

// TagRecords is attached to every cached record set.
const TagRecords = "records"

// Keyer derives cache keys and tags.
type Keyer interface {
	// RecordsKey is the key for the record set fetched from source.
	RecordsKey(source string) string

	// RecordsTag is the tag shared by every entry of source.
	RecordsTag(source string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RecordsKey hashes the source name so that DSNs and paths never end up in
// key names.
func (DefaultKeyer) RecordsKey(source string) string { return hashKey("records", source) }

// RecordsTag returns "records:<source>".
func (DefaultKeyer) RecordsTag(source string) string { return TagRecords + ":" + source }
