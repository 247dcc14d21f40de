package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache kinds accepted by [Config.Kind].
const (
	KindNone   = "none"
	KindFile   = "file"
	KindMemory = "memory"
	KindRedis  = "redis"
)

// Config selects and configures a cache backend.
type Config struct {
	Kind string        `toml:"kind"`
	TTL  time.Duration `toml:"ttl"`

	// file
	Dir string `toml:"dir"`

	// memory
	Size int `toml:"size"`

	// redis
	Redis RedisConfig `toml:"redis"`
}

// DefaultDir returns the per-user cache directory for orgchart.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "orgchart")
	}
	return filepath.Join(os.TempDir(), "orgchart-cache")
}

// Open creates the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Kind {
	case "", KindNone:
		return NewNullCache(), nil
	case KindFile:
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFileCache(dir)
	case KindMemory:
		return NewMemoryCache(cfg.Size, max(cfg.TTL, DefaultMemoryMaxTTL)), nil
	case KindRedis:
		return NewRedisCache(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown cache kind %q (want none, file, memory or redis)", cfg.Kind)
	}
}
