package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures [NewRedisCache].
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// Prefix namespaces every key and tag set.
	Prefix string `toml:"prefix"`
}

// RedisCache stores entries in Redis. Tags are kept as Redis sets of keys.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return &RedisCache{client: client, prefix: cfg.Prefix}, nil
}

func (c *RedisCache) key(k string) string    { return c.prefix + k }
func (c *RedisCache) tagKey(t string) string { return c.prefix + "tag:" + t }

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(err)
	}
	return data, true, nil
}

// Set stores the value and adds key to each tag set in one transaction.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration, tags ...string) error {
	if ttl < 0 {
		ttl = 0
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.key(key), data, ttl)
		for _, t := range tags {
			pipe.SAdd(ctx, c.tagKey(t), c.key(key))
		}
		return nil
	})
	return err
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// InvalidateTag deletes every key in the tag set and the set itself.
func (c *RedisCache) InvalidateTag(ctx context.Context, tag string) error {
	keys, err := c.client.SMembers(ctx, c.tagKey(tag)).Result()
	if err != nil {
		return err
	}
	return c.client.Del(ctx, append(keys, c.tagKey(tag))...).Err()
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
