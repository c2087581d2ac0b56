package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LookupCache implements ports.LookupCache. Each tag is a Redis set holding
// the cache keys filed under it, so invalidation is SMEMBERS followed by DEL.
type LookupCache struct {
	client    *goredis.Client
	prefix    string
	tagPrefix string
}

// NewLookupCache creates a new Redis-backed lookup cache.
func NewLookupCache(client *goredis.Client) *LookupCache {
	return &LookupCache{
		client:    client,
		prefix:    keyPrefix + "lookup:",
		tagPrefix: keyPrefix + "tag:",
	}
}

// Get returns the cached value or nil on a miss.
func (c *LookupCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis lookup get: %w", err)
	}
	return val, nil
}

// Set stores value and files the key under every tag.
func (c *LookupCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	full := c.prefix + key
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, full, value, ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, c.tagPrefix+tag, full)
			// Tag sets outlive their entries by one TTL at most.
			pipe.Expire(ctx, c.tagPrefix+tag, 2*ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis lookup set: %w", err)
	}
	return nil
}

// Invalidate deletes every entry filed under any of the tags.
func (c *LookupCache) Invalidate(ctx context.Context, tags []string) error {
	for _, tag := range tags {
		setKey := c.tagPrefix + tag
		keys, err := c.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return fmt.Errorf("redis lookup tag members: %w", err)
		}
		keys = append(keys, setKey)
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis lookup invalidate: %w", err)
		}
	}
	return nil
}
