package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// InFlightGuard implements ports.InFlightGuard with SET NX. A key is held
// while one request settles it; a duplicate arriving meanwhile is refused
// instead of queueing behind the sale lock.
type InFlightGuard struct {
	client *goredis.Client
	prefix string
}

// NewInFlightGuard creates a new Redis-backed in-flight guard.
func NewInFlightGuard(client *goredis.Client) *InFlightGuard {
	return &InFlightGuard{
		client: client,
		prefix: keyPrefix + "inflight:",
	}
}

// Acquire claims key for ttl. It returns false if the key is already held.
func (g *InFlightGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := g.client.SetArgs(ctx, g.prefix+key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis inflight acquire: %w", err)
	}
	return result == "OK", nil
}

// Release drops the claim.
func (g *InFlightGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis inflight release: %w", err)
	}
	return nil
}
