package memory

import (
	"context"
	"sync"
	"time"

	"returns-settlement-engine/internal/core/ports"

	"golang.org/x/time/rate"
)

// RateLimitStore implements ports.RateLimitStore in process with token
// buckets. It stands in for the Redis counters when Redis is disabled.
type RateLimitStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Allow refills limit tokens per window with a burst of limit.
func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, window time.Duration) (*ports.RateLimitResult, error) {
	now := s.now()

	s.mu.Lock()
	lim, ok := s.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), int(limit))
		s.limiters[key] = lim
	}
	s.mu.Unlock()

	allowed := lim.AllowN(now, 1)
	remaining := int64(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return &ports.RateLimitResult{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   now.Add(window).Unix(),
	}, nil
}

// InFlightGuard implements ports.InFlightGuard in process.
type InFlightGuard struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewInFlightGuard() *InFlightGuard {
	return &InFlightGuard{held: make(map[string]time.Time), now: time.Now}
}

func (g *InFlightGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if until, ok := g.held[key]; ok && now.Before(until) {
		return false, nil
	}
	g.held[key] = now.Add(ttl)
	return true, nil
}

func (g *InFlightGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}
