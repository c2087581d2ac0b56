package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"returns-settlement-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Cache tags. A mutation invalidates the tags of every sale and customer it
// touched, which drops each cached lookup that mentioned them.
func saleTag(id uuid.UUID) string     { return "sale:" + id.String() }
func customerTag(id uuid.UUID) string { return "customer:" + id.String() }

// cacheKey hashes an arbitrary criteria value into a stable key.
func cacheKey(kind string, criteria interface{}) string {
	raw, _ := json.Marshal(criteria)
	sum := sha256.Sum256(raw)
	return kind + ":" + hex.EncodeToString(sum[:])
}

// readCached returns the cached value of key decoded into out. A nil cache,
// a miss or a broken entry all report false.
func readCached(ctx context.Context, cache ports.LookupCache, log zerolog.Logger, key string, out interface{}) bool {
	if cache == nil {
		return false
	}
	raw, err := cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("lookup cache read failed")
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("lookup cache entry unreadable")
		return false
	}
	return true
}

func writeCached(ctx context.Context, cache ports.LookupCache, log zerolog.Logger, key string, value interface{}, ttl time.Duration, tags []string) {
	if cache == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("lookup cache encode failed")
		return
	}
	if err := cache.Set(ctx, key, raw, ttl, tags); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("lookup cache write failed")
	}
}

// invalidate runs after commit. Stale reads are bounded by the cache TTL,
// so a failure is only logged.
func invalidate(ctx context.Context, cache ports.LookupCache, log zerolog.Logger, tags ...string) {
	if cache == nil || len(tags) == 0 {
		return
	}
	if err := cache.Invalidate(ctx, tags); err != nil {
		log.Warn().Err(err).Strs("tags", tags).Msg("lookup cache invalidation failed")
	}
}
