package compliance

import (
	"context"
	"time"
)

// CacheConfig holds TTL settings for the journal directory cache
type CacheConfig struct {
	JournalTTL time.Duration
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		JournalTTL: 15 * time.Minute,
	}
}

// JournalCache caches journal directory lookups by normalized key.
// A nil journal with a nil error means a cache miss.
type JournalCache interface {
	Get(ctx context.Context, key string) (*Journal, error)
	Set(ctx context.Context, key string, journal *Journal, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
