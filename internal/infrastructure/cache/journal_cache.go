package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scms/backend/internal/domain/compliance"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100
)

// RedisJournalCache implements compliance.JournalCache using Redis
type RedisJournalCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	config     compliance.CacheConfig
	logger     *zap.Logger
}

// RedisJournalCacheOption is a functional option for configuring the cache
type RedisJournalCacheOption func(*RedisJournalCache)

// WithJournalCacheConfig sets the cache configuration
func WithJournalCacheConfig(config compliance.CacheConfig) RedisJournalCacheOption {
	return func(c *RedisJournalCache) {
		c.config = config
	}
}

// WithJournalCacheLogger sets the logger for the cache
func WithJournalCacheLogger(logger *zap.Logger) RedisJournalCacheOption {
	return func(c *RedisJournalCache) {
		c.logger = logger
	}
}

// NewRedisJournalCache creates a new Redis-based journal cache
func NewRedisJournalCache(cfg RedisConfig, opts ...RedisJournalCacheOption) (*RedisJournalCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisJournalCache{
		client:     client,
		ownsClient: true,
		config:     compliance.DefaultCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisJournalCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisJournalCacheWithClient(client *redis.Client, opts ...RedisJournalCacheOption) *RedisJournalCache {
	cache := &RedisJournalCache{
		client:     client,
		ownsClient: false,
		config:     compliance.DefaultCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// journalCacheKey generates the cache key for a journal lookup
func (c *RedisJournalCache) journalCacheKey(key string) string {
	return fmt.Sprintf("journal:%s", key)
}

// Get retrieves a journal from cache
func (c *RedisJournalCache) Get(ctx context.Context, key string) (*compliance.Journal, error) {
	cacheKey := c.journalCacheKey(key)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for journal", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get journal from cache",
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get journal from cache: %w", err)
	}

	var journal compliance.Journal
	if err := json.Unmarshal(data, &journal); err != nil {
		c.logger.Error("Failed to unmarshal journal",
			zap.String("key", key),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal journal: %w", err)
	}

	c.logger.Debug("Cache hit for journal", zap.String("key", key))
	return &journal, nil
}

// Set stores a journal in cache
func (c *RedisJournalCache) Set(ctx context.Context, key string, journal *compliance.Journal, ttl time.Duration) error {
	if journal == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.JournalTTL
	}

	cacheKey := c.journalCacheKey(key)

	data, err := json.Marshal(journal)
	if err != nil {
		c.logger.Error("Failed to marshal journal",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set journal in cache",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to set journal in cache: %w", err)
	}

	c.logger.Debug("Cached journal",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a journal from cache
func (c *RedisJournalCache) Delete(ctx context.Context, key string) error {
	cacheKey := c.journalCacheKey(key)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to delete journal from cache",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to delete journal from cache: %w", err)
	}

	c.logger.Debug("Deleted journal from cache", zap.String("key", key))
	return nil
}

// InvalidateAll removes all cached journal entries
func (c *RedisJournalCache) InvalidateAll(ctx context.Context) error {
	// Use SCAN to find all journal keys to avoid blocking Redis with KEYS command
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, "journal:*", defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan journal keys", zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete journal keys", zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Invalidated all journal cache",
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisJournalCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisJournalCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisJournalCache implements JournalCache
var _ compliance.JournalCache = (*RedisJournalCache)(nil)
