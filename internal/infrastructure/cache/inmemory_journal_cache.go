package cache

import (
	"context"
	"sync"
	"time"

	"github.com/scms/backend/internal/domain/compliance"
)

// journalEntry represents a cached journal with expiration
type journalEntry struct {
	journal   *compliance.Journal
	expiresAt time.Time
}

// InMemoryJournalCache implements JournalCache using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryJournalCache struct {
	mu        sync.RWMutex
	entries   map[string]journalEntry
	config    compliance.CacheConfig
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryJournalCache creates a new in-memory journal cache.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryJournalCache() *InMemoryJournalCache {
	c := &InMemoryJournalCache{
		entries:  make(map[string]journalEntry),
		config:   compliance.DefaultCacheConfig(),
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get retrieves a journal from cache. A nil journal with a nil error means
// a cache miss.
func (c *InMemoryJournalCache) Get(ctx context.Context, key string) (*compliance.Journal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists {
		return nil, nil
	}
	if time.Now().After(e.expiresAt) {
		return nil, nil
	}
	return e.journal, nil
}

// Set stores a journal in cache
func (c *InMemoryJournalCache) Set(ctx context.Context, key string, journal *compliance.Journal, ttl time.Duration) error {
	if journal == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.config.JournalTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = journalEntry{
		journal:   journal,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a journal from cache
func (c *InMemoryJournalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (c *InMemoryJournalCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryJournalCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *InMemoryJournalCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryJournalCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryJournalCache implements JournalCache
var _ compliance.JournalCache = (*InMemoryJournalCache)(nil)
