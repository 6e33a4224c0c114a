package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers message identifiers that were already
// processed so redeliveries from external providers can be dropped early.
// Entries expire after the given TTL.
type IdempotencyStore interface {
	// MarkProcessed records the identifier atomically. It returns true if
	// the identifier was newly recorded and false if it was seen before.
	MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the identifier has been recorded
	IsProcessed(ctx context.Context, id string) (bool, error)

	// Close releases any resources held by the store
	Close() error
}
