package cache

import (
	"context"
	"testing"
	"time"

	"github.com/scms/backend/internal/domain/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T, title, issn string) *compliance.Journal {
	t.Helper()
	journal, err := compliance.NewJournal(title, issn, "", "Test Publisher")
	require.NoError(t, err)
	return journal
}

func TestInMemoryJournalCache_GetSet(t *testing.T) {
	cache := NewInMemoryJournalCache()
	defer cache.Close()
	ctx := context.Background()

	t.Run("miss returns nil journal and nil error", func(t *testing.T) {
		journal, err := cache.Get(ctx, "issn:0000-0000")
		assert.NoError(t, err)
		assert.Nil(t, journal)
	})

	t.Run("set then get returns the journal", func(t *testing.T) {
		journal := newTestJournal(t, "Nature Methods", "1548-7091")
		require.NoError(t, cache.Set(ctx, "issn:1548-7091", journal, time.Minute))

		got, err := cache.Get(ctx, "issn:1548-7091")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Nature Methods", got.Title)
	})

	t.Run("nil journal is not stored", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "issn:nil", nil, time.Minute))

		got, err := cache.Get(ctx, "issn:nil")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("zero TTL uses the default", func(t *testing.T) {
		journal := newTestJournal(t, "PLOS ONE", "1932-6203")
		require.NoError(t, cache.Set(ctx, "issn:1932-6203", journal, 0))

		got, err := cache.Get(ctx, "issn:1932-6203")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}

func TestInMemoryJournalCache_Expiration(t *testing.T) {
	cache := NewInMemoryJournalCache()
	defer cache.Close()
	ctx := context.Background()

	journal := newTestJournal(t, "eLife", "2050-084X")
	require.NoError(t, cache.Set(ctx, "issn:2050-084X", journal, 10*time.Millisecond))

	time.Sleep(20 * time.Millisecond)

	got, err := cache.Get(ctx, "issn:2050-084X")
	assert.NoError(t, err)
	assert.Nil(t, got, "expired entry should read as a miss")
}

func TestInMemoryJournalCache_Delete(t *testing.T) {
	cache := NewInMemoryJournalCache()
	defer cache.Close()
	ctx := context.Background()

	journal := newTestJournal(t, "Cell", "0092-8674")
	require.NoError(t, cache.Set(ctx, "issn:0092-8674", journal, time.Minute))
	require.NoError(t, cache.Delete(ctx, "issn:0092-8674"))

	got, err := cache.Get(ctx, "issn:0092-8674")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryJournalCache_CloseIsIdempotent(t *testing.T) {
	cache := NewInMemoryJournalCache()
	assert.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
}
