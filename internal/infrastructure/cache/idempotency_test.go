package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first claim wins, redelivery loses", func(t *testing.T) {
		store := NewMemoryIdempotencyStore()

		fresh, err := store.MarkProcessed(ctx, "payment_callback:cardpoint:evt_1", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(ctx, "payment_callback:cardpoint:evt_1", time.Hour)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("distinct keys are independent", func(t *testing.T) {
		store := NewMemoryIdempotencyStore()

		fresh, err := store.MarkProcessed(ctx, "evt_a", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(ctx, "evt_b", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("released keys can be claimed again", func(t *testing.T) {
		store := NewMemoryIdempotencyStore()

		fresh, err := store.MarkProcessed(ctx, "evt_retry", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)

		require.NoError(t, store.Release(ctx, "evt_retry"))

		fresh, err = store.MarkProcessed(ctx, "evt_retry", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("expired keys can be claimed again", func(t *testing.T) {
		store := NewMemoryIdempotencyStore()
		current := time.Now()
		store.now = func() time.Time { return current }

		fresh, err := store.MarkProcessed(ctx, "evt_ttl", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)

		current = current.Add(2 * time.Minute)

		fresh, err = store.MarkProcessed(ctx, "evt_ttl", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)
	})
}
