package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClock управляемые часы для тестов TTL
type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	return c.now
}

func (c *stubClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	clock := &stubClock{now: time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(5*time.Minute, clock)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "key", []byte("value")))

	data, ok, err := c.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("value"), data)
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &stubClock{now: time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(5*time.Minute, clock)

	require.NoError(t, c.Set(ctx, "key", []byte("value")))

	clock.Advance(4 * time.Minute)
	_, ok, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok, err = c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryInvalidate(t *testing.T) {
	ctx := context.Background()
	clock := &stubClock{now: time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(5*time.Minute, clock)

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	require.Equal(t, 2, c.Len())

	require.NoError(t, c.Invalidate(ctx))
	assert.Equal(t, 0, c.Len())

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCleanupOnOverflow(t *testing.T) {
	ctx := context.Background()
	clock := &stubClock{now: time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(5*time.Minute, clock)

	for i := 0; i < maxEntries; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("old-%d", i), []byte("x")))
	}

	// Все старые записи устарели, переполнение должно их вычистить
	clock.Advance(10 * time.Minute)
	require.NoError(t, c.Set(ctx, "fresh", []byte("y")))

	assert.Equal(t, 1, c.Len())
	_, ok, err := c.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}
