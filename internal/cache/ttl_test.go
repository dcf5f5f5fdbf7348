package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, capacity int, clock *fakeClock) *TTL[string, int] {
	t.Helper()
	c, err := NewTTL[string, int](capacity, time.Hour, WithClock[string, int](clock.Now))
	require.NoError(t, err)
	return c
}

func TestTTL_GetWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := newTestCache(t, 4, clock)

	c.Set("a", 1)
	clock.Advance(59 * time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestTTL_ExpiresAtTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := newTestCache(t, 4, clock)

	c.Set("a", 1)
	clock.Advance(time.Hour)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry evicted on access")
}

func TestTTL_SetRefreshesExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := newTestCache(t, 4, clock)

	c.Set("a", 1)
	clock.Advance(50 * time.Minute)
	c.Set("a", 2)
	clock.Advance(50 * time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTL_EvictsLeastRecentlyUsed(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(t, 2, clock)

	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestTTL_DeleteAndStats(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(t, 2, clock)

	c.Set("a", 1)
	_, _ = c.Get("a")
	c.Delete("a")
	_, _ = c.Get("a")

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestNewTTL_RejectsZeroCapacity(t *testing.T) {
	_, err := NewTTL[string, int](0, time.Hour)
	assert.Error(t, err)
}
