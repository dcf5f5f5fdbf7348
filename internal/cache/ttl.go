// Package cache provides a bounded, TTL-expiring cache with an injectable
// clock.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a size-bounded LRU cache whose entries expire after a fixed age.
// It is safe for concurrent use.
type TTL[K comparable, V any] struct {
	mu     sync.Mutex
	lru    *lru.Cache[K, entry[V]]
	ttl    time.Duration
	now    func() time.Time
	hits   uint64
	misses uint64
}

// Option configures a TTL cache.
type Option[K comparable, V any] func(*TTL[K, V])

// WithClock sets the time source used for expiry.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *TTL[K, V]) { c.now = now }
}

// NewTTL creates a cache holding at most capacity entries for ttl each.
func NewTTL[K comparable, V any](capacity int, ttl time.Duration, opts ...Option[K, V]) (*TTL[K, V], error) {
	l, err := lru.New[K, entry[V]](capacity)
	if err != nil {
		return nil, err
	}
	c := &TTL[K, V]{lru: l, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Get returns the value for key if present and not expired. Expired entries
// are evicted on access.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		c.misses++
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Delete removes key.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Len returns the number of stored entries, including not yet evicted
// expired ones.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns hit and miss counts since creation.
func (c *TTL[K, V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
