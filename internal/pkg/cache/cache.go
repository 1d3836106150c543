// Package cache provides a small expiring value cache with an injectable
// clock, used for the bulk-loaded institution collection.
package cache

import (
	"sync"
	"time"
)

// Clock supplies the current time. Production code uses SystemClock;
// tests inject a fake to drive expiry without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// TTL caches a single value of type T for a fixed window. Callers must
// tolerate slightly stale data within the window; Invalidate forces the
// next Get to reload.
type TTL[T any] struct {
	mu        sync.Mutex
	value     T
	loaded    bool
	fetchedAt time.Time
	ttl       time.Duration
	clock     Clock
}

// NewTTL creates a cache with the given window. A nil clock defaults to
// the system clock; a non-positive ttl disables expiry (explicit
// invalidation only).
func NewTTL[T any](ttl time.Duration, clock Clock) *TTL[T] {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TTL[T]{ttl: ttl, clock: clock}
}

// Get returns the cached value, calling load to (re)populate when the
// cache is empty or the window has elapsed. A failed load leaves any
// previously cached value untouched and returns the error.
func (c *TTL[T]) Get(load func() (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && !c.expired() {
		return c.value, nil
	}

	value, err := load()
	if err != nil {
		var zero T
		if c.loaded {
			// Serve the stale value rather than failing the caller.
			return c.value, nil
		}
		return zero, err
	}

	c.value = value
	c.loaded = true
	c.fetchedAt = c.clock.Now()
	return c.value, nil
}

// Invalidate discards the cached value so the next Get reloads.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.loaded = false
}

func (c *TTL[T]) expired() bool {
	if c.ttl <= 0 {
		return false
	}
	return c.clock.Now().Sub(c.fetchedAt) >= c.ttl
}
