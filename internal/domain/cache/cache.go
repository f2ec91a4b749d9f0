package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Default cache configuration constants.
const (
	defaultTTL     = time.Hour
	defaultMaxSize = 10_000
)

// Cache memoizes values by key for a bounded time.
type Cache[V any] interface {
	// Get returns the fresh value for key. Stale entries are evicted on
	// lookup and reported as misses.
	Get(ctx context.Context, key string) (V, bool)

	// Set stores value under key, stamped with the current time.
	Set(ctx context.Context, key string, value V)

	// GetOrLoad returns the fresh value for key or computes it with load and
	// stores it. Concurrent misses for one key share a single load. The bool
	// reports whether the value came from the cache. Values are not stored
	// when load fails. A caller whose ctx ends stops waiting; the load itself
	// runs to completion.
	GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, bool, error)

	// Delete removes key.
	Delete(ctx context.Context, key string)

	Size() int64
}

// entry is a stored value and its creation time. Entries are read-only once
// stored.
type entry[V any] struct {
	value     V
	createdAt time.Time
}

// inMemoryCache implements Cache with a map guarded by a RWMutex.
type inMemoryCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	maxSize int
	now     func() time.Time
	size    atomic.Int64
	loads   singleflight.Group
}

// NewInMemory creates a new in-memory cache with configuration options.
func NewInMemory[V any](opts ...Option) Cache[V] {
	s := settings{
		ttl:     defaultTTL,
		maxSize: defaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &inMemoryCache[V]{
		entries: make(map[string]entry[V]),
		ttl:     s.ttl,
		maxSize: s.maxSize,
		now:     s.now,
	}
}

func (c *inMemoryCache[V]) Get(_ context.Context, key string) (V, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	if c.stale(e, now) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, ok := c.entries[key]; ok && c.stale(cur, now) {
			c.remove(key)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *inMemoryCache[V]) Set(_ context.Context, key string, value V) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if c.maxSize > 0 && len(c.entries) >= c.maxSize {
			c.evict(now)
		}
		c.size.Add(1)
	}
	c.entries[key] = entry[V]{value: value, createdAt: now}
}

func (c *inMemoryCache[V]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, bool, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, true, nil
	}

	ch := c.loads.DoChan(key, func() (interface{}, error) {
		if v, ok := c.Get(ctx, key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		c.Set(ctx, key, v)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(V), false, nil
	}
}

func (c *inMemoryCache[V]) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.remove(key)
	}
}

// Size returns the current number of entries, stale ones included until
// they are looked up or evicted.
func (c *inMemoryCache[V]) Size() int64 {
	return c.size.Load()
}

func (c *inMemoryCache[V]) stale(e entry[V], now time.Time) bool {
	return now.Sub(e.createdAt) > c.ttl
}

// remove deletes key. Must be called with c.mu.Lock() held.
func (c *inMemoryCache[V]) remove(key string) {
	delete(c.entries, key)
	c.size.Add(-1)
}

// evict drops stale entries, or the oldest entry when none are stale.
// Must be called with c.mu.Lock() held.
func (c *inMemoryCache[V]) evict(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
		dropped   bool
	)
	for k, e := range c.entries {
		if c.stale(e, now) {
			c.remove(k)
			dropped = true
			continue
		}
		if !found || e.createdAt.Before(oldest) {
			oldestKey, oldest, found = k, e.createdAt, true
		}
	}
	if !dropped && found {
		c.remove(oldestKey)
	}
}
