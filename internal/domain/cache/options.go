// Package cache provides a time-bounded memoization cache.
package cache

import "time"

// Option applies a configuration option to the in-memory cache.
type Option func(*settings)

type settings struct {
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// WithTTL sets how long an entry stays fresh after it is stored.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSize bounds the number of entries.
// If maxSize > 0: the oldest entry is evicted when the cache is full.
// If maxSize <= 0: unbounded mode (entries leave only when they go stale).
func WithMaxSize(maxSize int) Option {
	return func(s *settings) {
		s.maxSize = maxSize
	}
}

// WithClock sets the time source used for staleness checks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
