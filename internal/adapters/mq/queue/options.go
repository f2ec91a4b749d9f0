package queue

import "time"

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the number of ids the queue holds before rejecting.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithClock overrides the time source used to stamp jobs.
func WithClock(now func() time.Time) Option {
	return func(q *InMemoryQueue) {
		if now != nil {
			q.now = now
		}
	}
}
