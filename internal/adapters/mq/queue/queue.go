// Package queue buffers player ids waiting to be warmed into the profile
// cache. Enqueue never blocks; a full or closed queue rejects the id.
package queue

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/okian/ratingscope/pkg/metrics"
)

const defaultCapacity = 1024

// Job is one pending warm-up.
type Job struct {
	ID         string
	EnqueuedAt time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue schedules id. It returns false when the id was not accepted.
	Enqueue(ctx context.Context, id string) bool

	// Dequeue returns a channel of jobs. It is closed once the queue is
	// closed and drained, or when ctx ends.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the number of pending jobs.
	Len() int

	// Close stops accepting ids. Pending jobs are still delivered.
	Close() error
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int
	now      func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)
	metrics.UpdateWarmQueueDepth(0)
	return q
}

// Enqueue adds id to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		metrics.RecordWarmJob("rejected")
		return false
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed || ctx.Err() != nil {
		metrics.RecordWarmJob("rejected")
		return false
	}

	select {
	case q.jobs <- Job{ID: id, EnqueuedAt: q.now()}:
		metrics.RecordWarmJob("enqueued")
		metrics.UpdateWarmQueueDepth(len(q.jobs))
		return true
	default:
		metrics.RecordWarmJob("rejected")
		return false
	}
}

// Dequeue returns a channel that receives jobs as they become available.
// Each caller gets its own channel fed from the shared buffer.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.jobs:
				if !ok {
					return
				}
				metrics.UpdateWarmQueueDepth(len(q.jobs))
				select {
				case out <- job:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len() int { return len(q.jobs) }

// Close gracefully shuts down the queue. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
