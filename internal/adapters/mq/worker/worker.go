// Package worker warms the profile cache from queued player ids.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/ratingscope/internal/adapters/mq/queue"
	"github.com/okian/ratingscope/internal/domain/types"
	"github.com/okian/ratingscope/pkg/logger"
	"github.com/okian/ratingscope/pkg/metrics"
)

const defaultWorkers = 4

// Looker resolves a player profile, loading it into the cache on a miss.
type Looker interface {
	Lookup(ctx context.Context, id string, debug bool) (types.LookupResult, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// InMemoryWorker drains jobs from a queue and looks each one up.
type InMemoryWorker struct {
	queue   Queue
	looker  Looker
	name    string
	timeout time.Duration

	done chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, looker Looker, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:  q,
		looker: looker,
		name:   "warmer",
		done:   make(chan struct{}),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes jobs until the queue is drained or ctx is cancelled.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	for job := range w.queue.Dequeue(ctx) {
		w.process(ctx, job)
	}
}

// Done is closed once Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) {
	start := time.Now()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	res, err := w.looker.Lookup(ctx, job.ID, false)
	if err != nil {
		metrics.RecordWarmJob("failed")
		w.logger.Warn(ctx, "warm lookup failed",
			logger.String("id", job.ID),
			logger.Error(err),
		)
		return
	}

	result := "loaded"
	if res.Cached {
		result = "cached"
	}
	metrics.RecordWarmJob(result)
	w.logger.Debug(ctx, "profile warmed",
		logger.String("id", job.ID),
		logger.String("result", result),
		logger.Duration("queued", start.Sub(job.EnqueuedAt)),
		logger.Duration("took", time.Since(start)),
	)
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   queue.Queue
	cancel  context.CancelFunc
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. Values below one use the
// default. opts apply to every worker.
func NewPool(workerCount int, q queue.Queue, looker Looker, log logger.Logger, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkers
	}
	if log == nil {
		log = logger.Nop()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  log,
	}
	for i := range p.workers {
		workerOpts := append([]Option{
			WithName("warmer-" + strconv.Itoa(i)),
			WithLogger(log),
		}, opts...)
		p.workers[i] = NewInMemoryWorker(q, looker, workerOpts...)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start runs every worker in its own goroutine. Lookups are detached from
// ctx's cancellation; use Shutdown to stop the pool.
func (p *Pool) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	for _, w := range p.workers {
		go w.Run(runCtx)
	}
	p.logger.Info(ctx, "warm-up pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue and waits for the workers to drain it. When ctx
// ends first the remaining jobs are abandoned.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	if p.cancel == nil {
		return nil
	}

	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			p.cancel()
			p.logger.Warn(ctx, "warm-up pool shutdown timed out",
				logger.Int("worker_id", i),
				logger.Int("pending", p.queue.Len()),
			)
			return fmt.Errorf("shutdown timed out: %w", ctx.Err())
		}
	}
	p.cancel()
	return nil
}
