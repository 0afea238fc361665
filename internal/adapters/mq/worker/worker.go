// Package worker runs comparison jobs concurrently.
//
// Each worker owns its Comparer, so per-comparison scratch buffers are never
// shared. The only shared state is the read-only data the comparers close
// over.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/pkg/logger"
	"github.com/okian/simrank/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Comparer computes the dissimilarity of one row against a fixed target.
type Comparer interface {
	Compare(row model.Row) (model.InversionCount, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Job
}

// Worker processes jobs until the queue is drained or ctx ends.
type Worker interface {
	Run(ctx context.Context, out chan<- model.Outcome)
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	comparer Comparer
	name     string
	done     chan struct{}
	logger   logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, comparer Comparer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		comparer: comparer,
		name:     "worker",
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run consumes jobs and emits one Outcome per job on out.
func (w *InMemoryWorker) Run(ctx context.Context, out chan<- model.Outcome) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			outcome := w.process(job)
			select {
			case out <- outcome:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(job model.Job) model.Outcome { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1e3)
	}()

	n, err := w.comparer.Compare(job.Row)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "compare_error")
		w.logger.Debug(context.Background(), "comparison failed",
			logger.Uint64("user", uint64(job.Row.ID)),
			logger.Error(err),
		)
		err = fmt.Errorf("compare user %d: %w", job.Row.ID, err)
	}
	return model.Outcome{Index: job.Index, UserID: job.Row.ID, Inversions: n, Err: err}
}

// Pool manages multiple workers feeding a single outcome channel.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	out     chan model.Outcome
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. newComparer is called once
// per worker. A non-positive workerCount uses runtime.NumCPU().
func NewPool(workerCount int, queue Queue, newComparer func() Comparer, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		out:     make(chan model.Outcome, workerCount),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(queue, newComparer(), workerOpts...)
	}
	pool.logger = pool.workers[0].logger

	return pool
}

// Start launches every worker and returns the outcome channel. The channel is
// closed after all workers have returned.
func (p *Pool) Start(ctx context.Context) <-chan model.Outcome {
	p.wg.Add(len(p.workers))
	metrics.AddWorkerActiveCount(len(p.workers))
	for _, w := range p.workers {
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			defer metrics.AddWorkerActiveCount(-1)
			w.Run(ctx, p.out)
		}(w)
	}

	go func() {
		p.wg.Wait()
		close(p.out)
	}()

	return p.out
}

// Shutdown closes the queue and waits for the workers to drain it. Callers
// must keep receiving outcomes until the channel closes.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
		}
	}

	return nil
}
