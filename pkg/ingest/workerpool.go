package ingest

import (
	"context"
	"sync"
)

// Job is a unit of work submitted to the WorkerPool.
type Job func(ctx context.Context) error

// WorkerPool runs jobs on a fixed number of goroutines. The ingester uses it
// to analyze sentences concurrently.
type WorkerPool struct {
	jobs    chan Job
	quit    chan struct{}
	wg      sync.WaitGroup
	workers int

	// mu guards closed; submitters hold the read lock while sending so that
	// jobs is never closed under them.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers
// and job queue capacity.
func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &WorkerPool{
		jobs:    make(chan Job, queue),
		quit:    make(chan struct{}),
		workers: workers,
	}
}

// Start begins the worker goroutines. Workers exit when ctx is done or when
// the pool is closed and the queue is drained.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					// Job errors travel through the caller's own channels.
					_ = job(ctx)
				}
			}
		}()
	}
}

// Submit enqueues a job, blocking while the queue is full. It returns
// ErrPoolClosed once Close has been called.
func (p *WorkerPool) Submit(job Job) error {
	return p.SubmitCtx(context.Background(), job)
}

// SubmitCtx is Submit that gives up when ctx is done.
func (p *WorkerPool) SubmitCtx(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	case <-p.quit:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting new jobs and waits for workers to finish the queue.
func (p *WorkerPool) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = &PoolError{"worker pool closed"}

// PoolError provides a simple typed error for pool operations.
type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }
