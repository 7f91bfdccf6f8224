package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// queueDepth is the number of tasks a worker buffers before Submit blocks.
const queueDepth = 2

// WorkerPool is a fixed set of goroutines, each draining its own queue.
// Tasks submitted to the same worker run one at a time in submission order.
type WorkerPool struct {
	queues   []chan func()
	stopCh   chan struct{}
	wg       sync.WaitGroup
	closed   atomic.Bool
	submitMu sync.RWMutex
}

// NewWorkerPool creates a worker pool with numWorkers goroutines.
// Non-positive values use GOMAXPROCS.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	wp := &WorkerPool{
		queues: make([]chan func(), numWorkers),
		stopCh: make(chan struct{}),
	}

	wp.wg.Add(numWorkers)
	for i := range wp.queues {
		q := make(chan func(), queueDepth)
		wp.queues[i] = q
		go wp.worker(q)
	}

	return wp
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int { return len(wp.queues) }

// WorkerFor returns the worker that partition p is routed to.
func (wp *WorkerPool) WorkerFor(p int) int { return p % len(wp.queues) }

func (wp *WorkerPool) worker(q <-chan func()) {
	defer wp.wg.Done()

	// Queued tasks still run after Close.
	for task := range q {
		task()
	}
}

// Submit enqueues task on the given worker, blocking while its queue is
// full.
//
// It returns ErrClosed if the pool is closed and ctx.Err() if ctx is
// cancelled before the task is enqueued.
func (wp *WorkerPool) Submit(ctx context.Context, worker int, task func()) error {
	wp.submitMu.RLock()
	defer wp.submitMu.RUnlock()

	if wp.closed.Load() {
		return ErrClosed
	}
	if worker < 0 || worker >= len(wp.queues) {
		return fmt.Errorf("worker %d not in [0,%d)", worker, len(wp.queues))
	}

	select {
	case wp.queues[worker] <- task:
		return nil
	case <-wp.stopCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts down the pool after queued tasks have run. It is idempotent.
func (wp *WorkerPool) Close() {
	if !wp.closed.CompareAndSwap(false, true) {
		return
	}

	// Unblock pending submits before taking the write lock.
	close(wp.stopCh)

	wp.submitMu.Lock()
	for _, q := range wp.queues {
		close(q)
	}
	wp.submitMu.Unlock()

	wp.wg.Wait()
}
