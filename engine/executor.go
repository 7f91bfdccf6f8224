package engine

import (
	"context"
	"fmt"
	"sync"
)

// TaskFunc processes partition p.
type TaskFunc func(ctx context.Context, p int) error

// Executor runs one task per partition.
//
// Map returns nil when every task succeeded, an error wrapping ctx.Err()
// when ctx was cancelled, or a *MapError listing the failed partitions.
type Executor interface {
	Map(ctx context.Context, n int, fn TaskFunc) error
}

// Sequential runs tasks in partition order on the calling goroutine.
type Sequential struct{}

// Map implements Executor.
func (Sequential) Map(ctx context.Context, n int, fn TaskFunc) error {
	errs := make([]error, n)
	for p := 0; p < n; p++ {
		if ctx.Err() != nil {
			break
		}
		errs[p] = runTask(ctx, p, fn)
	}
	return collect(ctx, errs)
}

// Parallel runs tasks on a fixed pool of goroutines. Partition p always
// runs on worker p modulo the pool size, so the tasks of one partition
// within a Map call never overlap and keep the same worker.
type Parallel struct {
	pool *WorkerPool
}

// NewParallel creates a parallel executor with the given number of
// workers. Non-positive values use GOMAXPROCS.
func NewParallel(workers int) *Parallel {
	return &Parallel{pool: NewWorkerPool(workers)}
}

// Workers returns the pool size.
func (e *Parallel) Workers() int { return e.pool.Size() }

// Map implements Executor.
func (e *Parallel) Map(ctx context.Context, n int, fn TaskFunc) error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for p := 0; p < n; p++ {
		w := e.pool.WorkerFor(p)
		wctx := context.WithValue(ctx, workerKey{}, w)
		wg.Add(1)
		err := e.pool.Submit(ctx, w, func() {
			defer wg.Done()
			errs[p] = runTask(wctx, p, fn)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			if ctx.Err() != nil {
				return fmt.Errorf("map cancelled: %w", ctx.Err())
			}
			return fmt.Errorf("worker pool submit failed: %w", err)
		}
	}
	wg.Wait()

	return collect(ctx, errs)
}

type workerKey struct{}

// WorkerID returns the pool worker running the task that received ctx. It
// reports false for tasks run by Sequential.
func WorkerID(ctx context.Context) (int, bool) {
	w, ok := ctx.Value(workerKey{}).(int)
	return w, ok
}

// Close stops the worker pool. Map fails with ErrClosed afterwards.
func (e *Parallel) Close() {
	e.pool.Close()
}

func runTask(ctx context.Context, p int, fn TaskFunc) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn(ctx, p)
}

func collect(ctx context.Context, errs []error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("map cancelled: %w", err)
	}
	var failures []TaskError
	for p, err := range errs {
		if err != nil {
			failures = append(failures, TaskError{Partition: p, Err: err})
		}
	}
	if len(failures) > 0 {
		return &MapError{Failures: failures}
	}
	return nil
}
