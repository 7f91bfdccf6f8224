package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executors(t *testing.T) map[string]Executor {
	t.Helper()
	par := NewParallel(4)
	t.Cleanup(par.Close)
	return map[string]Executor{
		"sequential": Sequential{},
		"parallel":   par,
	}
}

func TestMapRunsEveryPartition(t *testing.T) {
	for name, ex := range executors(t) {
		t.Run(name, func(t *testing.T) {
			out := make([]int, 100)
			err := ex.Map(context.Background(), len(out), func(_ context.Context, p int) error {
				out[p] = p * p
				return nil
			})
			require.NoError(t, err)
			for p, v := range out {
				assert.Equal(t, p*p, v)
			}
		})
	}
}

func TestMapZeroTasks(t *testing.T) {
	for name, ex := range executors(t) {
		err := ex.Map(context.Background(), 0, func(context.Context, int) error {
			t.Fatal("unexpected call")
			return nil
		})
		assert.NoError(t, err, name)
	}
}

func TestMapCollectsAllFailures(t *testing.T) {
	errBoom := errors.New("boom")

	for name, ex := range executors(t) {
		t.Run(name, func(t *testing.T) {
			var ran atomic.Int32
			err := ex.Map(context.Background(), 10, func(_ context.Context, p int) error {
				ran.Add(1)
				if p%3 == 0 {
					return errBoom
				}
				return nil
			})
			require.Error(t, err)
			assert.Equal(t, int32(10), ran.Load(), "map is not fail-fast")
			assert.ErrorIs(t, err, errBoom)

			var me *MapError
			require.ErrorAs(t, err, &me)
			parts := make([]int, len(me.Failures))
			for i, f := range me.Failures {
				parts[i] = f.Partition
			}
			assert.Equal(t, []int{0, 3, 6, 9}, parts)
		})
	}
}

func TestMapRecoversPanics(t *testing.T) {
	for name, ex := range executors(t) {
		t.Run(name, func(t *testing.T) {
			err := ex.Map(context.Background(), 3, func(_ context.Context, p int) error {
				if p == 1 {
					panic("bad partition")
				}
				return nil
			})
			var pe *PanicError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "bad partition", pe.Value)
		})
	}
}

func TestMapCancelled(t *testing.T) {
	for name, ex := range executors(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			var ran atomic.Int32
			err := ex.Map(ctx, 50, func(ctx context.Context, p int) error {
				if ran.Add(1) == 1 {
					cancel()
				}
				return ctx.Err()
			})
			assert.ErrorIs(t, err, context.Canceled)
			assert.Less(t, ran.Load(), int32(50))
		})
	}
}

func TestParallelRunsConcurrently(t *testing.T) {
	ex := NewParallel(4)
	defer ex.Close()
	assert.Equal(t, 4, ex.Workers())

	var active, peak atomic.Int32
	err := ex.Map(context.Background(), 8, func(context.Context, int) error {
		n := active.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, peak.Load(), int32(1))
	assert.LessOrEqual(t, peak.Load(), int32(4))
}

func TestParallelClosed(t *testing.T) {
	ex := NewParallel(2)
	ex.Close()
	ex.Close()

	err := ex.Map(context.Background(), 1, func(context.Context, int) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWorkerPoolSubmitCancelled(t *testing.T) {
	wp := NewWorkerPool(1)
	defer wp.Close()

	block := make(chan struct{})
	require.NoError(t, wp.Submit(context.Background(), 0, func() { <-block }))
	// Fill the queue so the next Submit must wait.
	for i := 0; i < queueDepth; i++ {
		require.NoError(t, wp.Submit(context.Background(), 0, func() {}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := wp.Submit(ctx, 0, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(block)
}

func TestWorkerPoolSubmitUnknownWorker(t *testing.T) {
	wp := NewWorkerPool(2)
	defer wp.Close()

	assert.Error(t, wp.Submit(context.Background(), 2, func() {}))
	assert.Error(t, wp.Submit(context.Background(), -1, func() {}))
}

func TestWorkerPoolRunsQueuedTasksOnClose(t *testing.T) {
	wp := NewWorkerPool(2)

	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		require.NoError(t, wp.Submit(context.Background(), i%2, func() { ran.Add(1) }))
	}
	wp.Close()
	assert.Equal(t, int32(4), ran.Load())
	assert.ErrorIs(t, wp.Submit(context.Background(), 0, func() {}), ErrClosed)
}

func TestParallelStableWorkerPerPartition(t *testing.T) {
	const workers, n = 3, 20
	ex := NewParallel(workers)
	defer ex.Close()

	run := func() []int {
		got := make([]int, n)
		var active [workers]atomic.Int32
		err := ex.Map(context.Background(), n, func(ctx context.Context, p int) error {
			w, ok := WorkerID(ctx)
			assert.True(t, ok)
			// Tasks routed to one worker never overlap.
			assert.Equal(t, int32(1), active[w].Add(1))
			time.Sleep(time.Millisecond)
			active[w].Add(-1)
			got[p] = w
			return nil
		})
		require.NoError(t, err)
		return got
	}

	first := run()
	for p, w := range first {
		assert.Equal(t, p%workers, w, "partition %d", p)
	}
	assert.Equal(t, first, run())
}

func TestSequentialHasNoWorker(t *testing.T) {
	err := Sequential{}.Map(context.Background(), 1, func(ctx context.Context, _ int) error {
		_, ok := WorkerID(ctx)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}
