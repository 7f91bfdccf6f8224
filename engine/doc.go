// Package engine provides the execution substrate that runs per-partition
// work.
//
// An Executor maps a task over partition numbers 0..n-1. Each task writes
// only its own result slot, so callers collect results without locking and
// merge them on a single goroutine after Map returns.
//
// Two implementations are provided:
//
//   - Sequential runs tasks one after another on the calling goroutine.
//   - Parallel fans tasks out to a fixed WorkerPool, routing partition p
//     to worker p modulo the pool size.
//
// Map never stops early on a task failure. Every task runs (or observes a
// cancelled context) and all failures are reported together in a MapError.
// A task must not call Map on the Parallel executor that is running it.
package engine
