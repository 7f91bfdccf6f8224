// Package resource enforces the per-engine resource budget: memory reserved
// by partition index builds, concurrent index probes and the probe rate.
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryBudgetExceeded is returned when a reservation does not fit into
// the memory limit.
var ErrMemoryBudgetExceeded = errors.New("memory budget exceeded")

// Config holds resource limits. Zero values mean unlimited.
type Config struct {
	// MemoryLimitBytes caps the estimated memory held by built indexes.
	MemoryLimitBytes int64

	// MaxConcurrentProbes caps the number of index probes running at once.
	MaxConcurrentProbes int64

	// ProbesPerSecond throttles index probes across all queries.
	ProbesPerSecond float64
}

// Controller manages the resources of one engine.
//
// A nil *Controller is valid and enforces no limits.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Concurrency
	probeSem *semaphore.Weighted // nil if unlimited

	// Rate
	probeLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.MaxConcurrentProbes > 0 {
		c.probeSem = semaphore.NewWeighted(cfg.MaxConcurrentProbes)
	}

	if cfg.ProbesPerSecond > 0 {
		burst := max(1, int(cfg.ProbesPerSecond))
		c.probeLimiter = rate.NewLimiter(rate.Limit(cfg.ProbesPerSecond), burst)
	}

	return c
}

// Config returns the limits c was created with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// ReserveMemory reserves bytes without blocking. Index builds are never
// queued behind each other: a build that does not fit fails.
func (c *Controller) ReserveMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return fmt.Errorf("%w: need %d bytes, %d of %d in use",
			ErrMemoryBudgetExceeded, bytes, c.memUsed.Load(), c.cfg.MemoryLimitBytes)
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireProbe waits for a probe slot and for the rate limiter. The
// returned function releases the slot.
func (c *Controller) AcquireProbe(ctx context.Context) (release func(), err error) {
	if c == nil {
		return func() {}, nil
	}

	if c.probeLimiter != nil {
		if err := c.probeLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if c.probeSem == nil {
		return func() {}, nil
	}
	if err := c.probeSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { c.probeSem.Release(1) }, nil
}
