// Package resource bounds the workers and read throughput of a replay.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the maximum number of candidates replayed concurrently.
	// If 0, defaults to 1.
	MaxWorkers int64

	// ReadBytesPerSec is the maximum trace read throughput.
	// If 0, unlimited.
	ReadBytesPerSec int64
}

// Controller hands out worker slots and read budget.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	workers *semaphore.Weighted

	// nil if unlimited
	readLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.ReadBytesPerSec > 0 {
		c.readLimiter = rate.NewLimiter(rate.Limit(cfg.ReadBytesPerSec), int(cfg.ReadBytesPerSec))
	}

	return c
}

// Config returns the effective limits.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireWorker reserves a worker slot, blocking until one is free or ctx is canceled.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}
	return c.workers.Acquire(ctx, 1)
}

// TryAcquireWorker reserves a worker slot without blocking.
func (c *Controller) TryAcquireWorker() bool {
	if c == nil {
		return true
	}
	return c.workers.TryAcquire(1)
}

// ReleaseWorker returns a slot taken by AcquireWorker or TryAcquireWorker.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}

// WaitRead blocks until the read limit allows n bytes.
func (c *Controller) WaitRead(ctx context.Context, n int) error {
	if c == nil || c.readLimiter == nil || n <= 0 {
		return nil
	}
	return c.readLimiter.WaitN(ctx, n)
}

// readChunk caps a single read so it never exceeds the limiter burst.
func (c *Controller) readChunk(n int) int {
	if c == nil || c.readLimiter == nil {
		return n
	}
	if b := c.readLimiter.Burst(); n > b {
		return b
	}
	return n
}
