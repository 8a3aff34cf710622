// Package workload implements the timed benchmark kernels. Each kernel runs a
// fixed workload against its own deadline, honours context cancellation
// cooperatively, and returns its rates together with the accumulator it
// computed so the caller can observe it.
package workload

import (
	"context"
	"log/slog"
	"time"

	"github.com/weiihann/hwscore/timing"
)

// DefaultPause is the cooperative sleep between kernel iterations.
const DefaultPause = 5 * time.Millisecond

// Option configures a Bench.
type Option func(*Bench)

// WithClock sets the time source used for deadlines and measurements.
func WithClock(clk timing.Clock) Option {
	return func(b *Bench) {
		if clk != nil {
			b.clock = clk
		}
	}
}

// WithLogger sets the logger kernels report progress to.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bench) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithAllocator sets the allocator for kernel-owned buffers.
func WithAllocator(alloc Allocator) Option {
	return func(b *Bench) {
		if alloc != nil {
			b.alloc = alloc
		}
	}
}

// WithPause sets the cooperative sleep between iterations. Zero disables it.
func WithPause(d time.Duration) Option {
	return func(b *Bench) {
		if d >= 0 {
			b.pause = d
		}
	}
}

// Bench holds the dependencies shared by the CPU, memory and disk kernels.
// A Bench is safe for concurrent use by many workers.
type Bench struct {
	clock  timing.Clock
	logger *slog.Logger
	alloc  Allocator
	pause  time.Duration
}

// New creates a Bench with the real clock, the platform allocator and a
// discarding logger unless overridden. On Linux kernel buffers are mapped
// with MmapAllocator; elsewhere they come from the Go heap.
func New(opts ...Option) *Bench {
	b := &Bench{
		clock:  timing.New(),
		logger: slog.New(slog.DiscardHandler),
		alloc:  defaultAllocator(),
		pause:  DefaultPause,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Bench) active(ctx context.Context, deadline time.Time) bool {
	return ctx.Err() == nil && b.clock.Now().Before(deadline)
}

// wait relinquishes the core between iterations and returns early on
// cancellation.
func (b *Bench) wait(ctx context.Context) {
	if b.pause <= 0 {
		return
	}

	t := b.clock.Timer(b.pause)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (b *Bench) since(start time.Time) float64 {
	return timing.Elapsed(start, b.clock.Now())
}
