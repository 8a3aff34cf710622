package workload

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/weiihann/hwscore/timing"
	"golang.org/x/time/rate"
)

const (
	// cpuBatch is the number of loop iterations timed as one batch.
	cpuBatch = 1_000_000

	// cancelCheckMask sets how often inner loops poll for cancellation.
	cancelCheckMask = 1<<10 - 1

	sinkLimit = 1e100
)

// CPUResult is the outcome of one CPU worker.
type CPUResult struct {
	FLOPS float64
	// Sink is the final accumulator value.
	Sink float64
}

// CPU runs the floating-point kernel for d and returns operations per second.
func (b *Bench) CPU(ctx context.Context, id int, d time.Duration) CPUResult {
	logger := b.logger.With(slog.Int("worker", id))
	logger.DebugContext(ctx, "starting FLOPS benchmark")

	deadline := b.clock.Now().Add(d)
	progress := rate.Sometimes{Interval: time.Second}

	var acc, totalOps, totalTime float64

	for b.active(ctx, deadline) {
		start := b.clock.Now()

		var done int
		acc, done = flopsBatch(ctx, acc, cpuBatch)

		totalTime += b.since(start)
		totalOps += float64(done)

		if acc > sinkLimit {
			acc = 0
		}

		progress.Do(func() {
			logger.DebugContext(ctx, "cpu progress",
				slog.Float64("ops", totalOps),
				slog.Float64("seconds", totalTime),
			)
		})

		b.wait(ctx)
	}

	flops := timing.Rate(totalOps, totalTime)

	logger.DebugContext(ctx, "FLOPS benchmark completed",
		slog.Float64("flops", flops),
	)

	return CPUResult{FLOPS: flops, Sink: acc}
}

// flopsBatch runs up to n iterations of the mixed transcendental workload and
// returns the updated accumulator and the iterations actually executed.
func flopsBatch(ctx context.Context, acc float64, n int) (float64, int) {
	done := ctx.Done()

	for i := 1; i <= n; i++ {
		if i&cancelCheckMask == 0 {
			select {
			case <-done:
				return acc, i - 1
			default:
			}
		}

		x := float64(i)
		acc += math.Sin(x*0.1) * math.Cos(x*0.2) / math.Sqrt(x+1)
	}

	return acc, n
}
