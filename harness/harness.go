package harness

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/weiihann/hwscore/workload"
	"golang.org/x/sync/errgroup"
)

// Runner executes the CPU, memory and disk families in order.
type Runner struct {
	Config Config
	Bench  *workload.Bench
	Logger *slog.Logger

	// OnWorkerDone, if set, is called from each worker's goroutine after its
	// kernel returns successfully. It must be safe for concurrent use.
	OnWorkerDone func(WorkerResult)
}

// NewRunner creates a Runner for cfg. The configuration is normalized; a nil
// bench uses the default kernels and a nil logger discards output.
func NewRunner(cfg Config, bench *workload.Bench, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if bench == nil {
		bench = workload.New(workload.WithLogger(logger))
	}

	return &Runner{
		Config: cfg.Normalize(),
		Bench:  bench,
		Logger: logger,
	}
}

// Run executes every family and returns the reduced result.
//
// Cancelling ctx is not an error: running kernels stop early with the
// counters they have, later families report zeros and the result is marked
// interrupted. A kernel error, such as a failed buffer allocation, stops the
// remaining workers of its family and is returned.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	n := r.Config.WorkersPerFamily
	res := &Result{
		Workers: make([]WorkerResult, r.Config.TotalWorkers()),
	}

	for _, fam := range Families() {
		for i := range n {
			id := fam.FirstID(n) + i
			res.Workers[id] = WorkerResult{ID: id, Family: fam}
		}
	}

	start := time.Now()

	r.Logger.InfoContext(ctx, "starting benchmark suite",
		slog.Int("workers_per_family", n),
		slog.Int("memory_block_bytes", r.Config.MemoryBlockBytes),
		slog.Int("file_bytes", r.Config.FileBytes),
		slog.Duration("duration", r.Config.Duration),
	)

	for _, fam := range Families() {
		if err := r.runFamily(ctx, fam, res.Workers); err != nil {
			return nil, fmt.Errorf("%s benchmark: %w", fam, err)
		}

		first, _ := SelectFirst(res.Workers, fam)
		res.Metrics.merge(fam, first)
		res.Aggregate.merge(fam, Sum(res.Workers, fam))
	}

	for _, w := range res.Workers {
		res.Checksum = foldChecksum(res.Checksum, w.Checksum)
	}

	res.Interrupted = ctx.Err() != nil
	res.Elapsed = time.Since(start)

	r.Logger.InfoContext(ctx, "all benchmarks completed",
		slog.Duration("elapsed", res.Elapsed),
		slog.Bool("interrupted", res.Interrupted),
	)

	return res, nil
}

// FilePath returns the disk file used by worker id.
func (r *Runner) FilePath(id int) string {
	name := fmt.Sprintf("hwscore_%d_%d.tmp", os.Getpid(), id)

	return filepath.Join(r.Config.TempDir, name)
}

// runFamily starts one goroutine per worker of fam and waits for all of
// them. Each worker writes only its own slot of workers.
func (r *Runner) runFamily(
	ctx context.Context,
	fam Family,
	workers []WorkerResult,
) error {
	n := r.Config.WorkersPerFamily
	logger := r.Logger.With(slog.String("family", fam.String()))

	logger.InfoContext(ctx, "starting family", slog.Int("workers", n))

	g, gctx := errgroup.WithContext(ctx)

	for i := range n {
		id := fam.FirstID(n) + i

		g.Go(func() error {
			defer r.lockThread(logger, id)()

			w, err := r.runWorker(gctx, logger, fam, id)
			if err != nil {
				return err
			}

			workers[id] = w

			if r.OnWorkerDone != nil {
				r.OnWorkerDone(w)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.InfoContext(ctx, "family completed")

	return nil
}

// lockThread dedicates an OS thread to the calling worker. The returned
// function releases it. A pinned thread is never released, so it exits with
// the goroutine instead of returning to the scheduler with a narrowed mask.
func (r *Runner) lockThread(logger *slog.Logger, id int) func() {
	runtime.LockOSThread()

	if !r.Config.PinWorkers {
		return runtime.UnlockOSThread
	}

	cpu, err := pinToCore(id)
	if err != nil {
		logger.Warn("failed to pin worker",
			slog.Int("worker", id),
			slog.String("error", err.Error()),
		)

		return runtime.UnlockOSThread
	}

	logger.Debug("worker pinned", slog.Int("worker", id), slog.Int("cpu", cpu))

	return func() {}
}

func (r *Runner) runWorker(
	ctx context.Context,
	logger *slog.Logger,
	fam Family,
	id int,
) (WorkerResult, error) {
	cfg := r.Config
	w := WorkerResult{ID: id, Family: fam}
	start := time.Now()

	logger.InfoContext(ctx, "worker started", slog.Int("worker", id))

	switch fam {
	case FamilyCPU:
		out := r.Bench.CPU(ctx, id, cfg.Duration)
		w.Metrics.CPUFlops = out.FLOPS
		w.Checksum = math.Float64bits(out.Sink)

	case FamilyMemory:
		out, err := r.Bench.Memory(ctx, id, cfg.Duration, cfg.MemoryBlockBytes)
		if err != nil {
			return w, err
		}

		w.Metrics.MemoryReadMBps = out.ReadMBps
		w.Metrics.MemoryWriteMBps = out.WriteMBps
		w.Checksum = uint64(out.Checksum)

	case FamilyDisk:
		out, err := r.Bench.Disk(ctx, id, cfg.Duration, r.FilePath(id), cfg.FileBytes)
		if err != nil {
			return w, err
		}

		w.Metrics.DiskReadMBps = out.ReadMBps
		w.Metrics.DiskWriteMBps = out.WriteMBps
		w.Metrics.DiskIOPS = out.IOPS
		w.Checksum = uint64(out.Checksum)

	default:
		return w, fmt.Errorf("unknown family %d", int(fam))
	}

	w.Elapsed = time.Since(start)

	logger.InfoContext(ctx, "worker completed",
		slog.Int("worker", id),
		slog.Duration("elapsed", w.Elapsed),
	)

	return w, nil
}
