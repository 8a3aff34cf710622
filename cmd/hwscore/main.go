// Package main provides the CLI entry point for hwscore, a hardware
// benchmark that scores CPU, memory and disk performance against a fixed
// reference system.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/weiihann/hwscore/harness"
	"github.com/weiihann/hwscore/report"
	"github.com/weiihann/hwscore/timing"
	"github.com/weiihann/hwscore/workload"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)

	root := newRootCmd(logger, level)
	err := root.ExecuteContext(ctx)

	stop()

	if err != nil {
		logger.Error("benchmark failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type runConfig struct {
	threads    int
	memoryMB   int
	fileMB     int
	seconds    int
	verbose    bool
	tempDir    string
	outputDir  string
	outputJSON bool
	pin        bool
	progress   bool
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var cfg runConfig

	cmd := &cobra.Command{
		Use:   "hwscore",
		Short: "Score CPU, memory and disk performance",
		Long: `hwscore runs a floating-point kernel, a memory bandwidth kernel and a
disk throughput kernel, each on several parallel workers for a fixed time,
and scores the results against a reference system (1000 = parity).

Bandwidth and throughput figures, including the ReadBandwidth,
WriteBandwidth, ReadThroughput and WriteThroughput CSV columns, are in MiB/s.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case cfg.verbose:
				level.Set(slog.LevelDebug)
			case cfg.progress:
				level.Set(slog.LevelWarn)
			}

			return runBenchmark(cmd.Context(), logger, cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&cfg.threads, "threads", "t", harness.DefaultWorkers,
		"Number of workers per benchmark family")
	flags.IntVarP(&cfg.memoryMB, "memory-mb", "m",
		harness.DefaultMemoryBlockBytes/timing.MiB,
		"Memory block size in MiB")
	flags.IntVarP(&cfg.fileMB, "file-mb", "f",
		harness.DefaultFileBytes/timing.MiB,
		"Disk test file size in MiB")
	flags.IntVarP(&cfg.seconds, "duration", "d",
		int(harness.DefaultDuration/time.Second),
		"Duration of each benchmark family in seconds")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false,
		"Enable verbose output")
	flags.StringVar(&cfg.tempDir, "dir", "",
		"Directory for disk benchmark files (default: system temp dir)")
	flags.StringVar(&cfg.outputDir, "output-dir", ".",
		"Directory for benchmark_results.txt and benchmark_results.csv")
	flags.BoolVar(&cfg.outputJSON, "json", false,
		"Print results as JSON instead of a table")
	flags.BoolVar(&cfg.pin, "pin", false,
		"Pin each worker thread to a CPU core (Linux only)")
	flags.BoolVar(&cfg.progress, "progress", false,
		"Show a progress bar instead of per-worker log lines")

	return cmd
}

func (c runConfig) harnessConfig() (harness.Config, error) {
	memoryBytes, err := mibToBytes("memory-mb", c.memoryMB)
	if err != nil {
		return harness.Config{}, err
	}

	fileBytes, err := mibToBytes("file-mb", c.fileMB)
	if err != nil {
		return harness.Config{}, err
	}

	return harness.Config{
		WorkersPerFamily: c.threads,
		MemoryBlockBytes: memoryBytes,
		FileBytes:        fileBytes,
		Duration:         time.Duration(c.seconds) * time.Second,
		Verbose:          c.verbose,
		TempDir:          c.tempDir,
		PinWorkers:       c.pin,
	}.Normalize(), nil
}

// mibToBytes converts a size flag to bytes. Non-positive values pass through
// so Normalize can apply the default.
func mibToBytes(flag string, mib int) (int, error) {
	if mib > math.MaxInt/timing.MiB {
		return 0, fmt.Errorf("--%s %d: size exceeds %d MiB", flag, mib, math.MaxInt/timing.MiB)
	}

	return mib * timing.MiB, nil
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	rc runConfig,
) error {
	cfg, err := rc.harnessConfig()
	if err != nil {
		return err
	}

	stopNotice := context.AfterFunc(ctx, func() {
		logger.Warn("received termination signal, finishing with partial results")
	})
	defer stopNotice()

	bench := workload.New(workload.WithLogger(logger))
	runner := harness.NewRunner(cfg, bench, logger)

	if rc.progress && !rc.verbose {
		bar := newProgressBar(cfg.TotalWorkers())
		defer bar.Finish()

		runner.OnWorkerDone = func(w harness.WorkerResult) {
			bar.Describe(w.Family.String())
			_ = bar.Add(1)
		}
	}

	res, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run benchmarks: %w", err)
	}

	rec := report.NewRecord(cfg, res, time.Now())

	if rc.outputJSON {
		if err := report.GenerateJSON(os.Stdout, rec); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		fmt.Fprintln(os.Stdout)

		if err := report.Generate(os.Stdout, rec, cfg.Verbose); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	paths, err := report.Save(rc.outputDir, rec)
	if err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	logger.Info("results saved", slog.Any("files", paths))

	return nil
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("starting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
