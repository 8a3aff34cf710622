package workload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/weiihann/hwscore/timing"
	"golang.org/x/time/rate"
)

const (
	// iopsOps is the number of random reads per iteration.
	iopsOps = 100

	// iopsBlock is the size of each random read.
	iopsBlock = 512
)

// DiskResult is the outcome of one disk worker. Throughputs are in MiB/s.
type DiskResult struct {
	ReadMBps  float64
	WriteMBps float64
	IOPS      float64
	Checksum  byte
}

// Disk measures sequential write, sequential read and random 512-byte reads
// against the file at path for d. The file is removed before Disk returns.
func (b *Bench) Disk(
	ctx context.Context,
	id int,
	d time.Duration,
	path string,
	size int,
) (DiskResult, error) {
	logger := b.logger.With(slog.Int("worker", id), slog.String("path", path))
	logger.DebugContext(ctx, "starting disk throughput benchmark",
		slog.Int("file_bytes", size),
	)

	buf, err := b.alloc.Alloc(size)
	if err != nil {
		return DiskResult{}, fmt.Errorf("disk worker %d: %w", id, err)
	}
	defer b.alloc.Free(buf)

	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove benchmark file",
				slog.String("error", err.Error()),
			)
		}
	}()

	for i := range buf {
		buf[i] = byte((i + id) % 256)
	}

	rng := rand.New(rand.NewPCG(uint64(id), uint64(b.clock.Now().UnixNano())))
	block := make([]byte, iopsBlock)
	deadline := b.clock.Now().Add(d)
	progress := rate.Sometimes{Interval: time.Second}

	var (
		readBytes, readTime   float64
		writeBytes, writeTime float64
		seekOps, seekTime     float64
		checksum              byte
	)

	for b.active(ctx, deadline) {
		n, secs, err := b.writeFile(path, buf)
		if err == nil && n > 0 {
			writeBytes += float64(n)
			writeTime += secs
		}
		if err != nil {
			logger.DebugContext(ctx, "sequential write failed",
				slog.String("error", err.Error()),
			)
		}

		n, secs, err = b.readFile(path, buf)
		if err == nil && n > 0 {
			readBytes += float64(n)
			readTime += secs
			checksum ^= buf[n-1]
		}
		if err != nil {
			logger.DebugContext(ctx, "sequential read failed",
				slog.String("error", err.Error()),
			)
		}

		if size > iopsBlock && ctx.Err() == nil {
			ops, secs, sum, err := b.randomReads(ctx, path, size, rng, block)
			if ops > 0 {
				seekOps += float64(ops)
				seekTime += secs
				checksum ^= sum
			}
			if err != nil {
				logger.DebugContext(ctx, "random reads failed",
					slog.String("error", err.Error()),
				)
			}
		}

		progress.Do(func() {
			logger.DebugContext(ctx, "disk progress",
				slog.Float64("read_bytes", readBytes),
				slog.Float64("write_bytes", writeBytes),
				slog.Float64("seek_ops", seekOps),
			)
		})

		b.wait(ctx)
	}

	res := DiskResult{
		ReadMBps:  timing.MiBPerSecond(readBytes, readTime),
		WriteMBps: timing.MiBPerSecond(writeBytes, writeTime),
		IOPS:      timing.Rate(seekOps, seekTime),
		Checksum:  checksum,
	}

	logger.DebugContext(ctx, "disk benchmark completed",
		slog.Float64("read_mbps", res.ReadMBps),
		slog.Float64("write_mbps", res.WriteMBps),
		slog.Float64("iops", res.IOPS),
	)

	return res, nil
}

// writeFile writes buf to path in a single call and reports the bytes
// written and the seconds spent from open to close.
func (b *Bench) writeFile(path string, buf []byte) (int, float64, error) {
	start := b.clock.Now()

	f, err := os.Create(path)
	if err != nil {
		return 0, 0, fmt.Errorf("create %s: %w", path, err)
	}

	n, err := f.Write(buf)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	return n, b.since(start), err
}

// readFile reads up to len(buf) bytes of path into buf.
func (b *Bench) readFile(path string, buf []byte) (int, float64, error) {
	start := b.clock.Now()

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}

	n, err := io.ReadFull(f, buf)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}
	f.Close()

	return n, b.since(start), err
}

// randomReads seeks to iopsOps uniformly random offsets in
// [0, size-iopsBlock] and reads one block at each. It returns the number of
// reads completed.
func (b *Bench) randomReads(
	ctx context.Context,
	path string,
	size int,
	rng *rand.Rand,
	block []byte,
) (int, float64, byte, error) {
	start := b.clock.Now()

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("open %s: %w", path, err)
	}

	span := int64(size - len(block))

	var (
		ops int
		sum byte
	)

	for ops < iopsOps && ctx.Err() == nil {
		off := rng.Int64N(span + 1)

		if _, err = f.Seek(off, io.SeekStart); err != nil {
			break
		}

		if _, err = io.ReadFull(f, block); err != nil {
			break
		}

		sum ^= block[0]
		ops++
	}

	f.Close()

	return ops, b.since(start), sum, err
}
