package workload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weiihann/hwscore/timing"
	"golang.org/x/time/rate"
)

const (
	memoryPasses = 5
	readStride   = 128
)

// MemoryResult is the outcome of one memory worker. Bandwidths are in MiB/s.
type MemoryResult struct {
	ReadMBps  float64
	WriteMBps float64
	Checksum  byte
}

// Memory measures fill and strided-read bandwidth over a private buffer of
// size bytes for d.
func (b *Bench) Memory(
	ctx context.Context,
	id int,
	d time.Duration,
	size int,
) (MemoryResult, error) {
	logger := b.logger.With(slog.Int("worker", id))
	logger.DebugContext(ctx, "starting memory bandwidth benchmark",
		slog.Int("block_bytes", size),
	)

	buf, err := b.alloc.Alloc(size)
	if err != nil {
		return MemoryResult{}, fmt.Errorf("memory worker %d: %w", id, err)
	}
	defer b.alloc.Free(buf)

	deadline := b.clock.Now().Add(d)
	progress := rate.Sometimes{Interval: time.Second}

	var (
		readBytes, readTime   float64
		writeBytes, writeTime float64
		checksum              byte
	)

	for b.active(ctx, deadline) {
		start := b.clock.Now()

		fills := 0
		for iter := 0; iter < memoryPasses && ctx.Err() == nil; iter++ {
			fill(buf, byte(iter*id))
			fills++
		}

		writeTime += b.since(start)
		writeBytes += float64(fills * len(buf))

		start = b.clock.Now()

		sweeps := 0
		for iter := 0; iter < memoryPasses && ctx.Err() == nil; iter++ {
			checksum ^= sweep(buf)
			sweeps++
		}

		readTime += b.since(start)
		readBytes += float64(sweeps * len(buf))

		progress.Do(func() {
			logger.DebugContext(ctx, "memory progress",
				slog.Float64("read_bytes", readBytes),
				slog.Float64("write_bytes", writeBytes),
			)
		})

		b.wait(ctx)
	}

	res := MemoryResult{
		ReadMBps:  timing.MiBPerSecond(readBytes, readTime),
		WriteMBps: timing.MiBPerSecond(writeBytes, writeTime),
		Checksum:  checksum,
	}

	logger.DebugContext(ctx, "memory bandwidth benchmark completed",
		slog.Float64("read_mbps", res.ReadMBps),
		slog.Float64("write_mbps", res.WriteMBps),
	)

	return res, nil
}

// fill sets every byte of buf to v by doubling copies.
func fill(buf []byte, v byte) {
	if len(buf) == 0 {
		return
	}

	buf[0] = v
	for n := 1; n < len(buf); n *= 2 {
		copy(buf[n:], buf[:n])
	}
}

// sweep XORs one byte out of every readStride bytes.
func sweep(buf []byte) byte {
	var x byte
	for i := 0; i < len(buf); i += readStride {
		x ^= buf[i]
	}

	return x
}
