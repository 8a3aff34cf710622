// Package harness runs the benchmark kernels family by family with a fixed
// number of parallel workers and reduces their output into one result.
package harness

import (
	"math/bits"
	"time"
)

// Metrics holds the raw measurements. Bandwidth and throughput are MiB/s.
type Metrics struct {
	CPUFlops        float64 `json:"cpu_flops"`
	MemoryReadMBps  float64 `json:"memory_read_mbps"`
	MemoryWriteMBps float64 `json:"memory_write_mbps"`
	DiskReadMBps    float64 `json:"disk_read_mbps"`
	DiskWriteMBps   float64 `json:"disk_write_mbps"`
	DiskIOPS        float64 `json:"disk_iops"`
}

// WorkerResult is the record produced by a single worker. Only the fields
// of its own family are populated.
type WorkerResult struct {
	ID       int           `json:"id"`
	Family   Family        `json:"family"`
	Metrics  Metrics       `json:"metrics"`
	Checksum uint64        `json:"checksum"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Result is the outcome of a full run.
type Result struct {
	// Metrics holds, per family, the values of the lowest-id worker. Scores
	// are computed from these.
	Metrics Metrics `json:"metrics"`

	// Aggregate holds, per family, the sum over all workers.
	Aggregate Metrics `json:"aggregate"`

	// Workers is indexed by worker id.
	Workers []WorkerResult `json:"workers"`

	// Checksum folds every kernel accumulator so none can be elided.
	Checksum uint64 `json:"checksum"`

	// Interrupted reports that the run was cancelled before completing.
	Interrupted bool `json:"interrupted"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Family returns the worker records belonging to f, ordered by id.
func (r *Result) Family(f Family) []WorkerResult {
	out := make([]WorkerResult, 0, len(r.Workers)/len(Families()))
	for _, w := range r.Workers {
		if w.Family == f {
			out = append(out, w)
		}
	}

	return out
}

// SelectFirst returns the metrics of the lowest-id worker of family f.
// The boolean is false when workers has no entry for f.
func SelectFirst(workers []WorkerResult, f Family) (Metrics, bool) {
	found := false

	var first WorkerResult

	for _, w := range workers {
		if w.Family != f {
			continue
		}
		if !found || w.ID < first.ID {
			first = w
			found = true
		}
	}

	return first.Metrics.only(f), found
}

// Sum adds up the metrics of every worker of family f.
func Sum(workers []WorkerResult, f Family) Metrics {
	var total Metrics
	for _, w := range workers {
		if w.Family == f {
			total = total.add(w.Metrics.only(f))
		}
	}

	return total
}

// only returns m with every field outside family f cleared.
func (m Metrics) only(f Family) Metrics {
	var out Metrics

	out.merge(f, m)

	return out
}

// merge copies the fields of family f from src into m.
func (m *Metrics) merge(f Family, src Metrics) {
	switch f {
	case FamilyCPU:
		m.CPUFlops = src.CPUFlops
	case FamilyMemory:
		m.MemoryReadMBps = src.MemoryReadMBps
		m.MemoryWriteMBps = src.MemoryWriteMBps
	case FamilyDisk:
		m.DiskReadMBps = src.DiskReadMBps
		m.DiskWriteMBps = src.DiskWriteMBps
		m.DiskIOPS = src.DiskIOPS
	}
}

func (m Metrics) add(o Metrics) Metrics {
	return Metrics{
		CPUFlops:        m.CPUFlops + o.CPUFlops,
		MemoryReadMBps:  m.MemoryReadMBps + o.MemoryReadMBps,
		MemoryWriteMBps: m.MemoryWriteMBps + o.MemoryWriteMBps,
		DiskReadMBps:    m.DiskReadMBps + o.DiskReadMBps,
		DiskWriteMBps:   m.DiskWriteMBps + o.DiskWriteMBps,
		DiskIOPS:        m.DiskIOPS + o.DiskIOPS,
	}
}

func foldChecksum(sum, v uint64) uint64 {
	return bits.RotateLeft64(sum, 7) ^ v
}
