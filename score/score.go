// Package score normalizes raw benchmark metrics against a fixed reference
// system. A score of 1000 means parity with the reference.
package score

import "github.com/weiihann/hwscore/harness"

// Reference system.
const (
	CPUReferenceFLOPS    = 5.0e9
	MemoryReadReference  = 10000.0 // MiB/s
	MemoryWriteReference = 8000.0  // MiB/s
	DiskReadReference    = 500.0   // MiB/s
	DiskWriteReference   = 400.0   // MiB/s
	DiskIOPSReference    = 5000.0
)

// Weights of each dimension in the overall score.
const (
	CPUWeight    = 0.40
	MemoryWeight = 0.35
	DiskWeight   = 0.25
)

const (
	parityScore = 1000.0

	memoryReadWeight  = 0.6
	memoryWriteWeight = 0.4

	diskReadWeight  = 0.4
	diskWriteWeight = 0.3
	diskIOPSWeight  = 0.3
)

// Scores are the integer results of one run.
type Scores struct {
	CPU     int `json:"cpu_score"`
	Memory  int `json:"memory_score"`
	Disk    int `json:"disk_score"`
	Overall int `json:"overall_score"`
}

// Compute derives all scores from m. It is pure: equal inputs always give
// equal scores. Every result is truncated toward zero.
func Compute(m harness.Metrics) Scores {
	var s Scores

	s.CPU = int(parityScore * (m.CPUFlops / CPUReferenceFLOPS))

	memRatio := weighted(
		memoryReadWeight, m.MemoryReadMBps/MemoryReadReference,
		memoryWriteWeight, m.MemoryWriteMBps/MemoryWriteReference,
	)
	s.Memory = int(parityScore * memRatio)

	diskRatio := weighted(
		diskReadWeight, m.DiskReadMBps/DiskReadReference,
		diskWriteWeight, m.DiskWriteMBps/DiskWriteReference,
		diskIOPSWeight, m.DiskIOPS/DiskIOPSReference,
	)
	s.Disk = int(parityScore * diskRatio)

	s.Overall = Overall(s.CPU, s.Memory, s.Disk)

	return s
}

// Overall combines the per-dimension scores into the composite.
func Overall(cpu, memory, disk int) int {
	return int(weighted(
		CPUWeight, float64(cpu),
		MemoryWeight, float64(memory),
		DiskWeight, float64(disk),
	))
}

// weighted sums weight/value pairs left to right. Each product is rounded
// on its own so fused multiply-add cannot change the result per platform.
func weighted(pairs ...float64) float64 {
	var sum float64
	for i := 0; i+1 < len(pairs); i += 2 {
		sum += float64(pairs[i] * pairs[i+1])
	}

	return sum
}
