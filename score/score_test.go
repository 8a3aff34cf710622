package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weiihann/hwscore/harness"
)

func reference() harness.Metrics {
	return harness.Metrics{
		CPUFlops:        CPUReferenceFLOPS,
		MemoryReadMBps:  MemoryReadReference,
		MemoryWriteMBps: MemoryWriteReference,
		DiskReadMBps:    DiskReadReference,
		DiskWriteMBps:   DiskWriteReference,
		DiskIOPS:        DiskIOPSReference,
	}
}

func TestReferenceEquality(t *testing.T) {
	got := Compute(reference())

	assert.Equal(t, Scores{CPU: 1000, Memory: 1000, Disk: 1000, Overall: 1000}, got)
}

func TestZeroWorkload(t *testing.T) {
	assert.Equal(t, Scores{}, Compute(harness.Metrics{}))
}

func TestDiskOnlyDominance(t *testing.T) {
	got := Compute(harness.Metrics{
		DiskReadMBps:  1000,
		DiskWriteMBps: 800,
		DiskIOPS:      10000,
	})

	assert.Equal(t, 0, got.CPU)
	assert.Equal(t, 0, got.Memory)
	assert.Equal(t, 2000, got.Disk)
	assert.Equal(t, 500, got.Overall)
}

func TestMemoryWeighting(t *testing.T) {
	got := Compute(harness.Metrics{MemoryReadMBps: 10000})

	assert.Equal(t, 600, got.Memory)
}

func TestOverallComposite(t *testing.T) {
	assert.Equal(t, 880, Overall(900, 1200, 400))
}

func TestTruncatesTowardZero(t *testing.T) {
	// 0.9999 of the CPU reference is 999.9 points.
	got := Compute(harness.Metrics{CPUFlops: 0.9999 * CPUReferenceFLOPS})

	assert.Equal(t, 999, got.CPU)
	assert.Equal(t, 399, got.Overall)
}

func TestPure(t *testing.T) {
	m := harness.Metrics{
		CPUFlops:        1.234e9,
		MemoryReadMBps:  4321.5,
		MemoryWriteMBps: 2100.25,
		DiskReadMBps:    333.3,
		DiskWriteMBps:   111.1,
		DiskIOPS:        2500,
	}

	assert.Equal(t, Compute(m), Compute(m))
}

func TestDoublingFLOPSDoublesCPUScore(t *testing.T) {
	for _, flops := range []float64{1e8, 2.5e9, 5e9, 7.3e9} {
		single := Compute(harness.Metrics{CPUFlops: flops}).CPU
		double := Compute(harness.Metrics{CPUFlops: 2 * flops}).CPU

		assert.InDelta(t, 2*single, double, 1, "flops %g", flops)
	}
}

func TestMonotonic(t *testing.T) {
	base := harness.Metrics{
		CPUFlops:        2e9,
		MemoryReadMBps:  5000,
		MemoryWriteMBps: 4000,
		DiskReadMBps:    200,
		DiskWriteMBps:   150,
		DiskIOPS:        1000,
	}

	bumps := []func(*harness.Metrics){
		func(m *harness.Metrics) { m.CPUFlops *= 1.5 },
		func(m *harness.Metrics) { m.MemoryReadMBps *= 1.5 },
		func(m *harness.Metrics) { m.MemoryWriteMBps *= 1.5 },
		func(m *harness.Metrics) { m.DiskReadMBps *= 1.5 },
		func(m *harness.Metrics) { m.DiskWriteMBps *= 1.5 },
		func(m *harness.Metrics) { m.DiskIOPS *= 1.5 },
	}

	for i, bump := range bumps {
		better := base
		bump(&better)

		assert.LessOrEqual(t, Compute(base).Overall, Compute(better).Overall, "bump %d", i)
	}
}
