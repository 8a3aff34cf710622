package harness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyIDs(t *testing.T) {
	assert.Equal(t, 0, FamilyCPU.FirstID(4))
	assert.Equal(t, 4, FamilyMemory.FirstID(4))
	assert.Equal(t, 8, FamilyDisk.FirstID(4))
	assert.Equal(t, "family(7)", Family(7).String())
}

func TestFamilyTextRoundTrip(t *testing.T) {
	for _, fam := range Families() {
		text, err := fam.MarshalText()
		require.NoError(t, err)

		var got Family
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, fam, got)
	}

	var f Family
	assert.Error(t, f.UnmarshalText([]byte("gpu")))
}

func TestSelectFirstPicksLowestID(t *testing.T) {
	workers := []WorkerResult{
		{ID: 6, Family: FamilyMemory, Metrics: Metrics{MemoryReadMBps: 60, MemoryWriteMBps: 61}},
		{ID: 4, Family: FamilyMemory, Metrics: Metrics{MemoryReadMBps: 40, MemoryWriteMBps: 41}},
		{ID: 5, Family: FamilyMemory, Metrics: Metrics{MemoryReadMBps: 50, MemoryWriteMBps: 51}},
		{ID: 0, Family: FamilyCPU, Metrics: Metrics{CPUFlops: 1e9}},
	}

	got, ok := SelectFirst(workers, FamilyMemory)
	require.True(t, ok)

	assert.Equal(t, Metrics{MemoryReadMBps: 40, MemoryWriteMBps: 41}, got)

	_, ok = SelectFirst(workers, FamilyDisk)
	assert.False(t, ok)
}

func TestSelectFirstIgnoresOtherFamilyFields(t *testing.T) {
	workers := []WorkerResult{
		{ID: 8, Family: FamilyDisk, Metrics: Metrics{CPUFlops: 99, DiskIOPS: 5}},
	}

	got, ok := SelectFirst(workers, FamilyDisk)
	require.True(t, ok)
	assert.Equal(t, Metrics{DiskIOPS: 5}, got)
}

func TestSum(t *testing.T) {
	workers := []WorkerResult{
		{ID: 8, Family: FamilyDisk, Metrics: Metrics{DiskReadMBps: 1, DiskWriteMBps: 2, DiskIOPS: 3}},
		{ID: 9, Family: FamilyDisk, Metrics: Metrics{DiskReadMBps: 10, DiskWriteMBps: 20, DiskIOPS: 30}},
		{ID: 0, Family: FamilyCPU, Metrics: Metrics{CPUFlops: 7}},
	}

	assert.Equal(t,
		Metrics{DiskReadMBps: 11, DiskWriteMBps: 22, DiskIOPS: 33},
		Sum(workers, FamilyDisk),
	)
	assert.Equal(t, Metrics{CPUFlops: 7}, Sum(workers, FamilyCPU))
}

func TestResultFamily(t *testing.T) {
	res := Result{Workers: []WorkerResult{
		{ID: 0, Family: FamilyCPU},
		{ID: 1, Family: FamilyCPU},
		{ID: 2, Family: FamilyMemory},
	}}

	assert.Len(t, res.Family(FamilyCPU), 2)
	assert.Len(t, res.Family(FamilyMemory), 1)
	assert.Empty(t, res.Family(FamilyDisk))
}

func TestResultJSONUsesFamilyNames(t *testing.T) {
	res := Result{Workers: []WorkerResult{{ID: 2, Family: FamilyDisk}}}

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"family":"disk"`)
}

func TestFoldChecksumOrderSensitive(t *testing.T) {
	a := foldChecksum(foldChecksum(0, 1), 2)
	b := foldChecksum(foldChecksum(0, 2), 1)

	assert.NotEqual(t, a, b)
}
