//go:build linux

package workload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmapAllocator(t *testing.T) {
	buf, err := MmapAllocator{}.Alloc(1 << 16)
	require.NoError(t, err)
	require.Len(t, buf, 1<<16)
	assert.Equal(t, byte(0), buf[len(buf)-1])

	buf[0], buf[len(buf)-1] = 1, 2
	MmapAllocator{}.Free(buf)

	_, err = MmapAllocator{}.Alloc(0)
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestMmapAllocatorRefusesOversizedBuffer(t *testing.T) {
	buf, err := MmapAllocator{}.Alloc(1 << 46)
	require.ErrorIs(t, err, ErrAllocation)
	assert.Nil(t, buf)
}

func TestMemoryReportsOversizedBlock(t *testing.T) {
	b := New(WithPause(0))

	_, err := b.Memory(context.Background(), 0, 0, 1<<46)
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestDefaultAllocatorIsMmap(t *testing.T) {
	assert.IsType(t, MmapAllocator{}, New().alloc)
}
