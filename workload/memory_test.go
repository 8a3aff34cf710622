package workload

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProducesBandwidth(t *testing.T) {
	alloc := &countingAllocator{}
	b := New(WithAllocator(alloc), WithPause(time.Millisecond))

	res, err := b.Memory(context.Background(), 5, 50*time.Millisecond, 1<<20)
	require.NoError(t, err)

	assert.Greater(t, res.ReadMBps, 0.0)
	assert.Greater(t, res.WriteMBps, 0.0)
	assert.EqualValues(t, 1, alloc.allocs.Load())
	alloc.balanced(t)
}

func TestMemoryAllocationFailure(t *testing.T) {
	alloc := &countingAllocator{fail: true}
	b := New(WithAllocator(alloc))

	res, err := b.Memory(context.Background(), 4, time.Second, 1<<20)

	assert.ErrorIs(t, err, ErrAllocation)
	assert.Zero(t, res)
	alloc.balanced(t)
}

func TestMemoryCancelledReleasesBuffer(t *testing.T) {
	alloc := &countingAllocator{}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	res, err := New(WithAllocator(alloc)).Memory(ctx, 4, time.Minute, 1<<16)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.GreaterOrEqual(t, res.ReadMBps, 0.0)
	assert.GreaterOrEqual(t, res.WriteMBps, 0.0)
	alloc.balanced(t)
}

func TestFill(t *testing.T) {
	for _, size := range []int{0, 1, 2, 3, 127, 128, 1000} {
		buf := make([]byte, size)
		fill(buf, 0xAB)

		for i, v := range buf {
			if v != 0xAB {
				t.Fatalf("size %d: buf[%d] = %#x, want 0xab", size, i, v)
			}
		}
	}
}

func TestSweepSmallBufferTouchesFirstByte(t *testing.T) {
	buf := make([]byte, 100)
	fill(buf, 0xFF)
	buf[0] = 0x5A

	assert.Equal(t, byte(0x5A), sweep(buf))
}

func TestSweepStride(t *testing.T) {
	buf := make([]byte, 3*readStride)
	buf[0] = 0x01
	buf[readStride] = 0x02
	buf[2*readStride] = 0x04
	buf[1] = 0x80

	assert.Equal(t, byte(0x07), sweep(buf))
}
