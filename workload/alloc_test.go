package workload

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAllocator records every Alloc and Free so tests can check that
// kernels release what they take.
type countingAllocator struct {
	allocs atomic.Int64
	frees  atomic.Int64
	fail   bool
}

func (a *countingAllocator) Alloc(size int) ([]byte, error) {
	if a.fail {
		return nil, fmt.Errorf("%w: refused %d bytes", ErrAllocation, size)
	}

	a.allocs.Add(1)

	return make([]byte, size), nil
}

func (a *countingAllocator) Free([]byte) {
	a.frees.Add(1)
}

func (a *countingAllocator) balanced(t *testing.T) {
	t.Helper()
	assert.Equal(t, a.allocs.Load(), a.frees.Load(), "allocs and frees differ")
}

func TestHeapAllocator(t *testing.T) {
	buf, err := HeapAllocator{}.Alloc(4096)
	require.NoError(t, err)
	assert.Len(t, buf, 4096)

	_, err = HeapAllocator{}.Alloc(0)
	assert.ErrorIs(t, err, ErrAllocation)

	_, err = HeapAllocator{}.Alloc(-1)
	assert.ErrorIs(t, err, ErrAllocation)
}
