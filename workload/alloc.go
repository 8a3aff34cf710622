package workload

import (
	"errors"
	"fmt"
)

// ErrAllocation is returned when a kernel cannot obtain its buffer.
var ErrAllocation = errors.New("buffer allocation failed")

// Allocator hands out the private buffers kernels work on. Every successful
// Alloc is paired with exactly one Free by the kernel that made it.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op; the buffer
// becomes garbage once the kernel returns. Only an out-of-range length is
// reported as an error; the runtime aborts when the heap itself is
// exhausted.
type HeapAllocator struct{}

// Alloc returns a zeroed buffer of size bytes.
func (HeapAllocator) Alloc(size int) (buf []byte, err error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid size %d", ErrAllocation, size)
	}

	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("%w: %d bytes: %v", ErrAllocation, size, r)
		}
	}()

	return make([]byte, size), nil
}

// Free releases buf.
func (HeapAllocator) Free([]byte) {}
