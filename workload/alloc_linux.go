//go:build linux

package workload

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapAllocator maps anonymous private memory outside the Go heap. Requests
// larger than physical memory plus swap are refused up front, and a failed
// mapping is reported instead of aborting the runtime. Free unmaps the
// buffer.
type MmapAllocator struct{}

// Alloc returns a zeroed mapping of size bytes.
func (MmapAllocator) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid size %d", ErrAllocation, size)
	}

	limit, err := memoryLimit()
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocation, size, err)
	}

	if uint64(size) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d bytes of memory",
			ErrAllocation, size, limit)
	}

	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocation, size, err)
	}

	return buf, nil
}

// Free unmaps buf. buf must be a slice returned by Alloc.
func (MmapAllocator) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}

	_ = unix.Munmap(buf)
}

// memoryLimit reports physical memory plus swap in bytes.
func memoryLimit() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}

	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}

	return (uint64(info.Totalram) + uint64(info.Totalswap)) * unit, nil
}

func defaultAllocator() Allocator {
	return MmapAllocator{}
}
