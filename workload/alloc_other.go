//go:build !linux

package workload

func defaultAllocator() Allocator {
	return HeapAllocator{}
}
