//go:build linux

package harness

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore restricts the calling OS thread to one CPU, chosen by worker id.
// The caller must hold runtime.LockOSThread.
func pinToCore(id int) (int, error) {
	cpu := id % runtime.NumCPU()

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)

	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return 0, err
	}

	return cpu, nil
}
