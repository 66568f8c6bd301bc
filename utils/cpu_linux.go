package utils

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// AvailableCPUs returns how many CPUs this process may be scheduled on.
// It falls back to runtime.NumCPU if the affinity mask cannot be read.
func AvailableCPUs() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return runtime.NumCPU()
	}
	if n := set.Count(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}
