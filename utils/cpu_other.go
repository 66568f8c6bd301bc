//go:build !linux

package utils

import "runtime"

// AvailableCPUs returns the number of logical CPUs.
func AvailableCPUs() int {
	return runtime.NumCPU()
}
