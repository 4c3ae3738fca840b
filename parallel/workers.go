package parallel

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// DefaultWorkers returns the worker count used when a run does not pin one:
// the physical core count when the CPU reports it, else GOMAXPROCS.
func DefaultWorkers() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// CPUBrand returns the CPU brand string, or "unknown" when unavailable.
func CPUBrand() string {
	if b := cpuid.CPU.BrandName; b != "" {
		return b
	}
	return "unknown"
}

// HasAVX2 reports whether the CPU supports AVX2. Logged at startup since it
// dominates float throughput during training.
func HasAVX2() bool {
	return cpuid.CPU.Supports(cpuid.AVX2)
}
