package util

import "runtime"

// GetOptimalPoolSize returns the default number of concurrent file workers.
//
// Formula: min(max(runtime.NumCPU(), 2), 16)
//
// Rewriting a component is short and mostly I/O bound (read, rewrite, rename),
// so one worker per core is plenty; the cap keeps the number of open files low
// on large machines.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU()

	if poolSize < 2 {
		poolSize = 2
	}

	if poolSize > 16 {
		poolSize = 16
	}

	return poolSize
}

// GetOptimalPoolSizeWithOverride returns pool size with optional override.
//
// If override > 0, uses override value (config or --workers flag).
// Otherwise, uses GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
