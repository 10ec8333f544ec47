package parallel

import "runtime"

// AvailableParallelism reports how many workers can usefully run at once.
// On Linux the scheduler affinity mask is honoured so that containers and
// taskset restrictions are respected; elsewhere it falls back to NumCPU.
// The result is never below 1.
func AvailableParallelism() int {
	n := affinityCPUs()
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if procs := runtime.GOMAXPROCS(0); procs < n {
		n = procs
	}
	if n < 1 {
		n = 1
	}
	return n
}
