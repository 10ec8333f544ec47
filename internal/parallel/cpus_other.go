//go:build !linux

package parallel

func affinityCPUs() int { return 0 }
