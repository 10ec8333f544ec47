// Package sysmon samples system-wide CPU and memory usage for the dashboard
// and the health endpoint.
package sysmon

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 `json:"cpu_percent"` // 0.0 .. 100.0
	MemPercent float64 `json:"mem_percent"` // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
func Sample() Stats {
	return SampleContext(context.Background())
}

// SampleContext is Sample bounded by ctx.
// CPU uses interval=0 (delta since last call). Fields whose probe fails are
// left at zero.
func SampleContext(ctx context.Context) Stats {
	var s Stats
	cpuPcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = clampPercent(cpuPcts[0])
	}
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err == nil && vmem != nil {
		s.MemPercent = clampPercent(vmem.UsedPercent)
	}
	return s
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
