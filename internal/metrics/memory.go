package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	TotalAlloc   uint64 // cumulative bytes allocated
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
}

// MemoryDelta is the change between two snapshots taken around a
// computation.
type MemoryDelta struct {
	Allocated uint64
	GCCycles  uint32
	GCPause   time.Duration
	PeakHeap  uint64
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Since returns the delta from prev to s. PeakHeap is the larger of the two
// heap readings, which is the best bound available without sampling.
func (s MemorySnapshot) Since(prev MemorySnapshot) MemoryDelta {
	d := MemoryDelta{
		Allocated: s.TotalAlloc - prev.TotalAlloc,
		GCCycles:  s.NumGC - prev.NumGC,
		GCPause:   time.Duration(s.PauseTotalNs - prev.PauseTotalNs),
		PeakHeap:  s.HeapAlloc,
	}
	if prev.HeapAlloc > d.PeakHeap {
		d.PeakHeap = prev.HeapAlloc
	}
	return d
}
