package metrics

import "testing"

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

var sink []byte

func TestMemorySnapshot_Since(t *testing.T) {
	mc := NewMemoryCollector()
	before := mc.Snapshot()
	sink = make([]byte, 4<<20)
	after := mc.Snapshot()

	d := after.Since(before)
	if d.Allocated < 4<<20 {
		t.Errorf("Allocated = %d, want at least 4 MiB", d.Allocated)
	}
	if d.PeakHeap < before.HeapAlloc || d.PeakHeap < after.HeapAlloc {
		t.Errorf("PeakHeap = %d below one of the readings (%d, %d)", d.PeakHeap, before.HeapAlloc, after.HeapAlloc)
	}
}

func TestMemorySnapshot_SinceFixed(t *testing.T) {
	t.Parallel()
	prev := MemorySnapshot{HeapAlloc: 500, TotalAlloc: 1000, NumGC: 3, PauseTotalNs: 2000}
	cur := MemorySnapshot{HeapAlloc: 300, TotalAlloc: 4000, NumGC: 5, PauseTotalNs: 5000}
	d := cur.Since(prev)
	if d.Allocated != 3000 || d.GCCycles != 2 || d.GCPause != 3000 || d.PeakHeap != 500 {
		t.Errorf("unexpected delta %+v", d)
	}
}
