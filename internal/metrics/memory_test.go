package metrics

import "testing"

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	snap := mc.Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

var sink []byte

func TestMemoryCollector_Delta(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()
	sink = make([]byte, 1<<20)
	after := mc.Snapshot()

	d := Delta(before, after)
	if d.Allocated < 1<<20 {
		t.Errorf("Allocated = %d, want at least 1 MiB", d.Allocated)
	}
	if d.PeakHeap < before.HeapAlloc {
		t.Error("PeakHeap below the first reading")
	}
}

func TestDeltaSwapped(t *testing.T) {
	t.Parallel()
	before := MemorySnapshot{TotalAlloc: 100, HeapAlloc: 10, NumGC: 5, PauseTotalNs: 40}
	after := MemorySnapshot{TotalAlloc: 300, HeapAlloc: 30, NumGC: 7, PauseTotalNs: 90}

	d := Delta(before, after)
	if d != (MemoryDelta{Allocated: 200, PeakHeap: 30, GCCycles: 2, PauseTotalNs: 50}) {
		t.Errorf("Delta = %+v", d)
	}
	if d := Delta(after, before); d.Allocated != 0 || d.GCCycles != 0 || d.PauseTotalNs != 0 {
		t.Errorf("swapped Delta = %+v, want zero counters", d)
	}
}
