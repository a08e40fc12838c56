package metrics

import "runtime"

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

// MemoryDelta is the allocation activity between two snapshots.
type MemoryDelta struct {
	Allocated    uint64 // bytes allocated in between
	PeakHeap     uint64 // larger of the two heap readings
	GCCycles     uint32
	PauseTotalNs uint64
}

// Delta returns the activity from before to after. Counters that went
// backwards, which only happens when the snapshots are swapped, give zero.
func Delta(before, after MemorySnapshot) MemoryDelta {
	sub := func(a, b uint64) uint64 {
		if a < b {
			return 0
		}
		return a - b
	}
	d := MemoryDelta{
		Allocated:    sub(after.TotalAlloc, before.TotalAlloc),
		PeakHeap:     max(before.HeapAlloc, after.HeapAlloc),
		PauseTotalNs: sub(after.PauseTotalNs, before.PauseTotalNs),
	}
	if after.NumGC > before.NumGC {
		d.GCCycles = after.NumGC - before.NumGC
	}
	return d
}
