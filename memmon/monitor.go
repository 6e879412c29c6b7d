package memmon

import (
	"runtime"
	"sync"
	"time"
)

// Snapshot is one module's recorded linear-memory footprint.
type Snapshot struct {
	HeapSizeBytes uint64
	Taken         time.Time
}

// Usage is the aggregate view returned by TotalUsage.
type Usage struct {
	// Modules maps module id to its tracked snapshot.
	Modules map[string]Snapshot

	// WasmTotalBytes sums the tracked module snapshots.
	WasmTotalBytes uint64

	// HostHeapBytes and HostSysBytes come from the Go runtime.
	HostHeapBytes uint64
	HostSysBytes  uint64
}

// Monitor tracks per-module memory snapshots. Safe for concurrent use.
type Monitor struct {
	mu      sync.RWMutex
	entries map[string]Snapshot
	now     func() time.Time
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		entries: make(map[string]Snapshot),
		now:     time.Now,
	}
}

// Track records a module's current linear-memory size, replacing any
// previous snapshot for the same id.
func (m *Monitor) Track(module string, heapSizeBytes uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[module] = Snapshot{
		HeapSizeBytes: heapSizeBytes,
		Taken:         m.now(),
	}
}

// Untrack removes a module's entry. Removing an untracked module is a
// no-op.
func (m *Monitor) Untrack(module string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, module)
}

// Get returns a module's snapshot.
func (m *Monitor) Get(module string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.entries[module]
	return s, ok
}

// Len returns the number of tracked modules.
func (m *Monitor) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// TotalUsage sums the tracked modules and augments the result with host
// heap figures. Sums are computed on read, not maintained incrementally.
func (m *Monitor) TotalUsage() Usage {
	m.mu.RLock()
	modules := make(map[string]Snapshot, len(m.entries))
	var total uint64
	for id, s := range m.entries {
		modules[id] = s
		total += s.HeapSizeBytes
	}
	m.mu.RUnlock()

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return Usage{
		Modules:        modules,
		WasmTotalBytes: total,
		HostHeapBytes:  stats.HeapAlloc,
		HostSysBytes:   stats.Sys,
	}
}
