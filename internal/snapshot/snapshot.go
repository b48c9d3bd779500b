package snapshot

// Version is the monitor version printed in the snapshot header.
const Version = "1.0.0"

// CPUStats holds the time breakdown of the reference CPU (CPU 0) in
// nanoseconds.
type CPUStats struct {
	UserTimeNs   uint64
	SystemTimeNs uint64
	IdleTimeNs   uint64
}

// MemoryStats holds aggregate memory counters in pages.
type MemoryStats struct {
	TotalPages  uint64
	FreePages   uint64
	SharedPages uint64
	BufferPages uint64
}

// ProcessEntry describes one live process with a resolvable memory
// mapping at the time it was visited. Kernel threads never appear here.
type ProcessEntry struct {
	Name       string
	PID        int32
	ResidentKB uint64
}

// SystemSnapshot is one complete point-in-time view of CPU, memory, and
// process metrics. It is built fresh for every read, consumed for
// rendering, and discarded; it is never mutated after construction and
// never shared between reads.
type SystemSnapshot struct {
	CPU       CPUStats
	Memory    MemoryStats
	Processes []ProcessEntry
}

// TotalProcesses is derived from the process list, never stored
// independently of it.
func (s *SystemSnapshot) TotalProcesses() int {
	return len(s.Processes)
}
