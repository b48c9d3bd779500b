package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Collector gathers a fresh SystemSnapshot on every call. It keeps no
// state between calls; the full cost of a snapshot is paid in the read
// path that asked for it.
type Collector struct {
	procRoot string
	pageSize uint64
}

// NewCollector creates a collector reading process information from
// procRoot (normally /proc) and converting byte counters to pages of
// the given size.
func NewCollector(procRoot string, pageSize int) *Collector {
	return &Collector{
		procRoot: procRoot,
		pageSize: uint64(pageSize),
	}
}

// Generate produces one complete formatted snapshot. This is the
// operation behind every read of the exposition endpoint.
func (c *Collector) Generate(ctx context.Context) (string, error) {
	snap, err := c.Collect(ctx)
	if err != nil {
		return "", err
	}
	return Render(snap, c.pageSizeKB()), nil
}

// Collect assembles a point-in-time view of CPU, memory, and process
// metrics. The process list is best-effort: processes that start or
// exit during enumeration may be missing, which is acceptable.
func (c *Collector) Collect(ctx context.Context) (*SystemSnapshot, error) {
	cpuStats, err := c.collectCPU(ctx)
	if err != nil {
		return nil, err
	}

	memStats, err := c.collectMemory(ctx)
	if err != nil {
		return nil, err
	}

	return &SystemSnapshot{
		CPU:       cpuStats,
		Memory:    memStats,
		Processes: c.collectProcesses(),
	}, nil
}

func (c *Collector) collectCPU(ctx context.Context) (CPUStats, error) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return CPUStats{}, fmt.Errorf("read cpu times: %w", err)
	}
	if len(times) == 0 {
		return CPUStats{}, fmt.Errorf("no per-cpu time counters available")
	}

	// Only the reference CPU is reported.
	t := times[0]
	return CPUStats{
		UserTimeNs:   secondsToNs(t.User),
		SystemTimeNs: secondsToNs(t.System),
		IdleTimeNs:   secondsToNs(t.Idle),
	}, nil
}

func (c *Collector) collectMemory(ctx context.Context) (MemoryStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStats{}, fmt.Errorf("read memory info: %w", err)
	}

	return MemoryStats{
		TotalPages:  vm.Total / c.pageSize,
		FreePages:   vm.Free / c.pageSize,
		SharedPages: vm.Shared / c.pageSize,
		BufferPages: vm.Buffers / c.pageSize,
	}, nil
}

// collectProcesses enumerates the live process table. The directory
// listing and the per-PID reads are not atomic with respect to each
// other; callers must not assume the result reflects one instant across
// all entries.
func (c *Collector) collectProcesses() []ProcessEntry {
	dirents, err := os.ReadDir(c.procRoot)
	if err != nil {
		return nil
	}

	entries := make([]ProcessEntry, 0, len(dirents))
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		pid, err := strconv.ParseInt(d.Name(), 10, 32)
		if err != nil {
			continue
		}
		if entry, ok := c.readProcessEntry(int32(pid)); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// readProcessEntry reads the memory accounting of a single process.
// The statm handle is held only for the one counter read and released
// on every exit path. A process with no readable memory mapping or a
// zero virtual page count (kernel threads) is reported as absent, not
// as an error; the same goes for processes that exited between the
// directory listing and this read.
func (c *Collector) readProcessEntry(pid int32) (ProcessEntry, bool) {
	pidDir := filepath.Join(c.procRoot, strconv.Itoa(int(pid)))

	f, err := os.Open(filepath.Join(pidDir, "statm"))
	if err != nil {
		return ProcessEntry{}, false
	}
	defer f.Close()

	// First statm field: total program size in pages.
	var totalVM uint64
	if _, err := fmt.Fscan(f, &totalVM); err != nil || totalVM == 0 {
		return ProcessEntry{}, false
	}

	comm, err := os.ReadFile(filepath.Join(pidDir, "comm"))
	if err != nil {
		return ProcessEntry{}, false
	}

	return ProcessEntry{
		Name:       strings.TrimSpace(string(comm)),
		PID:        pid,
		ResidentKB: totalVM * c.pageSizeKB(),
	}, true
}

func (c *Collector) pageSizeKB() uint64 {
	return c.pageSize / 1024
}

func secondsToNs(seconds float64) uint64 {
	return uint64(seconds * 1e9)
}
