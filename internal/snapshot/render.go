package snapshot

import (
	"fmt"
	"strings"
)

// Render serializes a snapshot into the fixed text layout. The layout
// is a contract with existing consumers: header banner, CPU block,
// memory block, process table, total footer.
func Render(s *SystemSnapshot, pageSizeKB uint64) string {
	var b strings.Builder

	b.WriteString("===========================================\n")
	fmt.Fprintf(&b, "     Linux Kernel Monitor v%s\n", Version)
	b.WriteString("===========================================\n\n")

	b.WriteString("CPU Statistics (CPU 0):\n")
	fmt.Fprintf(&b, "  User Time:   %d ns\n", s.CPU.UserTimeNs)
	fmt.Fprintf(&b, "  System Time: %d ns\n", s.CPU.SystemTimeNs)
	fmt.Fprintf(&b, "  Idle Time:   %d ns\n\n", s.CPU.IdleTimeNs)

	b.WriteString("Memory Statistics:\n")
	fmt.Fprintf(&b, "  Total RAM:   %d pages (%d MB)\n",
		s.Memory.TotalPages, pagesToMB(s.Memory.TotalPages, pageSizeKB))
	fmt.Fprintf(&b, "  Free RAM:    %d pages (%d MB)\n",
		s.Memory.FreePages, pagesToMB(s.Memory.FreePages, pageSizeKB))
	fmt.Fprintf(&b, "  Shared RAM:  %d pages\n", s.Memory.SharedPages)
	fmt.Fprintf(&b, "  Buffer RAM:  %d pages\n\n", s.Memory.BufferPages)

	b.WriteString("Process Information:\n")
	fmt.Fprintf(&b, "%-20s %-8s %-12s\n", "Name", "PID", "Memory (KB)")
	b.WriteString("-------------------------------------------\n")
	for _, p := range s.Processes {
		fmt.Fprintf(&b, "%-20s %-8d %-12d\n", p.Name, p.PID, p.ResidentKB)
	}

	fmt.Fprintf(&b, "\nTotal Processes: %d\n", s.TotalProcesses())

	return b.String()
}

func pagesToMB(pages, pageSizeKB uint64) uint64 {
	return pages * pageSizeKB / 1024
}
