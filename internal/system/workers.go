package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
)

// frameBytes is the worst case we budget per in-flight page prep:
// a 1080x1920 RGBA canvas plus the decoded source image.
const frameBytes = 1080 * 1920 * 4 * 2

// Workers picks a page-prep parallelism level. A configured value wins;
// otherwise it uses the CPU count, trimmed so the in-flight buffers fit
// comfortably in available memory.
func Workers(configured int) int {
	if configured > 0 {
		return configured
	}

	workers := runtime.NumCPU()

	if vm, err := mem.VirtualMemory(); err == nil {
		// Keep the buffers within a quarter of what is available.
		byMemory := int(vm.Available / 4 / frameBytes)
		if byMemory < workers {
			workers = byMemory
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}
