package renderer

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultWorkerCount returns the number of logical processors, falling back to
// runtime.NumCPU when the platform query fails
func DefaultWorkerCount() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// SystemInfo describes the machine a render runs on
type SystemInfo struct {
	CPUModel      string  `json:"cpuModel"`
	ClockGHz      float64 `json:"clockGHz"`
	LogicalCores  int     `json:"logicalCores"`
	TotalMemoryMB uint64  `json:"totalMemoryMB"`
}

// GetSystemInfo queries the processor and memory of the host
func GetSystemInfo() (SystemInfo, error) {
	info := SystemInfo{LogicalCores: DefaultWorkerCount()}

	cpuInfo, err := cpu.Info()
	if err != nil {
		return info, fmt.Errorf("cpu info: %w", err)
	}
	if len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
		info.ClockGHz = cpuInfo[0].Mhz / 1000 // Convert MHz to GHz
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("memory info: %w", err)
	}
	info.TotalMemoryMB = memInfo.Total / (1024 * 1024)

	return info, nil
}

// String formats the info for a startup log line
func (si SystemInfo) String() string {
	model := si.CPUModel
	if model == "" {
		model = "unknown CPU"
	}
	return fmt.Sprintf("%s, %d logical cores, %d MB RAM", model, si.LogicalCores, si.TotalMemoryMB)
}
