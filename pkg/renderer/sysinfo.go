package renderer

import (
	"fmt"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// SystemInfo describes the host a render runs on
type SystemInfo struct {
	CPUModel     string
	ClockGHz     float64
	LogicalCores int
	TotalRAMGB   uint64
}

// GetSystemInfo queries CPU and memory details for render logs
func GetSystemInfo() (SystemInfo, error) {
	cpuInfo, err := cpu.Info()
	if err != nil {
		return SystemInfo{}, fmt.Errorf("failed to read CPU info: %w", err)
	}
	if len(cpuInfo) == 0 {
		return SystemInfo{}, fmt.Errorf("no CPU information available")
	}

	logical, err := cpu.Counts(true)
	if err != nil {
		logical = len(cpuInfo)
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return SystemInfo{}, fmt.Errorf("failed to read memory info: %w", err)
	}

	return SystemInfo{
		CPUModel:     cpuInfo[0].ModelName,
		ClockGHz:     cpuInfo[0].Mhz / 1000,
		LogicalCores: logical,
		TotalRAMGB:   memInfo.Total / (1024 * 1024 * 1024),
	}, nil
}

// String formats the info for a single log line
func (s SystemInfo) String() string {
	return fmt.Sprintf("%s @ %.2f GHz, %d logical cores, %d GB RAM", s.CPUModel, s.ClockGHz, s.LogicalCores, s.TotalRAMGB)
}
