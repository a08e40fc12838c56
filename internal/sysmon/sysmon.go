// Package sysmon samples host load so that timing reports can say how busy
// the machine was while they were measured.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 `json:"cpu_percent"` // 0.0 .. 100.0
	MemPercent float64 `json:"mem_percent"` // 0.0 .. 100.0
	Load1      float64 `json:"load1"`
}

// Sample collects a single system-wide snapshot. CPU uses interval=0 (delta
// since the previous call). Fields that cannot be read stay zero.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	if avg, err := load.Avg(); err == nil && avg != nil {
		s.Load1 = avg.Load1
	}
	return s
}

// Host describes the machine a calibration profile was measured on.
type Host struct {
	CPUModel      string `json:"cpu_model"`
	PhysicalCores int    `json:"physical_cores"`
	LogicalCores  int    `json:"logical_cores"`
	TotalMemory   uint64 `json:"total_memory"`
}

// Describe reads the host description. Unreadable fields stay zero.
func Describe() Host {
	var h Host
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}
	if n, err := cpu.Counts(false); err == nil {
		h.PhysicalCores = n
	}
	if n, err := cpu.Counts(true); err == nil {
		h.LogicalCores = n
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		h.TotalMemory = vmem.Total
	}
	return h
}
