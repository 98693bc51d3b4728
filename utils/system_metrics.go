package utils

import (
	"log"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// GetCPUUsage samples aggregate CPU usage over one second, as a
// percentage. Returns 0 when sampling fails.
func GetCPUUsage() float64 {
	percentages, err := cpu.Percent(time.Second, false)
	if err != nil {
		log.Printf("CPU usage sample failed: %v", err)
		return 0
	}
	if len(percentages) == 0 {
		return 0
	}
	return percentages[0]
}
