package obs

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// ResourceSample is a point-in-time process resource reading.
type ResourceSample struct {
	CPUPercent    float64
	RSSBytes      uint64
	NumGoroutines int
}

// SampleResources reads the current process's CPU/RSS, the same shape the
// teacher's resource monitor reported, scoped to a single sample taken at
// the end of an analysis run rather than a periodic daemon sample.
func SampleResources() (ResourceSample, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ResourceSample{}, err
	}
	cpuPct, err := proc.CPUPercent()
	if err != nil {
		return ResourceSample{}, err
	}
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return ResourceSample{}, err
	}
	return ResourceSample{CPUPercent: cpuPct, RSSBytes: memInfo.RSS}, nil
}

// LogResourceSample reports a ResourceSample at Info level.
func LogResourceSample(logger *logrus.Entry, sample ResourceSample) {
	logger.WithFields(logrus.Fields{
		"cpu_percent": sample.CPUPercent,
		"rss_bytes":   sample.RSSBytes,
	}).Info("analysis run resource sample")
}
