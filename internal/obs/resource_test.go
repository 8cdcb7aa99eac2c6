package obs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleResourcesReadsCurrentProcess(t *testing.T) {
	sample, err := SampleResources()
	require.NoError(t, err)
	require.GreaterOrEqual(t, sample.CPUPercent, 0.0)
}

func TestLogResourceSampleWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger, runID := NewLogger("info", FormatJSON, &buf)
	LogResourceSample(RunLogger(logger, runID), ResourceSample{CPUPercent: 1.5, RSSBytes: 2048})

	require.Contains(t, buf.String(), "rss_bytes")
	require.Contains(t, buf.String(), runID)
}
