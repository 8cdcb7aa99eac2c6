package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eirenik0/log-analyzer/internal/comparator"
	"github.com/eirenik0/log-analyzer/internal/config"
	"github.com/eirenik0/log-analyzer/internal/erroranalysis"
	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/internal/query"
	"github.com/stretchr/testify/require"
)

const sampleLog = `api (session-1) | 2026-02-25T18:34:01.220Z [INFO] Request "fetch-user" [req--1] will be sent with body {"id": 1}
api (session-1) | 2026-02-25T18:34:01.400Z [INFO] Request "fetch-user" [req--1] finished successfully with body {"id": 1, "status": 200}
worker (session-1) | 2026-02-25T18:34:02.000Z [ERROR] failed to connect to host 10.0.0.5:1234, retry 1708888888
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))
	return path
}

func TestParseFileUsesDefaultConfigWhenNil(t *testing.T) {
	path := writeSample(t)
	entries, warnings, err := ParseFile(path, nil)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, entries, 3)
}

func TestAnalyzePerformancePairsRequest(t *testing.T) {
	path := writeSample(t)
	entries, _, err := ParseFile(path, config.DefaultConfig())
	require.NoError(t, err)

	results := AnalyzePerformance(entries, filter.Filter{}, "request", config.DefaultConfig())
	require.Len(t, results.Operations, 1)
	require.Equal(t, "fetch-user", results.Operations[0].Name)
}

func TestAnalyzeErrorsClustersBySeverity(t *testing.T) {
	path := writeSample(t)
	entries, _, err := ParseFile(path, config.DefaultConfig())
	require.NoError(t, err)

	report := AnalyzeErrors(entries, filter.Filter{}, config.DefaultConfig(), erroranalysis.Options{})
	require.Len(t, report.Clusters, 1)
	require.Equal(t, "ERROR", report.Clusters[0].Severity)
}

func TestSearchAndExtractRoundTrip(t *testing.T) {
	path := writeSample(t)
	entries, _, err := ParseFile(path, config.DefaultConfig())
	require.NoError(t, err)

	rows := Search(entries, filter.Filter{}, "failed to connect", 1)
	require.NotEmpty(t, rows)

	indices := query.MatchIndices(entries, filter.Filter{}, "fetch-user")
	summary := Extract(entries, indices, "status")
	require.Equal(t, 2, summary.Matches)
}

func TestCompareFlagsNoDifferenceOnIdenticalLogs(t *testing.T) {
	path := writeSample(t)
	entries, _, err := ParseFile(path, config.DefaultConfig())
	require.NoError(t, err)

	results := Compare(entries, entries, filter.Filter{}, comparator.Options{})
	for _, c := range results.SharedComparisons {
		require.Empty(t, c.JSONDifferences)
	}
}
