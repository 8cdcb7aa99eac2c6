// Package analyzer is the single entry point collaborators (a CLI, a test
// harness, a future TUI) import: it wires together the config, parsing,
// comparison, correlation, clustering, and query packages behind the nine
// operations the analyzer exposes.
package analyzer

import (
	"github.com/eirenik0/log-analyzer/internal/comparator"
	"github.com/eirenik0/log-analyzer/internal/config"
	"github.com/eirenik0/log-analyzer/internal/erroranalysis"
	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/internal/logparse"
	"github.com/eirenik0/log-analyzer/internal/perf"
	"github.com/eirenik0/log-analyzer/internal/profile"
	"github.com/eirenik0/log-analyzer/internal/query"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

// ParseFile parses a single log file under cfg's marker profile. A nil cfg
// uses the built-in base template.
func ParseFile(path string, cfg *config.Config) ([]types.LogEntry, []logparse.ParseWarning, error) {
	return logparse.ParseFile(path, cfg)
}

// Compare diffs two parsed logs under f.
func Compare(logs1, logs2 []types.LogEntry, f filter.Filter, opts comparator.Options) comparator.Results {
	return comparator.Compare(logs1, logs2, f, opts)
}

// AnalyzePerformance correlates request/event/command pairs and computes
// duration statistics, optionally restricted to one operation kind
// ("event", "command", "request", or "" for all).
func AnalyzePerformance(logs []types.LogEntry, f filter.Filter, opKind string, cfg *config.Config) perf.Results {
	return perf.Analyze(logs, f, opKind, cfg)
}

// AnalyzeErrors clusters error/warning-level entries and joins each
// cluster's sessions against the correlation engine's orphan set (an
// operation start with no matching finish marks its session orphaned) to
// compute per-session and cluster-level blocking durations.
func AnalyzeErrors(logs []types.LogEntry, f filter.Filter, cfg *config.Config, opts erroranalysis.Options) erroranalysis.Report {
	perfResults := perf.Analyze(logs, f, "", cfg)
	return erroranalysis.Analyze(logs, f, cfg, perfResults.Orphans, opts)
}

// Trace returns entries matching selector, in chronological order.
func Trace(logs []types.LogEntry, f filter.Filter, selector query.TraceSelector) []types.LogEntry {
	return query.Trace(logs, f, selector)
}

// Search finds entries whose message contains text, returning a
// context-windowed row set.
func Search(logs []types.LogEntry, f filter.Filter, text string, context int) []query.DisplayRow {
	indices := query.MatchIndices(logs, f, text)
	return query.BuildDisplayRows(logs, indices, context)
}

// Extract walks fieldPath into each entry named by matchIndices' payload
// and groups the observed values.
func Extract(logs []types.LogEntry, matchIndices []int, fieldPath string) query.ExtractSummary {
	return query.BuildExtractSummary(logs, matchIndices, fieldPath)
}

// AnalyzeProfile flags vocabulary absent from cfg's known sets.
func AnalyzeProfile(logs []types.LogEntry, cfg *config.Config) profile.Insights {
	return profile.AnalyzeProfile(logs, cfg)
}

// GenerateConfig derives a starter config from logs.
func GenerateConfig(logs []types.LogEntry, base *config.Config, profileName string) *config.Config {
	return profile.GenerateConfig(logs, base, profileName)
}
