package erroranalysis

import (
	"testing"
	"time"

	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/internal/perf"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

func entryAt(level, message, componentID string, ts time.Time) types.LogEntry {
	return types.NewGenericEntry("worker", componentID, ts, level, message, "")
}

func TestAnalyzeClustersByNormalizedPattern(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	logs := []types.LogEntry{
		entryAt("info", "ready", "session-1", base),
		entryAt("error", `Request "check" [0--f227f11e-aaaa-bbbb-cccc-1234567890ab] failed`, "session-1", base.Add(time.Second)),
		entryAt("error", `Request "check" [1--aaaaaaaa-bbbb-cccc-dddd-111111111111] failed`, "session-1", base.Add(2*time.Second)),
	}

	report := Analyze(logs, filter.Filter{}, nil, nil, Options{})
	if len(report.Clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d: %+v", len(report.Clusters), report.Clusters)
	}
	cluster := report.Clusters[0]
	if cluster.Count != 2 {
		t.Fatalf("expected count 2, got %d", cluster.Count)
	}
	if cluster.Pattern != `Request "check" [...] failed` {
		t.Fatalf("unexpected pattern %q", cluster.Pattern)
	}
	if cluster.BlockingMs <= 0 {
		t.Fatalf("expected positive blocking duration since an error followed prior activity, got %v", cluster.BlockingMs)
	}
}

func TestAnalyzeIgnoresNonErrorLevels(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	logs := []types.LogEntry{
		entryAt("info", "all good", "session-1", base),
		entryAt("debug", "trace detail", "session-1", base.Add(time.Second)),
	}
	report := Analyze(logs, filter.Filter{}, nil, nil, Options{})
	if len(report.Clusters) != 0 {
		t.Fatalf("expected no clusters, got %d", len(report.Clusters))
	}
}

func TestAnalyzeBuildsPerSessionImpactAndOutcome(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	logs := []types.LogEntry{
		// session-1: orphaned, blocked for 5s after its first error.
		entryAt("error", "disk full", "session-1", base),
		entryAt("info", "still working", "session-1", base.Add(5*time.Second)),
		// session-2: completed, blocked for 1s after its only error.
		entryAt("error", "disk full", "session-2", base),
		entryAt("info", "done", "session-2", base.Add(time.Second)),
	}
	orphans := []perf.Orphan{{OpType: "request", ComponentID: "session-1"}}

	report := Analyze(logs, filter.Filter{}, nil, orphans, Options{})
	if len(report.Clusters) != 1 {
		t.Fatalf("expected 1 cluster (both messages normalize to the same pattern), got %d: %+v", len(report.Clusters), report.Clusters)
	}
	cluster := report.Clusters[0]
	if len(cluster.Sessions) != 2 {
		t.Fatalf("expected 2 session impacts, got %+v", cluster.Sessions)
	}

	byID := map[string]SessionImpact{}
	for _, s := range cluster.Sessions {
		byID[s.ComponentID] = s
	}

	s1 := byID["session-1"]
	if s1.Outcome != Orphaned {
		t.Fatalf("expected session-1 to be orphaned, got %v", s1.Outcome)
	}
	if s1.BlockingMs != 5000 {
		t.Fatalf("expected session-1 blocked for 5000ms, got %v", s1.BlockingMs)
	}

	s2 := byID["session-2"]
	if s2.Outcome != Completed {
		t.Fatalf("expected session-2 to be completed, got %v", s2.Outcome)
	}
	if s2.BlockingMs != 1000 {
		t.Fatalf("expected session-2 blocked for 1000ms, got %v", s2.BlockingMs)
	}

	if cluster.BlockingMs != 5000 {
		t.Fatalf("expected cluster blocking_ms to be the max over sessions (5000), got %v", cluster.BlockingMs)
	}
	if report.LongestBlocking != 5000 {
		t.Fatalf("expected report longest_blocking to be 5000, got %v", report.LongestBlocking)
	}
}
