// Package erroranalysis clusters error/warning-level log entries by a
// dynamic-token-normalized message pattern, and cross-references each
// cluster against the originating sessions' lifecycle state (derived from
// the correlation engine's orphan set and last-observed activity) to
// quantify how long each session was blocked by the errors in it.
package erroranalysis

import (
	"sort"
	"time"

	"github.com/eirenik0/log-analyzer/internal/config"
	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/internal/perf"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

// Options configures which levels count as errors.
type Options struct {
	// ErrorLevels lists the case-insensitive level names treated as
	// errors/warnings worth clustering. Defaults to {"error", "warn",
	// "warning", "fatal"} when empty.
	ErrorLevels []string
}

func (o Options) levels() []string {
	if len(o.ErrorLevels) > 0 {
		return o.ErrorLevels
	}
	return []string{"error", "warn", "warning", "fatal"}
}

// Outcome is a session's disposition within a cluster: whether its
// lifecycle ran to completion or was left dangling (appears in C7's
// orphan set).
type Outcome string

const (
	Completed Outcome = "Completed"
	Orphaned  Outcome = "Orphaned"
)

// SessionImpact is one component id's contribution to a cluster: how many
// of its entries matched the cluster's pattern, the span of those
// matches, and how long the session was blocked afterward.
type SessionImpact struct {
	ComponentID         string
	ErrorCount          int
	FirstErrorTimestamp time.Time
	LastErrorTimestamp  time.Time
	Outcome             Outcome
	BlockingMs          float64
}

// ErrorCluster groups every entry whose (severity, normalized message)
// pair matched, broken down per contributing session.
type ErrorCluster struct {
	Severity      string
	Pattern       string
	Count         int
	FirstSeen     time.Time
	LastSeen      time.Time
	SampleMessage string
	Sessions      []SessionImpact
	BlockingMs    float64 // max over Sessions' BlockingMs
}

// Report is the output of Analyze.
type Report struct {
	Clusters []ErrorCluster
	// LongestBlocking is the single longest BlockingMs across all clusters.
	LongestBlocking float64
}

// sessionLifecycle is one component id's last-observed activity across
// the filtered entries, and whether it appears in C7's orphan set.
type sessionLifecycle struct {
	lastSeen time.Time
	orphaned bool
}

// Analyze clusters logs (already filtered by f) into Report.Clusters,
// sorted by severity, then count, then pattern, and cross-references each
// cluster's sessions against orphans (C7's unmatched operation starts) to
// compute per-session and cluster-level blocking durations. cfg is
// accepted for symmetry with the rest of the C1-keyed operations and
// future marker-driven clustering hints; today the profile carries
// nothing this stage reads, so it's unused.
func Analyze(logs []types.LogEntry, f filter.Filter, cfg *config.Config, orphans []perf.Orphan, opts Options) Report {
	levels := make(map[string]bool)
	for _, l := range opts.levels() {
		levels[normalizeLevel(l)] = true
	}

	lifecycle := buildSessionLifecycle(logs, f, orphans)

	type key struct{ severity, pattern string }
	type building struct {
		cluster  ErrorCluster
		sessions map[string]*SessionImpact
		order    []string
	}
	clusters := make(map[key]*building)
	var order []key

	for _, e := range logs {
		if !f.Matches(e) {
			continue
		}
		if !levels[normalizeLevel(e.Level)] {
			continue
		}

		pattern := normalizeMessagePattern(e.Message)
		k := key{normalizeLevel(e.Level), pattern}
		b, ok := clusters[k]
		if !ok {
			b = &building{
				cluster:  ErrorCluster{Severity: e.Level, Pattern: pattern, SampleMessage: e.Message, FirstSeen: e.Timestamp, LastSeen: e.Timestamp},
				sessions: make(map[string]*SessionImpact),
			}
			clusters[k] = b
			order = append(order, k)
		}
		b.cluster.Count++
		if e.Timestamp.Before(b.cluster.FirstSeen) {
			b.cluster.FirstSeen = e.Timestamp
		}
		if e.Timestamp.After(b.cluster.LastSeen) {
			b.cluster.LastSeen = e.Timestamp
		}

		s, ok := b.sessions[e.ComponentID]
		if !ok {
			s = &SessionImpact{ComponentID: e.ComponentID, FirstErrorTimestamp: e.Timestamp, LastErrorTimestamp: e.Timestamp}
			b.sessions[e.ComponentID] = s
			b.order = append(b.order, e.ComponentID)
		}
		s.ErrorCount++
		if e.Timestamp.Before(s.FirstErrorTimestamp) {
			s.FirstErrorTimestamp = e.Timestamp
		}
		if e.Timestamp.After(s.LastErrorTimestamp) {
			s.LastErrorTimestamp = e.Timestamp
		}
	}

	report := Report{}
	for _, k := range order {
		b := clusters[k]
		sort.Strings(b.order)
		for _, id := range b.order {
			s := b.sessions[id]
			life := lifecycle[id]
			if life.orphaned {
				s.Outcome = Orphaned
			} else {
				s.Outcome = Completed
			}
			s.BlockingMs = blockingMs(life.lastSeen, s.FirstErrorTimestamp)
			b.cluster.Sessions = append(b.cluster.Sessions, *s)
			if s.BlockingMs > b.cluster.BlockingMs {
				b.cluster.BlockingMs = s.BlockingMs
			}
		}
		report.Clusters = append(report.Clusters, b.cluster)
		if b.cluster.BlockingMs > report.LongestBlocking {
			report.LongestBlocking = b.cluster.BlockingMs
		}
	}
	sortClusters(report.Clusters)
	return report
}

// buildSessionLifecycle records, per component id, the latest timestamp
// observed anywhere in the filtered entries, and whether that component id
// appears in orphans (an operation start C7 never matched to a finish).
func buildSessionLifecycle(logs []types.LogEntry, f filter.Filter, orphans []perf.Orphan) map[string]sessionLifecycle {
	lifecycle := make(map[string]sessionLifecycle)
	for _, e := range logs {
		if !f.Matches(e) {
			continue
		}
		life := lifecycle[e.ComponentID]
		if e.Timestamp.After(life.lastSeen) {
			life.lastSeen = e.Timestamp
		}
		lifecycle[e.ComponentID] = life
	}
	for _, o := range orphans {
		life := lifecycle[o.ComponentID]
		life.orphaned = true
		lifecycle[o.ComponentID] = life
	}
	return lifecycle
}

// blockingMs is the interval from a session's first error in a cluster to
// the session's last observed activity, floored at zero.
func blockingMs(lastSeen, firstError time.Time) float64 {
	blocking := lastSeen.Sub(firstError).Seconds() * 1000
	if blocking < 0 {
		return 0
	}
	return blocking
}

func normalizeLevel(level string) string {
	switch level {
	case "WARN", "Warn", "warn", "WARNING", "Warning", "warning":
		return "warn"
	case "ERROR", "Error", "error":
		return "error"
	case "FATAL", "Fatal", "fatal":
		return "fatal"
	default:
		return level
	}
}

var severityRank = map[string]int{"fatal": 3, "error": 2, "warn": 1}

// sortClusters orders by descending severity rank, then descending count,
// then ascending pattern text, so the output is deterministic when two
// clusters share a rank and a count. This is the only ordering offered.
func sortClusters(clusters []ErrorCluster) {
	sort.Slice(clusters, func(i, j int) bool {
		ri, rj := severityRank[normalizeLevel(clusters[i].Severity)], severityRank[normalizeLevel(clusters[j].Severity)]
		if ri != rj {
			return ri > rj
		}
		if clusters[i].Count != clusters[j].Count {
			return clusters[i].Count > clusters[j].Count
		}
		return clusters[i].Pattern < clusters[j].Pattern
	})
}
