// Package query implements the trace, search, and extract operations: id/
// session-based chronological tracing, context-window text search with
// contiguous-chunk detection, and dot-path value extraction/grouping.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

// TraceSelector picks entries by a raw-line/request-id substring (Id) or by
// a component-id substring (Session).
type TraceSelector struct {
	byID    bool
	bySess  bool
	value   string
}

// ByID builds a selector matching entries whose raw line or request id
// contains needle.
func ByID(needle string) TraceSelector { return TraceSelector{byID: true, value: needle} }

// BySession builds a selector matching entries whose component id
// contains needle.
func BySession(needle string) TraceSelector { return TraceSelector{bySess: true, value: needle} }

// SelectorType returns "id" or "session".
func (s TraceSelector) SelectorType() string {
	if s.bySess {
		return "session"
	}
	return "id"
}

// Value returns the selector's needle.
func (s TraceSelector) Value() string { return s.value }

// Matches reports whether entry satisfies the selector.
func (s TraceSelector) Matches(entry types.LogEntry) bool {
	if s.bySess {
		return strings.Contains(entry.ComponentID, s.value)
	}
	if strings.Contains(entry.RawLogLine, s.value) {
		return true
	}
	return entry.Kind == types.KindRequest && strings.Contains(entry.RequestID, s.value)
}

// Trace returns entries matching f and selector, sorted chronologically.
func Trace(logs []types.LogEntry, f filter.Filter, selector TraceSelector) []types.LogEntry {
	var matched []types.LogEntry
	for _, e := range logs {
		if f.Matches(e) && selector.Matches(e) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Timestamp.Before(matched[j].Timestamp) })
	return matched
}

// TraceRow annotates a traced entry with its delta from the previous
// matched entry and its elapsed time from the first matched entry — the
// collaborator-facing rendering layer uses these for human-readable trace
// output.
type TraceRow struct {
	Entry          types.LogEntry
	DeltaMs        float64
	ElapsedMs      float64
	ComponentLabel string
}

// AnnotateTrace computes delta/elapsed timings over an already-sorted
// Trace() result.
func AnnotateTrace(entries []types.LogEntry) []TraceRow {
	if len(entries) == 0 {
		return nil
	}
	first := entries[0].Timestamp
	rows := make([]TraceRow, len(entries))
	var prev time.Time
	for i, e := range entries {
		row := TraceRow{Entry: e, ElapsedMs: e.Timestamp.Sub(first).Seconds() * 1000, ComponentLabel: componentLabel(e)}
		if i > 0 {
			row.DeltaMs = e.Timestamp.Sub(prev).Seconds() * 1000
		}
		rows[i] = row
		prev = e.Timestamp
	}
	return rows
}

func componentLabel(e types.LogEntry) string {
	if e.ComponentID == "" {
		return e.Component
	}
	return e.Component + " (" + e.ComponentID + ")"
}
