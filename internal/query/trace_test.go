package query

import (
	"testing"
	"time"

	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

func TestTraceBySessionSortsChronologically(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := types.NewGenericEntry("worker", "session-42/task-b", base.Add(2*time.Second), "info", "second", "")
	earlier := types.NewGenericEntry("worker", "session-42/task-a", base, "info", "first", "")
	other := types.NewGenericEntry("worker", "session-7", base.Add(time.Second), "info", "unrelated", "")

	logs := []types.LogEntry{later, earlier, other}
	traced := Trace(logs, filter.Filter{}, BySession("session-42"))

	if len(traced) != 2 {
		t.Fatalf("expected 2 entries matched, got %d", len(traced))
	}
	if traced[0].Message != "first" || traced[1].Message != "second" {
		t.Fatalf("expected chronological order, got %+v", traced)
	}
}

func TestTraceByIDMatchesRequestID(t *testing.T) {
	req := types.NewRequestEntry("gateway", "s-1", time.Now(), "info", "m", "", "fetch-user", "req-99", "", types.RequestSend, nil, 0, false)
	other := types.NewGenericEntry("gateway", "s-1", time.Now(), "info", "unrelated", "")

	traced := Trace([]types.LogEntry{req, other}, filter.Filter{}, ByID("req-99"))
	if len(traced) != 1 || traced[0].RequestID != "req-99" {
		t.Fatalf("expected only the matching request entry, got %+v", traced)
	}
}

func TestAnnotateTraceComputesDeltaAndElapsed(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []types.LogEntry{
		types.NewGenericEntry("worker", "s-1", base, "info", "first", ""),
		types.NewGenericEntry("worker", "s-1", base.Add(500*time.Millisecond), "info", "second", ""),
		types.NewGenericEntry("worker", "s-1", base.Add(1500*time.Millisecond), "info", "third", ""),
	}

	rows := AnnotateTrace(entries)
	if rows[0].DeltaMs != 0 || rows[0].ElapsedMs != 0 {
		t.Fatalf("expected first row to have zero delta/elapsed, got %+v", rows[0])
	}
	if rows[1].DeltaMs != 500 || rows[1].ElapsedMs != 500 {
		t.Fatalf("unexpected row 1: %+v", rows[1])
	}
	if rows[2].DeltaMs != 1000 || rows[2].ElapsedMs != 1500 {
		t.Fatalf("unexpected row 2: %+v", rows[2])
	}
}
