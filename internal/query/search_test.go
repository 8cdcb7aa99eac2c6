package query

import (
	"testing"
	"time"

	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

func genericLogs(messages ...string) []types.LogEntry {
	out := make([]types.LogEntry, len(messages))
	for i, m := range messages {
		out[i] = types.NewGenericEntry("worker", "s-1", time.Now(), "info", m, "")
	}
	return out
}

func TestBuildDisplayRowsUnionsContextWindows(t *testing.T) {
	logs := genericLogs("a", "b", "MATCH", "d", "e", "f", "g", "h", "MATCH", "j")
	rows := BuildDisplayRows(logs, []int{2, 8}, 1)

	// Window around idx 2: [1,3]; window around idx 8: [7,9]. Disjoint.
	wantIdx := []int{1, 2, 3, 7, 8, 9}
	if len(rows) != len(wantIdx) {
		t.Fatalf("expected %d rows, got %d: %+v", len(wantIdx), len(rows), rows)
	}
	for i, idx := range wantIdx {
		if rows[i].Idx != idx {
			t.Fatalf("row %d: expected idx %d, got %d", i, idx, rows[i].Idx)
		}
	}
	if !rows[0].NewChunk {
		t.Fatalf("expected first row to start a new chunk")
	}
	if rows[3].NewChunk == false {
		t.Fatalf("expected row at idx 7 to start a new chunk after the gap")
	}
	if rows[1].NewChunk {
		t.Fatalf("expected row at idx 2 to continue the first chunk")
	}
}

func TestMatchIndicesCaseInsensitive(t *testing.T) {
	logs := genericLogs("Connection RESET by peer", "all good")
	indices := MatchIndices(logs, filter.Filter{}, "reset")
	if len(indices) != 1 || indices[0] != 0 {
		t.Fatalf("expected match at index 0, got %+v", indices)
	}
}

func TestBuildCountGroupsSortsByCountThenKey(t *testing.T) {
	logs := []types.LogEntry{
		types.NewGenericEntry("a", "s-1", time.Now(), "info", "x", ""),
		types.NewGenericEntry("b", "s-1", time.Now(), "info", "x", ""),
		types.NewGenericEntry("b", "s-1", time.Now(), "info", "x", ""),
	}
	groups := BuildCountGroups(logs, []int{0, 1, 2}, CountByComponent)
	if len(groups) != 2 || groups[0].Key != "b" || groups[0].Count != 2 {
		t.Fatalf("expected b:2 first, got %+v", groups)
	}
}
