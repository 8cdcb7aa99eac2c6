package diffjson

import (
	"testing"

	"github.com/eirenik0/log-analyzer/pkg/jsonvalue"
)

func mustParse(t *testing.T, text string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse(text)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return v
}

func TestDiffObjectKeyOrderIsIgnored(t *testing.T) {
	a := mustParse(t, `{"a": 1, "b": 2}`)
	b := mustParse(t, `{"b": 2, "a": 1}`)
	diffs := Diff(a, b)
	if len(diffs) != 0 {
		t.Fatalf("expected no differences, got %+v", diffs)
	}
}

func TestDiffDetectsModifiedAddedRemoved(t *testing.T) {
	a := mustParse(t, `{"a": 1, "removed": true}`)
	b := mustParse(t, `{"a": 2, "added": true}`)
	diffs := Diff(a, b)

	byPath := make(map[string]Difference)
	for _, d := range diffs {
		byPath[d.Path] = d
	}

	if d, ok := byPath["a"]; !ok || d.ChangeType != Modified {
		t.Fatalf("expected a to be Modified, got %+v ok=%v", d, ok)
	}
	if d, ok := byPath["removed"]; !ok || d.ChangeType != Removed {
		t.Fatalf("expected removed to be Removed, got %+v ok=%v", d, ok)
	}
	if d, ok := byPath["added"]; !ok || d.ChangeType != Added {
		t.Fatalf("expected added to be Added, got %+v ok=%v", d, ok)
	}
}

func TestDiffArrayBestMatchIgnoresReordering(t *testing.T) {
	a := mustParse(t, `[{"id": 1, "v": "x"}, {"id": 2, "v": "y"}]`)
	b := mustParse(t, `[{"id": 2, "v": "y"}, {"id": 1, "v": "x"}]`)
	diffs := Diff(a, b)
	if len(diffs) != 0 {
		t.Fatalf("expected reordered-but-equal array elements to produce no diffs, got %+v", diffs)
	}
}

func TestDiffArrayBestMatchFindsClosestPair(t *testing.T) {
	a := mustParse(t, `[{"id": 1, "v": "x"}, {"id": 2, "v": "y"}]`)
	b := mustParse(t, `[{"id": 2, "v": "y"}, {"id": 1, "v": "z"}]`)
	diffs := Diff(a, b)
	if len(diffs) != 1 {
		t.Fatalf("expected exactly one difference (id 1's v changed), got %+v", diffs)
	}
	if diffs[0].ChangeType != Modified {
		t.Fatalf("expected Modified, got %+v", diffs[0])
	}
}
