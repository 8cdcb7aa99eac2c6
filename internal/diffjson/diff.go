// Package diffjson implements the semantic JSON diff used by the
// comparator: a key-order-insensitive object comparison and a best-match
// array-of-objects pairing, so reordered object keys or reordered array
// elements don't register as spurious differences.
package diffjson

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/eirenik0/log-analyzer/pkg/jsonvalue"
)

// ChangeType classifies one Difference.
type ChangeType int

const (
	Modified ChangeType = iota
	Added
	Removed
)

func (c ChangeType) String() string {
	switch c {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "modified"
	}
}

// Difference is one path-keyed change between two JSON values.
type Difference struct {
	Path       string
	Value1     jsonvalue.Value
	Value2     jsonvalue.Value
	ChangeType ChangeType
}

// Diff compares a against b and returns every Difference, path-keyed from
// the root.
func Diff(a, b jsonvalue.Value) []Difference {
	var diffs []Difference
	compareRecursive("", a, b, &diffs)
	return diffs
}

func compareRecursive(path string, a, b jsonvalue.Value, out *[]Difference) {
	if a.Kind == jsonvalue.KindObject && b.Kind == jsonvalue.KindObject {
		compareObjects(path, a, b, out)
		return
	}
	if a.Kind == jsonvalue.KindArray && b.Kind == jsonvalue.KindArray {
		compareArrays(path, a, b, out)
		return
	}
	if !jsonvalue.Equal(a, b) {
		*out = append(*out, Difference{Path: path, Value1: a, Value2: b, ChangeType: Modified})
	}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func indexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

func compareObjects(path string, a, b jsonvalue.Value, out *[]Difference) {
	for _, m := range a.Object {
		childPath := joinPath(path, m.Key)
		if bv, ok := b.Get(m.Key); ok {
			compareRecursive(childPath, m.Value, bv, out)
		} else {
			*out = append(*out, Difference{Path: childPath, Value1: m.Value, Value2: jsonvalue.Null, ChangeType: Removed})
		}
	}
	for _, m := range b.Object {
		if _, ok := a.Get(m.Key); !ok {
			*out = append(*out, Difference{Path: joinPath(path, m.Key), Value1: jsonvalue.Null, Value2: m.Value, ChangeType: Added})
		}
	}
}

func compareArrays(path string, a, b jsonvalue.Value, out *[]Difference) {
	if len(a.Array) == len(b.Array) && allObjects(a.Array) && allObjects(b.Array) {
		compareArraysBestMatch(path, a.Array, b.Array, out)
		return
	}
	compareArraysPositional(path, a.Array, b.Array, out)
}

func allObjects(items []jsonvalue.Value) bool {
	for _, v := range items {
		if v.Kind != jsonvalue.KindObject {
			return false
		}
	}
	return true
}

func compareArraysPositional(path string, a, b []jsonvalue.Value, out *[]Difference) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		childPath := indexPath(path, i)
		switch {
		case i < len(a) && i < len(b):
			compareRecursive(childPath, a[i], b[i], out)
		case i < len(a):
			*out = append(*out, Difference{Path: childPath, Value1: a[i], Value2: jsonvalue.Null, ChangeType: Removed})
		default:
			*out = append(*out, Difference{Path: childPath, Value1: jsonvalue.Null, Value2: b[i], ChangeType: Added})
		}
	}
}

// compareArraysBestMatch pairs each a[i], in order, with the unmatched b[j]
// that produces the fewest sub-differences, breaking early on a perfect
// match and ties in favor of the lowest index (first found, since the scan
// is linear). A hash memo avoids recomputing the diff count for a (a[i],
// b[j]) pair already scored.
func compareArraysBestMatch(path string, a, b []jsonvalue.Value, out *[]Difference) {
	matched := make([]bool, len(b))
	memo := make(map[uint64]int)

	for i, av := range a {
		bestJ := -1
		bestCount := -1
		for j, bv := range b {
			if matched[j] {
				continue
			}
			key := pairHash(av, bv)
			count, ok := memo[key]
			if !ok {
				var scratch []Difference
				compareRecursive("", av, bv, &scratch)
				count = len(scratch)
				memo[key] = count
			}
			if bestJ == -1 || count < bestCount {
				bestJ, bestCount = j, count
			}
			if count == 0 {
				break
			}
		}
		childPath := indexPath(path, i)
		if bestJ == -1 {
			*out = append(*out, Difference{Path: childPath, Value1: av, Value2: jsonvalue.Null, ChangeType: Removed})
			continue
		}
		matched[bestJ] = true
		compareRecursive(childPath, av, b[bestJ], out)
	}
}

func pairHash(a, b jsonvalue.Value) uint64 {
	h := xxhash.New()
	h.Write(a.CanonicalBytes())
	h.Write([]byte{0})
	h.Write(b.CanonicalBytes())
	return h.Sum64()
}
