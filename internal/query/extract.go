package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/eirenik0/log-analyzer/pkg/jsonvalue"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

// ExtractGroup is one distinct value observed at a field path, with how
// many matched entries carried it.
type ExtractGroup struct {
	ValueKey string
	Value    jsonvalue.Value
	Count    int
}

// ExtractSummary is the output of BuildExtractSummary.
type ExtractSummary struct {
	Matches        int
	Extracted      int
	MissingPayload int
	MissingField   int
	Groups         []ExtractGroup
}

// BuildExtractSummary walks fieldPath into each matched entry's payload,
// grouping by the serialized value observed, sorted by descending count
// then ascending serialized value.
func BuildExtractSummary(logs []types.LogEntry, matchIndices []int, fieldPath string) ExtractSummary {
	summary := ExtractSummary{Matches: len(matchIndices)}
	type groupEntry struct {
		value jsonvalue.Value
		count int
	}
	groups := make(map[string]*groupEntry)
	var order []string

	for _, idx := range matchIndices {
		payload := logs[idx].Payload()
		if payload == nil {
			summary.MissingPayload++
			continue
		}
		val, ok := ExtractFieldValue(*payload, fieldPath)
		if !ok {
			summary.MissingField++
			continue
		}
		summary.Extracted++
		key := val.Serialize()
		g, exists := groups[key]
		if !exists {
			g = &groupEntry{value: val}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
	}

	for _, key := range order {
		g := groups[key]
		summary.Groups = append(summary.Groups, ExtractGroup{ValueKey: key, Value: g.value, Count: g.count})
	}
	sort.Slice(summary.Groups, func(i, j int) bool {
		if summary.Groups[i].Count != summary.Groups[j].Count {
			return summary.Groups[i].Count > summary.Groups[j].Count
		}
		return summary.Groups[i].ValueKey < summary.Groups[j].ValueKey
	})
	return summary
}

// ExtractFieldValue traverses value by fieldPath's dot-separated segments.
// Each segment is an object-key lookup, or — when the current value is an
// array — a parsed non-negative integer index. Any missing segment, or an
// index segment over a non-array, fails the whole traversal.
func ExtractFieldValue(value jsonvalue.Value, fieldPath string) (jsonvalue.Value, bool) {
	current := value
	for _, segment := range strings.Split(fieldPath, ".") {
		if current.IsArray() {
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 {
				return jsonvalue.Value{}, false
			}
			v, ok := current.Index(i)
			if !ok {
				return jsonvalue.Value{}, false
			}
			current = v
			continue
		}
		v, ok := current.Get(segment)
		if !ok {
			return jsonvalue.Value{}, false
		}
		current = v
	}
	return current, true
}
