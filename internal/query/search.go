package query

import (
	"sort"
	"strings"

	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

// DisplayRow is one line of a search's context-window rendering.
type DisplayRow struct {
	Idx      int
	IsMatch  bool
	NewChunk bool
}

// CountGroup is one group of a search's --count rendering.
type CountGroup struct {
	Key   string
	Count int
}

// CountBy selects what build_count_groups groups matches by.
type CountBy int

const (
	CountByMatches CountBy = iota
	CountByComponent
	CountByLevel
	CountByType
	CountByPayload
)

// MatchIndices returns the indices of entries (already filtered by f) whose
// message contains needle, case-insensitively.
func MatchIndices(logs []types.LogEntry, f filter.Filter, needle string) []int {
	var indices []int
	lower := strings.ToLower(needle)
	for i, e := range logs {
		if !f.Matches(e) {
			continue
		}
		if lower == "" || strings.Contains(strings.ToLower(e.Message), lower) {
			indices = append(indices, i)
		}
	}
	return indices
}

// BuildDisplayRows expands matchIndices into a context-window row set: for
// each match, [idx-context, idx+context] (clamped to the log bounds) is
// unioned in, and a row is flagged NewChunk when it starts a window not
// contiguous with the previous row — i.e. there's a gap in the source log
// between them.
func BuildDisplayRows(logs []types.LogEntry, matchIndices []int, context int) []DisplayRow {
	if len(matchIndices) == 0 {
		return nil
	}
	matchSet := make(map[int]bool, len(matchIndices))
	for _, idx := range matchIndices {
		matchSet[idx] = true
	}

	windowed := make(map[int]bool)
	for _, idx := range matchIndices {
		lo, hi := idx-context, idx+context
		if lo < 0 {
			lo = 0
		}
		if hi > len(logs)-1 {
			hi = len(logs) - 1
		}
		for i := lo; i <= hi; i++ {
			windowed[i] = true
		}
	}

	var ordered []int
	for idx := range windowed {
		ordered = append(ordered, idx)
	}
	sort.Ints(ordered)

	rows := make([]DisplayRow, len(ordered))
	prev := -2
	for i, idx := range ordered {
		rows[i] = DisplayRow{Idx: idx, IsMatch: matchSet[idx], NewChunk: idx > prev+1}
		prev = idx
	}
	return rows
}

// BuildCountGroups groups matchIndices by countBy, sorted by descending
// count then ascending key.
func BuildCountGroups(logs []types.LogEntry, matchIndices []int, countBy CountBy) []CountGroup {
	counts := make(map[string]int)
	for _, idx := range matchIndices {
		e := logs[idx]
		var key string
		switch countBy {
		case CountByComponent:
			key = e.Component
		case CountByLevel:
			key = e.Level
		case CountByType:
			key = e.EntryType()
		case CountByPayload:
			if p := e.Payload(); p != nil {
				key = p.Serialize()
			} else {
				key = ""
			}
		default:
			key = e.Message
		}
		counts[key]++
	}

	groups := make([]CountGroup, 0, len(counts))
	for k, c := range counts {
		groups = append(groups, CountGroup{Key: k, Count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}
