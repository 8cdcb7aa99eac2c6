// Package filter implements the predicate every analysis operation
// applies before it sees a log entry: component/level inclusion and
// exclusion, message substring inclusion and exclusion, and an optional
// traffic direction constraint.
package filter

import (
	"strings"

	"github.com/eirenik0/log-analyzer/pkg/types"
)

// Filter composes up to seven clauses, all ANDed together. A zero-value
// Filter (all fields empty, Direction unset) matches every entry.
type Filter struct {
	Component        string
	ExcludeComponent string
	Level            string
	ExcludeLevel     string
	MessageContains  string
	MessageExcludes  string
	Direction        *types.Direction
}

// WithComponent returns a copy of f restricted to the given component.
func (f Filter) WithComponent(v string) Filter { f.Component = v; return f }

// ExcludeComponentValue returns a copy of f excluding the given component.
func (f Filter) ExcludeComponentValue(v string) Filter { f.ExcludeComponent = v; return f }

// WithLevel returns a copy of f restricted to the given level.
func (f Filter) WithLevel(v string) Filter { f.Level = v; return f }

// ExcludeLevelValue returns a copy of f excluding the given level.
func (f Filter) ExcludeLevelValue(v string) Filter { f.ExcludeLevel = v; return f }

// ContainsText returns a copy of f requiring the message to contain v.
func (f Filter) ContainsText(v string) Filter { f.MessageContains = v; return f }

// ExcludesText returns a copy of f requiring the message to not contain v.
func (f Filter) ExcludesText(v string) Filter { f.MessageExcludes = v; return f }

// WithDirection returns a copy of f restricted to the given direction.
func (f Filter) WithDirection(d types.Direction) Filter { f.Direction = &d; return f }

func containsCI(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Matches reports whether entry satisfies every configured clause.
func (f Filter) Matches(entry types.LogEntry) bool {
	if f.Component != "" && !containsCI(entry.Component, f.Component) {
		return false
	}
	if f.ExcludeComponent != "" && containsCI(entry.Component, f.ExcludeComponent) {
		return false
	}
	if f.Level != "" && !containsCI(entry.Level, f.Level) {
		return false
	}
	if f.ExcludeLevel != "" && containsCI(entry.Level, f.ExcludeLevel) {
		return false
	}
	if f.MessageContains != "" && !containsCI(entry.Message, f.MessageContains) {
		return false
	}
	if f.MessageExcludes != "" && containsCI(entry.Message, f.MessageExcludes) {
		return false
	}
	if f.Direction != nil {
		dir, ok := entry.Direction()
		if !ok || dir != *f.Direction {
			return false
		}
	}
	return true
}
