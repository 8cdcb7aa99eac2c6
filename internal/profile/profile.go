// Package profile implements the two config-authoring operations:
// analyze_profile flags log vocabulary the active config doesn't know
// about, and generate_config derives a starter config (including a guessed
// session-level hierarchy) straight from an observed log.
package profile

import (
	"sort"
	"strings"

	"github.com/eirenik0/log-analyzer/internal/config"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

// Insights is the output of AnalyzeProfile.
type Insights struct {
	UnknownComponents []string
	UnknownCommands   []string
	UnknownRequests   []string
	PrimarySessions   []string
	SecondarySessions []string
}

// AnalyzeProfile flags components/commands/requests observed in logs that
// aren't in cfg's known vocabularies (a vocabulary check is skipped
// entirely when the corresponding known-set is empty), and collects the
// component-id segments matching the configured primary/secondary session
// prefixes.
func AnalyzeProfile(logs []types.LogEntry, cfg *config.Config) Insights {
	unknownComponents := newStringSet()
	unknownCommands := newStringSet()
	unknownRequests := newStringSet()
	primarySessions := newStringSet()
	secondarySessions := newStringSet()

	knownComponents := lowerSet(cfg.Profile.KnownComponents)
	knownCommands := lowerSet(cfg.Profile.KnownCommands)
	knownRequests := lowerSet(cfg.Profile.KnownRequests)

	checkComponents := len(knownComponents) > 0
	checkCommands := len(knownCommands) > 0
	checkRequests := len(knownRequests) > 0

	primaryPrefix := cfg.Profile.SessionPrefixes.Primary
	secondaryPrefix := cfg.Profile.SessionPrefixes.Secondary

	for _, e := range logs {
		if checkComponents && e.Component != "" && !knownComponents[strings.ToLower(e.Component)] {
			unknownComponents.add(e.Component)
		}
		if checkCommands && e.Kind == types.KindCommand && !knownCommands[strings.ToLower(e.Command)] {
			unknownCommands.add(e.Command)
		}
		if checkRequests && e.Kind == types.KindRequest && !knownRequests[strings.ToLower(e.Request)] {
			unknownRequests.add(e.Request)
		}

		for _, segment := range strings.Split(e.ComponentID, "/") {
			if primaryPrefix != "" && strings.HasPrefix(segment, primaryPrefix) {
				primarySessions.add(segment)
			}
			if secondaryPrefix != "" && strings.HasPrefix(segment, secondaryPrefix) {
				secondarySessions.add(segment)
			}
		}
	}

	return Insights{
		UnknownComponents: unknownComponents.sorted(),
		UnknownCommands:   unknownCommands.sorted(),
		UnknownRequests:   unknownRequests.sorted(),
		PrimarySessions:   primarySessions.sorted(),
		SecondarySessions: secondarySessions.sorted(),
	}
}

// GenerateConfig derives a starter config from logs, starting from base
// (copied, not mutated) and setting its profile_name to profileName. The
// known-vocabulary sets are populated from every distinct component/
// command/request observed, session prefixes are assigned from the two
// most frequent component-id segment prefixes, and config.sessions.levels
// is auto-populated if it was empty.
func GenerateConfig(logs []types.LogEntry, base *config.Config, profileName string) *config.Config {
	cfg := *base
	cfg.ProfileName = profileName

	components := newStringSet()
	commands := newStringSet()
	requests := newStringSet()
	for _, e := range logs {
		if e.Component != "" {
			components.add(e.Component)
		}
		if e.Kind == types.KindCommand {
			commands.add(e.Command)
		}
		if e.Kind == types.KindRequest {
			requests.add(e.Request)
		}
	}
	cfg.Profile.KnownComponents = components.sorted()
	cfg.Profile.KnownCommands = commands.sorted()
	cfg.Profile.KnownRequests = requests.sorted()

	ranked := rankSessionPrefixes(logs)
	if len(ranked) > 0 {
		cfg.Profile.SessionPrefixes.Primary = ranked[0].prefix
	}
	if len(ranked) > 1 {
		cfg.Profile.SessionPrefixes.Secondary = ranked[1].prefix
	}

	if len(cfg.Sessions.Levels) == 0 {
		for i, r := range ranked {
			cfg.Sessions.Levels = append(cfg.Sessions.Levels, config.SessionLevelConfig{
				Name:          generatedSessionLevelName(i),
				SegmentPrefix: r.prefix,
			})
		}
	}

	return &cfg
}

func generatedSessionLevelName(index int) string {
	switch index {
	case 0:
		return "primary"
	case 1:
		return "secondary"
	default:
		return "level-" + itoa(index+1)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

type prefixCount struct {
	prefix string
	count  int
}

// rankSessionPrefixes scores each component-id segment's prefix (the
// substring up to and including its first '-') by how many distinct
// segments start with it, keeping only prefixes seen more than once, and
// sorts by descending count then ascending prefix.
func rankSessionPrefixes(logs []types.LogEntry) []prefixCount {
	segments := newStringSet()
	for _, e := range logs {
		for _, s := range strings.Split(e.ComponentID, "/") {
			if s != "" {
				segments.add(s)
			}
		}
	}

	counts := make(map[string]int)
	for segment := range segments.items {
		p := sessionPrefix(segment)
		if p == "" {
			continue
		}
		counts[p]++
	}

	var ranked []prefixCount
	for p, c := range counts {
		if c > 1 {
			ranked = append(ranked, prefixCount{prefix: p, count: c})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].prefix < ranked[j].prefix
	})
	return ranked
}

func sessionPrefix(segment string) string {
	idx := strings.IndexByte(segment, '-')
	if idx < 0 {
		return ""
	}
	return segment[:idx+1]
}

type stringSet struct {
	items map[string]bool
}

func newStringSet() *stringSet { return &stringSet{items: make(map[string]bool)} }

func (s *stringSet) add(v string) {
	if v != "" {
		s.items[v] = true
	}
}

func (s *stringSet) sorted() []string {
	out := make([]string, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func lowerSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[strings.ToLower(v)] = true
	}
	return out
}
