// Package perf implements performance correlation: pairing a request's
// send with its receive, an event's receive with its emit, and a command's
// start with its completion, to produce timed operations with duration and
// percentile statistics. Entries that never find their pair become
// orphans.
package perf

import (
	"math"
	"sort"
	"time"

	"github.com/eirenik0/log-analyzer/internal/config"
	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

// TimedOperation is a completed, paired operation.
type TimedOperation struct {
	OpType        string // "event", "command", "request"
	Name          string
	Component     string
	ComponentID   string
	StartTime     time.Time
	EndTime       time.Time
	DurationMs    float64
	Endpoint      string // carried from the Send entry; requests only
	StatusCode    int
	HasStatusCode bool
}

// Orphan is an entry whose pair never arrived.
type Orphan struct {
	OpType      string
	Name        string
	Component   string
	ComponentID string
	Timestamp   time.Time
	Side        string // "start" (e.g. request send with no receive) or "end"
}

// OperationStats summarizes one (OpType, Name) group's durations.
type OperationStats struct {
	OpType string
	Name   string
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	P50    float64
	P95    float64
	P99    float64
}

// Results is the output of Analyze.
type Results struct {
	Operations []TimedOperation
	Orphans    []Orphan
	Stats      []OperationStats
}

// OperationsExceedingThreshold returns operations whose duration is at
// least thresholdMs.
func (r Results) OperationsExceedingThreshold(thresholdMs float64) []TimedOperation {
	var out []TimedOperation
	for _, op := range r.Operations {
		if op.DurationMs >= thresholdMs {
			out = append(out, op)
		}
	}
	return out
}

// TopSlowestOperations returns up to n operations sorted by descending
// duration.
func (r Results) TopSlowestOperations(n int) []TimedOperation {
	ops := append([]TimedOperation(nil), r.Operations...)
	sort.Slice(ops, func(i, j int) bool { return ops[i].DurationMs > ops[j].DurationMs })
	if n >= 0 && n < len(ops) {
		ops = ops[:n]
	}
	return ops
}

type pendingStart struct {
	name        string
	component   string
	componentID string
	ts          time.Time
	endpoint    string
}

// Analyze runs the correlation state machine over logs (already filtered
// by f), restricting the produced operations to opType if non-empty
// ("event", "command", or "request").
func Analyze(logs []types.LogEntry, f filter.Filter, opType string, cfg *config.Config) Results {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	trackCommands := hasCommandCompletionPatterns(logs, cfg)

	pendingRequests := make(map[string]pendingStart)
	pendingEvents := make(map[string]pendingStart)
	pendingCommands := make(map[string]pendingStart)

	var results Results

	for _, e := range logs {
		if !f.Matches(e) {
			continue
		}
		switch e.Kind {
		case types.KindRequest:
			handleRequest(e, pendingRequests, &results)
		case types.KindEvent:
			handleEvent(e, cfg, pendingEvents, &results)
		case types.KindCommand:
			if trackCommands {
				handleCommand(e, cfg, pendingCommands, &results)
			}
		}
	}

	for key, p := range pendingRequests {
		_ = key
		results.Orphans = append(results.Orphans, Orphan{OpType: "request", Name: p.name, Component: p.component, ComponentID: p.componentID, Timestamp: p.ts, Side: "start"})
	}
	for key, p := range pendingEvents {
		_ = key
		results.Orphans = append(results.Orphans, Orphan{OpType: "event", Name: p.name, Component: p.component, ComponentID: p.componentID, Timestamp: p.ts, Side: "start"})
	}
	for key, p := range pendingCommands {
		_ = key
		results.Orphans = append(results.Orphans, Orphan{OpType: "command", Name: p.name, Component: p.component, ComponentID: p.componentID, Timestamp: p.ts, Side: "start"})
	}

	if opType != "" {
		results.Operations = filterByOpType(results.Operations, opType)
		results.Orphans = filterOrphansByOpType(results.Orphans, opType)
	}

	results.Stats = computeStats(results.Operations)
	return results
}

func filterByOpType(ops []TimedOperation, opType string) []TimedOperation {
	var out []TimedOperation
	for _, op := range ops {
		if op.OpType == opType {
			out = append(out, op)
		}
	}
	return out
}

func filterOrphansByOpType(orphans []Orphan, opType string) []Orphan {
	var out []Orphan
	for _, o := range orphans {
		if o.OpType == opType {
			out = append(out, o)
		}
	}
	return out
}

func handleRequest(e types.LogEntry, pending map[string]pendingStart, results *Results) {
	key := e.Request + "|" + e.RequestID
	if e.RequestDir == types.RequestSend {
		pending[key] = pendingStart{name: e.Request, component: e.Component, componentID: e.ComponentID, ts: e.Timestamp, endpoint: e.Endpoint}
		return
	}
	start, ok := pending[key]
	if !ok {
		results.Orphans = append(results.Orphans, Orphan{OpType: "request", Name: e.Request, Component: e.Component, ComponentID: e.ComponentID, Timestamp: e.Timestamp, Side: "end"})
		return
	}
	delete(pending, key)
	results.Operations = append(results.Operations, TimedOperation{
		OpType: "request", Name: e.Request, Component: start.component, ComponentID: start.componentID,
		StartTime: start.ts, EndTime: e.Timestamp, DurationMs: durationMs(start.ts, e.Timestamp),
		Endpoint:   start.endpoint,
		StatusCode: e.StatusCode, HasStatusCode: e.HasStatusCode,
	})
}

func eventCorrelationKey(e types.LogEntry, cfg *config.Config) (string, bool) {
	payload := e.Payload()
	if payload == nil {
		return "", false
	}
	for _, k := range cfg.Perf.EventCorrelationKeys {
		if v, ok := payload.Get(k); ok {
			if s, ok := v.AsString(); ok {
				return e.EventType + "|" + s, true
			}
		}
	}
	return "", false
}

func handleEvent(e types.LogEntry, cfg *config.Config, pending map[string]pendingStart, results *Results) {
	key, ok := eventCorrelationKey(e, cfg)
	if !ok {
		return
	}
	if e.EventDirection == types.EventReceive {
		pending[key] = pendingStart{name: e.EventType, component: e.Component, componentID: e.ComponentID, ts: e.Timestamp}
		return
	}
	// Emit completes a pending Receive.
	start, ok := pending[key]
	if !ok {
		results.Orphans = append(results.Orphans, Orphan{OpType: "event", Name: e.EventType, Component: e.Component, ComponentID: e.ComponentID, Timestamp: e.Timestamp, Side: "end"})
		return
	}
	delete(pending, key)
	results.Operations = append(results.Operations, TimedOperation{
		OpType: "event", Name: e.EventType, Component: start.component, ComponentID: start.componentID,
		StartTime: start.ts, EndTime: e.Timestamp, DurationMs: durationMs(start.ts, e.Timestamp),
	})
}

func handleCommand(e types.LogEntry, cfg *config.Config, pending map[string]pendingStart, results *Results) {
	key := e.Command + ":" + e.ComponentID
	isStart := config.ParserRules{}.ContainsAnyMarker(e.Message, cfg.Perf.CommandStartMarkers)
	isFinish := config.ParserRules{}.ContainsAnyMarker(e.Message, cfg.Perf.CommandCompletionMarkers)

	if isStart {
		pending[key] = pendingStart{name: e.Command, component: e.Component, componentID: e.ComponentID, ts: e.Timestamp}
		return
	}
	if isFinish {
		start, ok := pending[key]
		if !ok {
			results.Orphans = append(results.Orphans, Orphan{OpType: "command", Name: e.Command, Component: e.Component, ComponentID: e.ComponentID, Timestamp: e.Timestamp, Side: "end"})
			return
		}
		delete(pending, key)
		results.Operations = append(results.Operations, TimedOperation{
			OpType: "command", Name: e.Command, Component: start.component, ComponentID: start.componentID,
			StartTime: start.ts, EndTime: e.Timestamp, DurationMs: durationMs(start.ts, e.Timestamp),
		})
	}
}

func hasCommandCompletionPatterns(logs []types.LogEntry, cfg *config.Config) bool {
	rules := config.ParserRules{}
	for _, e := range logs {
		if e.Kind == types.KindCommand && rules.ContainsAnyMarker(e.Message, cfg.Perf.CommandCompletionMarkers) {
			return true
		}
	}
	return false
}

func durationMs(start, end time.Time) float64 {
	return float64(end.Sub(start).Microseconds()) / 1000.0
}

func computeStats(ops []TimedOperation) []OperationStats {
	type group struct {
		opType, name string
	}
	grouped := make(map[group][]float64)
	var order []group
	for _, op := range ops {
		g := group{op.OpType, op.Name}
		if _, ok := grouped[g]; !ok {
			order = append(order, g)
		}
		grouped[g] = append(grouped[g], op.DurationMs)
	}

	var stats []OperationStats
	for _, g := range order {
		durations := grouped[g]
		sort.Float64s(durations)
		stats = append(stats, OperationStats{
			OpType: g.opType,
			Name:   g.name,
			Count:  len(durations),
			Min:    durations[0],
			Max:    durations[len(durations)-1],
			Mean:   mean(durations),
			P50:    percentile(durations, 0.50),
			P95:    percentile(durations, 0.95),
			P99:    percentile(durations, 0.99),
		})
	}
	return stats
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// percentile implements the spec's stated ceiling-index formula
// ceil(p*(n-1)) over an ascending-sorted slice, rather than the
// floor-style count*p/100 indexing: see the percentile indexing decision
// in DESIGN.md.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := int(math.Ceil(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
