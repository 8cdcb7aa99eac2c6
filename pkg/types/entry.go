// Package types defines the log entry model shared by every analysis
// component: a tagged union over event/command/request/generic records,
// plus the directional vocabulary used to correlate them.
package types

import (
	"time"

	"github.com/eirenik0/log-analyzer/pkg/jsonvalue"
)

// EventDirection distinguishes an emitted event from a received one.
type EventDirection int

const (
	EventEmit EventDirection = iota
	EventReceive
)

func (d EventDirection) String() string {
	if d == EventReceive {
		return "receive"
	}
	return "emit"
}

// RequestDirection distinguishes an outbound request from its response.
type RequestDirection int

const (
	RequestSend RequestDirection = iota
	RequestReceive
)

func (d RequestDirection) String() string {
	if d == RequestReceive {
		return "receive"
	}
	return "send"
}

// Direction unifies EventDirection and RequestDirection for filters that
// apply across both kinds: an event Emit or a request Send is Outgoing, an
// event Receive or a request Receive is Incoming.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

// LogEntryKind identifies which variant of the tagged union an entry is.
type LogEntryKind int

const (
	KindGeneric LogEntryKind = iota
	KindEvent
	KindCommand
	KindRequest
)

// LogEntry is a single parsed log record. Only the fields relevant to its
// Kind are populated; the zero value of the others is meaningless.
type LogEntry struct {
	Component   string
	ComponentID string
	Timestamp   time.Time
	Level       string
	Message     string
	RawLogLine  string
	Kind        LogEntryKind

	// KindEvent (EventPayload also holds a KindGeneric entry's payload)
	EventType      string
	EventDirection EventDirection
	EventPayload   *jsonvalue.Value

	// KindCommand
	Command        string
	CommandPayload *jsonvalue.Value

	// KindRequest
	Request        string
	RequestID      string
	Endpoint       string
	RequestDir     RequestDirection
	RequestPayload *jsonvalue.Value
	StatusCode     int
	HasStatusCode  bool
}

// NewEventEntry builds a KindEvent entry.
func NewEventEntry(component, componentID string, ts time.Time, level, message, raw string, eventType string, dir EventDirection, payload *jsonvalue.Value) LogEntry {
	return LogEntry{
		Component: component, ComponentID: componentID, Timestamp: ts, Level: level,
		Message: message, RawLogLine: raw, Kind: KindEvent,
		EventType: eventType, EventDirection: dir, EventPayload: payload,
	}
}

// NewCommandEntry builds a KindCommand entry.
func NewCommandEntry(component, componentID string, ts time.Time, level, message, raw string, command string, payload *jsonvalue.Value) LogEntry {
	return LogEntry{
		Component: component, ComponentID: componentID, Timestamp: ts, Level: level,
		Message: message, RawLogLine: raw, Kind: KindCommand,
		Command: command, CommandPayload: payload,
	}
}

// NewRequestEntry builds a KindRequest entry.
func NewRequestEntry(component, componentID string, ts time.Time, level, message, raw string, request, requestID, endpoint string, dir RequestDirection, payload *jsonvalue.Value, statusCode int, hasStatusCode bool) LogEntry {
	return LogEntry{
		Component: component, ComponentID: componentID, Timestamp: ts, Level: level,
		Message: message, RawLogLine: raw, Kind: KindRequest,
		Request: request, RequestID: requestID, Endpoint: endpoint, RequestDir: dir, RequestPayload: payload,
		StatusCode: statusCode, HasStatusCode: hasStatusCode,
	}
}

// NewGenericEntry builds a KindGeneric entry with no payload; a caller that
// found embedded JSON sets EventPayload afterwards.
func NewGenericEntry(component, componentID string, ts time.Time, level, message, raw string) LogEntry {
	return LogEntry{
		Component: component, ComponentID: componentID, Timestamp: ts, Level: level,
		Message: message, RawLogLine: raw, Kind: KindGeneric,
	}
}

// Payload returns the entry's structured payload, if any.
func (e LogEntry) Payload() *jsonvalue.Value {
	switch e.Kind {
	case KindEvent, KindGeneric:
		return e.EventPayload
	case KindCommand:
		return e.CommandPayload
	case KindRequest:
		return e.RequestPayload
	default:
		return nil
	}
}

// IsEvent reports whether e is an event of the given type.
func (e LogEntry) IsEvent(eventType string) bool {
	return e.Kind == KindEvent && e.EventType == eventType
}

// IsCommand reports whether e is the named command.
func (e LogEntry) IsCommand(command string) bool {
	return e.Kind == KindCommand && e.Command == command
}

// IsRequest reports whether e is the named request.
func (e LogEntry) IsRequest(request string) bool {
	return e.Kind == KindRequest && e.Request == request
}

// EntryType returns the tagged union's discriminator as a string, matching
// the vocabulary used by trace/search/extract output ("event", "command",
// "request", "generic").
func (e LogEntry) EntryType() string {
	switch e.Kind {
	case KindEvent:
		return "event"
	case KindCommand:
		return "command"
	case KindRequest:
		return "request"
	default:
		return "generic"
	}
}

// LogKey derives the grouping key the comparator uses to pair entries
// across two logs: component and level always participate (so the same
// event/command/request name from two different components, or logged at
// two different levels, never collide), and event/request keys further
// fold in direction so a send and its matching receive never collide.
func (e LogEntry) LogKey() string {
	switch e.Kind {
	case KindEvent:
		return e.Component + "_" + e.Level + e.EventType + "_" + e.EventDirection.String()
	case KindCommand:
		return e.Component + "_" + e.Level + e.Command
	case KindRequest:
		return e.Component + "_" + e.Level + e.Request + "_" + e.RequestDir.String()
	default:
		return e.Component + "_" + e.Level + "generic"
	}
}

// Direction converts an event or request entry's variant-specific
// direction into the unified Direction used by cross-kind filters. Commands
// are always Outgoing (they represent an issued instruction); Generic
// entries have no direction.
func (e LogEntry) Direction() (Direction, bool) {
	switch e.Kind {
	case KindEvent:
		if e.EventDirection == EventReceive {
			return Incoming, true
		}
		return Outgoing, true
	case KindRequest:
		if e.RequestDir == RequestReceive {
			return Incoming, true
		}
		return Outgoing, true
	case KindCommand:
		return Outgoing, true
	default:
		return 0, false
	}
}
