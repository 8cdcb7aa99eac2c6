// Package logparse turns raw log text into the LogEntry tagged union:
// C3's record parser (header/timestamp/level extraction, multi-line
// record framing) and kind classification (event/command/request/generic)
// driven by the configured marker vocabulary.
package logparse

import (
	"strings"
	"time"

	"github.com/eirenik0/log-analyzer/internal/config"
	"github.com/eirenik0/log-analyzer/internal/extract"
	"github.com/eirenik0/log-analyzer/pkg/jsonvalue"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

// ParseWarning is a non-fatal record- or payload-level problem, returned
// alongside the parsed entries. The parser does not log warnings itself.
type ParseWarning struct {
	Line    int
	Code    string
	Message string
}

const timeLayout = "2006-01-02T15:04:05.000Z"

// ParseText frames raw into header-delimited records and classifies each
// one. A record starts on any line containing " | "; everything up to the
// next such line (or EOF) belongs to it.
func ParseText(raw string) ([]types.LogEntry, []ParseWarning, error) {
	return ParseTextWithConfig(raw, config.DefaultConfig())
}

// ParseTextWithConfig is ParseText with an explicit marker profile.
func ParseTextWithConfig(raw string, cfg *config.Config) ([]types.LogEntry, []ParseWarning, error) {
	var entries []types.LogEntry
	var warnings []ParseWarning

	lines := strings.Split(raw, "\n")
	var current strings.Builder
	var currentLine int
	haveCurrent := false

	flush := func() {
		if !haveCurrent {
			return
		}
		text := current.String()
		current.Reset()
		haveCurrent = false
		if strings.TrimSpace(text) == "" {
			return
		}
		entry, warn := parseRecord(text, currentLine, cfg)
		if warn != nil {
			warnings = append(warnings, *warn)
			if warn.Code == "RECORD_MALFORMED" {
				return
			}
		}
		entries = append(entries, entry)
	}

	for i, line := range lines {
		if strings.Contains(line, " | ") {
			flush()
			current.WriteString(line)
			currentLine = i + 1
			haveCurrent = true
			continue
		}
		if haveCurrent {
			current.WriteByte('\n')
			current.WriteString(line)
		}
	}
	flush()

	return entries, warnings, nil
}

// parseRecord classifies one framed record's text into a LogEntry.
func parseRecord(raw string, lineNo int, cfg *config.Config) (types.LogEntry, *ParseWarning) {
	headerEnd := strings.Index(raw, " | ")
	if headerEnd < 0 {
		return types.NewGenericEntry("", "", time.Time{}, "", raw, raw),
			&ParseWarning{Line: lineNo, Code: "RECORD_MALFORMED", Message: "missing header separator"}
	}

	componentPart := raw[:headerEnd]
	rest := raw[headerEnd+len(" | "):]

	component, componentID := splitComponent(componentPart)

	ts, level, message, ok := splitTimestampLevelMessage(rest)
	if !ok {
		return types.NewGenericEntry(component, componentID, time.Time{}, "", rest, raw),
			&ParseWarning{Line: lineNo, Code: "RECORD_MALFORMED", Message: "missing timestamp/level bracket"}
	}

	timestamp, tsErr := time.Parse(timeLayout, ts)
	if tsErr != nil {
		// Corrupt timestamps are not recovered, since there is no reliable
		// fallback format to retry: the RECORD_MALFORMED warning makes the
		// caller drop the record.
		return types.NewGenericEntry(component, componentID, time.Time{}, level, message, raw),
			&ParseWarning{Line: lineNo, Code: "RECORD_MALFORMED", Message: "unparseable timestamp " + ts}
	}

	entry, warn := classify(component, componentID, timestamp, level, message, raw, cfg)
	if warn != nil {
		warn.Line = lineNo
	}
	return entry, warn
}

// splitComponent extracts "name (id)" into ("name", "id"); a bare name has
// no component id.
func splitComponent(part string) (string, string) {
	part = strings.TrimSpace(part)
	firstTok := part
	if sp := strings.IndexByte(part, ' '); sp >= 0 {
		firstTok = part[:sp]
		remainder := strings.TrimSpace(part[sp+1:])
		if strings.HasPrefix(remainder, "(") && strings.HasSuffix(remainder, ")") {
			return firstTok, remainder[1 : len(remainder)-1]
		}
	}
	return firstTok, ""
}

// splitTimestampLevelMessage parses "<ts> [<level>] <message>".
func splitTimestampLevelMessage(rest string) (ts, level, message string, ok bool) {
	open := strings.IndexByte(rest, '[')
	if open < 0 {
		return "", "", "", false
	}
	close := strings.IndexByte(rest[open:], ']')
	if close < 0 {
		return "", "", "", false
	}
	close += open

	ts = strings.TrimSpace(rest[:open])
	level = strings.TrimSpace(rest[open+1 : close])
	message = rest[close+1:]
	message = strings.TrimPrefix(message, " ")
	return ts, level, message, true
}

func classify(component, componentID string, ts time.Time, level, message, raw string, cfg *config.Config) (types.LogEntry, *ParseWarning) {
	rules := cfg.Parser

	if rules.ContainsAnyMarker(message, rules.EventReceiveMarkers) {
		return classifyEvent(component, componentID, ts, level, message, raw, types.EventReceive, firstMatch(message, rules.EventReceiveMarkers), rules)
	}
	if rules.ContainsAnyMarker(message, rules.EventEmitMarkers) {
		return classifyEvent(component, componentID, ts, level, message, raw, types.EventEmit, firstMatch(message, rules.EventEmitMarkers), rules)
	}
	if rules.CommandPrefix != "" && strings.Contains(message, rules.CommandPrefix) && strings.Contains(message, rules.CommandStartMarker) {
		return classifyCommand(component, componentID, ts, level, message, raw, rules)
	}
	if rules.RequestPrefix != "" && strings.Contains(message, rules.RequestPrefix) {
		if rules.ContainsAnyMarker(message, rules.RequestSendMarkers) {
			return classifyRequest(component, componentID, ts, level, message, raw, types.RequestSend, rules)
		}
		if rules.ContainsAnyMarker(message, rules.RequestReceiveMarkers) {
			return classifyRequest(component, componentID, ts, level, message, raw, types.RequestReceive, rules)
		}
	}

	if v, ok := extract.FromText(message, rules.JSONIndicators); ok {
		entry := types.NewGenericEntry(component, componentID, ts, level, message, raw)
		entry.EventPayload = &v
		return entry, nil
	}
	return types.NewGenericEntry(component, componentID, ts, level, message, raw), nil
}

func firstMatch(text string, markers []string) string {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return m
		}
	}
	return ""
}

func classifyEvent(component, componentID string, ts time.Time, level, message, raw string, dir types.EventDirection, marker string, rules config.ParserRules) (types.LogEntry, *ParseWarning) {
	afterMarker := message
	if idx := strings.Index(message, marker); idx >= 0 {
		afterMarker = message[idx+len(marker):]
	}

	eventType, afterType := extractFirstQuoted(afterMarker)

	var payloadText string
	if rules.EventPayloadSeparator != "" {
		if idx := strings.Index(afterType, rules.EventPayloadSeparator); idx >= 0 {
			payloadText = afterType[idx+len(rules.EventPayloadSeparator):]
		}
	} else {
		payloadText = afterType
	}

	var payload *jsonvalue.Value
	var warn *ParseWarning
	if strings.TrimSpace(payloadText) != "" {
		if v, ok := extract.FromText(payloadText, rules.JSONIndicators); ok {
			payload = &v
		} else {
			warn = &ParseWarning{Code: "PAYLOAD_UNPARSEABLE", Message: "event payload did not parse: " + eventType}
		}
	}

	return types.NewEventEntry(component, componentID, ts, level, message, raw, eventType, dir, payload), warn
}

func classifyCommand(component, componentID string, ts time.Time, level, message, raw string, rules config.ParserRules) (types.LogEntry, *ParseWarning) {
	afterPrefix := message
	if idx := strings.Index(message, rules.CommandPrefix); idx >= 0 {
		afterPrefix = message[idx+len(rules.CommandPrefix):]
	}
	name, _ := extractUpTo(afterPrefix, '"')

	var payload *jsonvalue.Value
	var warn *ParseWarning
	if rules.ContainsAnyMarker(message, rules.CommandPayloadMarkers) {
		if v, ok := extract.FromText(message, rules.JSONIndicators); ok {
			payload = &v
		} else {
			warn = &ParseWarning{Code: "PAYLOAD_UNPARSEABLE", Message: "command payload did not parse: " + name}
		}
	}

	return types.NewCommandEntry(component, componentID, ts, level, message, raw, name, payload), warn
}

func classifyRequest(component, componentID string, ts time.Time, level, message, raw string, dir types.RequestDirection, rules config.ParserRules) (types.LogEntry, *ParseWarning) {
	afterPrefix := message
	if idx := strings.Index(message, rules.RequestPrefix); idx >= 0 {
		afterPrefix = message[idx+len(rules.RequestPrefix):]
	}
	name, afterName := extractUpTo(afterPrefix, '"')
	requestID := extractBracketedID(afterName)
	endpoint := extractEndpoint(message, rules.RequestEndpointMarker)

	var payload *jsonvalue.Value
	var warn *ParseWarning
	if rules.ContainsAnyMarker(message, rules.RequestPayloadMarkers) {
		if v, ok := extract.FromText(message, rules.JSONIndicators); ok {
			payload = &v
		} else {
			warn = &ParseWarning{Code: "PAYLOAD_UNPARSEABLE", Message: "request payload did not parse: " + name}
		}
	}

	statusCode, hasStatus := 0, false
	if payload != nil {
		if sc, ok := payload.Get("statusCode"); ok {
			if n, ok := sc.AsInt64(); ok {
				statusCode, hasStatus = int(n), true
			}
		}
	}

	return types.NewRequestEntry(component, componentID, ts, level, message, raw, name, requestID, endpoint, dir, payload, statusCode, hasStatus), warn
}

// extractEndpoint returns the substring between marker and the next `]"`,
// per `address "[<endpoint>]"`. Returns "" when marker is unset or absent,
// or the closing `]"` never appears.
func extractEndpoint(message, marker string) string {
	if marker == "" {
		return ""
	}
	idx := strings.Index(message, marker)
	if idx < 0 {
		return ""
	}
	after := message[idx+len(marker):]
	end := strings.Index(after, "]\"")
	if end < 0 {
		return ""
	}
	return after[:end]
}

// extractFirstQuoted returns the content of the first "..." span in text
// and the remainder of text after its closing quote.
func extractFirstQuoted(text string) (string, string) {
	start := strings.IndexByte(text, '"')
	if start < 0 {
		return "", text
	}
	end := strings.IndexByte(text[start+1:], '"')
	if end < 0 {
		return "", text
	}
	end += start + 1
	return text[start+1 : end], text[end+1:]
}

// extractUpTo returns text up to (not including) the next occurrence of
// delim, and the remainder starting just after delim.
func extractUpTo(text string, delim byte) (string, string) {
	idx := strings.IndexByte(text, delim)
	if idx < 0 {
		return text, ""
	}
	return text[:idx], text[idx+1:]
}

// extractBracketedID returns the id in a leading " [id]" span, per
// `Request "name" [request-id]`: the id must immediately follow (modulo
// whitespace) and contain "--" with no embedded spaces, distinguishing a
// real correlation id from an incidental JSON array like "[1,2,3]".
func extractBracketedID(text string) string {
	text = strings.TrimLeft(text, " ")
	if !strings.HasPrefix(text, "[") {
		return ""
	}
	end := strings.IndexByte(text, ']')
	if end < 0 {
		return ""
	}
	id := text[1:end]
	if strings.Contains(id, " ") || !strings.Contains(id, "--") {
		return ""
	}
	return id
}
