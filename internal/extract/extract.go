// Package extract locates and parses an embedded JSON value out of a
// free-form log message, the way application code logs "<description>
// with body {...}" or "<description> with body [...]" rather than logging
// pure JSON.
package extract

import (
	"strings"

	"github.com/eirenik0/log-analyzer/pkg/jsonvalue"
)

// FromText scans text for a candidate JSON span, starting from the
// position indicated by whichever marker in indicators matches earliest in
// the text, or — if none match — from the first unquoted '{' or '['. It then
// widens the span by tracking brace/bracket depth (aware of quoted
// strings and escapes) until the opening character's own depth returns to
// zero, and parses the span with the relaxed grammar. If parsing fails,
// the search resumes just past the attempted start so a later candidate in
// the same text still has a chance.
func FromText(text string, indicators []string) (jsonvalue.Value, bool) {
	searchFrom := 0
	for searchFrom < len(text) {
		start, ok := candidateStart(text, searchFrom, indicators)
		if !ok {
			return jsonvalue.Value{}, false
		}
		end, ok := spanEnd(text, start)
		if !ok {
			searchFrom = start + 1
			continue
		}
		span := text[start:end]
		span = replaceUndefinedLiteral(span)
		v, err := jsonvalue.Parse(span)
		if err != nil {
			searchFrom = start + 1
			continue
		}
		return v, true
	}
	return jsonvalue.Value{}, false
}

// candidateStart returns the byte offset of the best guess at where a JSON
// value begins, searching text[from:].
func candidateStart(text string, from int, indicators []string) (int, bool) {
	rest := text[from:]
	bestOffset := -1
	for _, marker := range indicators {
		idx := strings.Index(rest, marker)
		if idx < 0 {
			continue
		}
		// The opening brace/bracket is the marker's trailing '{'/'[' if it
		// has one, otherwise whatever comes right after the marker text.
		openIdx := idx + len(marker)
		trimmed := strings.TrimRight(marker, " ")
		if len(trimmed) > 0 {
			last := trimmed[len(trimmed)-1]
			if last == '{' || last == '[' {
				openIdx = idx + len(trimmed) - 1
			}
		}
		if bestOffset == -1 || openIdx < bestOffset {
			bestOffset = openIdx
		}
	}
	if bestOffset != -1 {
		// Walk forward from the marker to the actual opening char, in case
		// the marker text itself doesn't include it (e.g. bare "with body").
		for bestOffset < len(rest) && rest[bestOffset] != '{' && rest[bestOffset] != '[' {
			if rest[bestOffset] != ' ' && rest[bestOffset] != '\t' {
				break
			}
			bestOffset++
		}
		if bestOffset < len(rest) && (rest[bestOffset] == '{' || rest[bestOffset] == '[') {
			return from + bestOffset, true
		}
	}
	return firstUnquotedBracket(text, from)
}

func firstUnquotedBracket(text string, from int) (int, bool) {
	inString := false
	escapeNext := false
	for i := from; i < len(text); i++ {
		c := text[i]
		if escapeNext {
			escapeNext = false
			continue
		}
		switch {
		case inString:
			if c == '\\' {
				escapeNext = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{' || c == '[':
			return i, true
		}
	}
	return 0, false
}

// spanEnd returns the offset just past the JSON value beginning at
// text[start], tracking brace/bracket depth with string-escape awareness,
// stopping when the opening character's own depth returns to zero.
func spanEnd(text string, start int) (int, bool) {
	open := text[start]
	var closeCh byte
	if open == '{' {
		closeCh = '}'
	} else {
		closeCh = ']'
	}

	braceDepth, bracketDepth := 0, 0
	inString := false
	escapeNext := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if escapeNext {
			escapeNext = false
			continue
		}
		if inString {
			if c == '\\' {
				escapeNext = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			braceDepth++
		case '}':
			braceDepth--
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
		}
		closedHere := c == closeCh
		if closedHere && braceDepth <= 0 && bracketDepth <= 0 {
			return i + 1, true
		}
	}
	return 0, false
}

func replaceUndefinedLiteral(span string) string {
	return strings.ReplaceAll(span, "undefined", "null")
}
