package logparse

import (
	"testing"

	"github.com/eirenik0/log-analyzer/internal/config"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

func TestParseTextClassifiesEvent(t *testing.T) {
	raw := `worker (session-abc) | 2026-02-25T18:34:01.220Z [INFO] Emit event of type "tick" with payload {"key": "abc"}`
	entries, warnings, err := ParseText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", warnings)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Kind != types.KindEvent || e.EventType != "tick" || e.EventDirection != types.EventEmit {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Component != "worker" || e.ComponentID != "session-abc" {
		t.Fatalf("unexpected component fields: %+v", e)
	}
	if e.EventPayload == nil {
		t.Fatalf("expected a parsed payload")
	}
}

func TestParseTextClassifiesCommand(t *testing.T) {
	raw := `scheduler | 2026-02-25T18:34:01.220Z [INFO] Command "rebalance" is called with settings {"retries": 3}`
	entries, _, err := ParseText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != types.KindCommand || entries[0].Command != "rebalance" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParseTextClassifiesRequestWithID(t *testing.T) {
	raw := `api | 2026-02-25T18:34:01.220Z [INFO] Request "fetch" [req--1234] will be sent with body {"q": 1}`
	entries, _, err := ParseText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Kind != types.KindRequest || e.Request != "fetch" || e.RequestDir != types.RequestSend {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.RequestID != "req--1234" {
		t.Fatalf("expected request id req--1234, got %q", e.RequestID)
	}
}

func TestParseTextClassifiesRequestWithEndpoint(t *testing.T) {
	raw := `api | 2026-02-25T18:34:01.220Z [INFO] Request "fetch" [req--1234] will be sent to address "[/v1/users/42]" with body {"q": 1}`
	entries, _, err := ParseText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Endpoint != "/v1/users/42" {
		t.Fatalf("expected endpoint /v1/users/42, got %q", entries[0].Endpoint)
	}
}

func TestParseTextDropsRecordWithMalformedTimestamp(t *testing.T) {
	raw := `api | not-a-timestamp [INFO] hello`
	entries, warnings, err := ParseText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected the malformed record to be dropped, got %+v", entries)
	}
	if len(warnings) != 1 || warnings[0].Code != "RECORD_MALFORMED" {
		t.Fatalf("expected a RECORD_MALFORMED warning, got %+v", warnings)
	}
}

func TestParseTextMultiLineRecord(t *testing.T) {
	raw := "worker | 2026-02-25T18:34:01.220Z [INFO] Emit event of type \"tick\" with payload {\n  \"key\": \"abc\"\n}"
	entries, _, err := ParseText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the continuation lines to fold into 1 record, got %d", len(entries))
	}
	if entries[0].EventPayload == nil {
		t.Fatalf("expected payload to parse across the multi-line record")
	}
}

func TestParseTextWithConfigUsesCustomMarkers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Parser.EventEmitMarkers = []string{"Dispatched event"}
	raw := `worker | 2026-02-25T18:34:01.220Z [INFO] Dispatched event of type "tick" with payload {"key": "x"}`
	entries, _, err := ParseTextWithConfig(raw, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != types.KindEvent {
		t.Fatalf("expected custom marker to still classify as event, got %+v", entries)
	}
}
