package obs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerParsesLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, runID := NewLogger("warn", FormatJSON, &buf)

	if logger.Level != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %v", logger.Level)
	}
	if runID == "" {
		t.Fatalf("expected a non-empty run id")
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected a JSON formatter, got %T", logger.Formatter)
	}
}

func TestNewLoggerFallsBackToInfoOnBadLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := NewLogger("not-a-level", FormatText, &buf)
	if logger.Level != logrus.InfoLevel {
		t.Fatalf("expected fallback to info level, got %v", logger.Level)
	}
}

func TestRunLoggerTagsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger, runID := NewLogger("info", FormatJSON, &buf)
	RunLogger(logger, runID).Info("hello")

	if !strings.Contains(buf.String(), runID) {
		t.Fatalf("expected run id %q in logged output, got %q", runID, buf.String())
	}
}
