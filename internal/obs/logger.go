// Package obs builds the ambient observability stack for one analysis
// run: a correlation-id-tagged structured logger, prometheus counters for
// per-stage activity, an otel span per stage, and a resource sample taken
// at the end of the run.
package obs

import (
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LogFormat selects the logger's output encoding.
type LogFormat int

const (
	FormatText LogFormat = iota
	FormatJSON
)

// NewLogger builds a *logrus.Logger at level, writing to out, pre-seeded
// with a per-run correlation id field — the same shape the teacher's
// daemon logger used, scoped down to a single run instead of a process
// lifetime.
func NewLogger(level string, format LogFormat, out io.Writer) (*logrus.Logger, string) {
	logger := logrus.New()
	logger.SetOutput(out)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if format == FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	runID := uuid.NewString()
	return logger, runID
}

// RunLogger wraps a *logrus.Entry carrying the run's correlation id, so
// every call site just does runLogger.Warn(...)/.Info(...) without
// re-threading the id.
func RunLogger(logger *logrus.Logger, runID string) *logrus.Entry {
	return logger.WithField("run_id", runID)
}
