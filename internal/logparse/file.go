package logparse

import (
	"io"
	"os"

	"github.com/eirenik0/log-analyzer/internal/config"
	apperrors "github.com/eirenik0/log-analyzer/pkg/errors"
	"github.com/eirenik0/log-analyzer/pkg/compression"
	"github.com/eirenik0/log-analyzer/pkg/types"
)

// ParseFile reads path, transparently decompressing it if its extension or
// magic bytes indicate gzip/snappy/lz4, and parses the resulting text.
// Any failure to open or read the file is a fatal Input-IO error; record-
// and payload-level problems are never returned as errors, only as
// ParseWarnings.
func ParseFile(path string, cfg *config.Config) ([]types.LogEntry, []ParseWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.New(apperrors.CodeInputIO, "logparse", "parse_file", "opening log file").Wrap(err).WithMetadata("path", path)
	}
	defer f.Close()

	head := make([]byte, 16)
	n, _ := io.ReadFull(f, head)
	head = head[:n]
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, apperrors.New(apperrors.CodeInputIO, "logparse", "parse_file", "seeking log file").Wrap(err).WithMetadata("path", path)
	}

	codec := compression.DetectCodec(path, head)
	reader, err := compression.NewReader(f, codec)
	if err != nil {
		return nil, nil, apperrors.New(apperrors.CodeInputIO, "logparse", "parse_file", "initializing decompressor").Wrap(err).WithMetadata("path", path)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, apperrors.New(apperrors.CodeInputIO, "logparse", "parse_file", "reading log file").Wrap(err).WithMetadata("path", path)
	}

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return ParseTextWithConfig(string(data), cfg)
}
