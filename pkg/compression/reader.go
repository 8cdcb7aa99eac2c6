// Package compression provides transparent decompression of log files so
// the record parser never has to know whether its input was gzipped,
// snappy-framed, or lz4-framed on disk. Adapted from the teacher's
// HTTP-body compression codec pair into a file-input codec.
package compression

import (
	"bytes"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a detected compression format.
type Codec int

const (
	CodecNone Codec = iota
	CodecGzip
	CodecSnappy
	CodecLZ4
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	lz4Magic   = []byte{0x04, 0x22, 0x4d, 0x18}
	snappyMagicFramed = []byte("sNaPpY")
)

// DetectCodec inspects a file name and its leading bytes to decide which
// decompressor to use. Extension is checked first (cheap, and disambiguates
// snappy, which has no universally reserved magic), falling back to magic
// byte sniffing for extensionless input.
func DetectCodec(name string, head []byte) Codec {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".gzip"):
		return CodecGzip
	case strings.HasSuffix(lower, ".sz"), strings.HasSuffix(lower, ".snappy"):
		return CodecSnappy
	case strings.HasSuffix(lower, ".lz4"):
		return CodecLZ4
	}

	if len(head) >= 2 && bytes.Equal(head[:2], gzipMagic) {
		return CodecGzip
	}
	if len(head) >= 4 && bytes.Equal(head[:4], lz4Magic) {
		return CodecLZ4
	}
	if len(head) >= len(snappyMagicFramed) && bytes.Equal(head[:len(snappyMagicFramed)], snappyMagicFramed) {
		return CodecSnappy
	}
	return CodecNone
}

// NewReader wraps r with the decompressor matching codec. CodecNone
// returns r unchanged.
func NewReader(r io.Reader, codec Codec) (io.Reader, error) {
	switch codec {
	case CodecGzip:
		return gzip.NewReader(r)
	case CodecSnappy:
		return snappy.NewReader(r), nil
	case CodecLZ4:
		return lz4.NewReader(r), nil
	default:
		return r, nil
	}
}
