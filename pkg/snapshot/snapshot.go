// Package snapshot serializes environment trees as NAR archives, optionally
// compressed with xz or zstd, so a built environment can seed new ones.
package snapshot

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression selects the archive compression
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionXZ   Compression = "xz"
	CompressionZstd Compression = "zstd"
)

// CompressionFor picks the compression from an archive file name.
func CompressionFor(path string) (Compression, error) {
	switch {
	case strings.HasSuffix(path, ".nar.xz"):
		return CompressionXZ, nil
	case strings.HasSuffix(path, ".nar.zst"):
		return CompressionZstd, nil
	case strings.HasSuffix(path, ".nar"):
		return CompressionNone, nil
	}
	return "", fmt.Errorf("unsupported archive %s: expected .nar, .nar.xz or .nar.zst", path)
}

func compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionXZ:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating xz writer: %w", err)
		}
		return xw, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return zw, nil
	case CompressionNone, "":
		return nopWriteCloser{w}, nil
	}
	return nil, fmt.Errorf("unsupported compression: %s", c)
}

func decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return io.NopCloser(xr), nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CompressionNone, "":
		return io.NopCloser(r), nil
	}
	return nil, fmt.Errorf("unsupported compression: %s", c)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
