package etl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks an input or output file as zstd-compressed.
const CompressedExt = ".zst"

// IsCompressed reports whether path names a zstd-compressed file.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}

// StripCompression removes a trailing compression suffix from path.
func StripCompression(path string) string {
	if IsCompressed(path) {
		return path[:len(path)-len(CompressedExt)]
	}
	return path
}

// ReadFile reads the whole file at path, decompressing it when the
// name ends in .zst. Every failure wraps ErrRead.
func ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: filePath is required", ErrRead)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if !IsCompressed(path) {
		return data, nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create zstd decoder: %w", ErrRead, err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %w", ErrRead, path, err)
	}
	return out, nil
}

// WriteFile writes data to path, compressing it when the name ends in .zst.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if IsCompressed(path) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return fmt.Errorf("close zstd encoder: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
