package etl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ── Source ──────────────────────────────────────────────────
// A Source extracts rows from one input file.
// Implementations live in etl/sources/, one file per format.

// Failure classes every source reports through. Sources wrap the
// underlying cause with one of these so callers can classify errors.
var (
	ErrRead  = errors.New("read input")
	ErrParse = errors.New("parse input")
)

// SourceConfig is an opaque configuration map parsed per source type.
type SourceConfig map[string]any

// Config keys understood by the built-in sources.
const (
	CfgFilePath = "filePath"
	CfgTable    = "table"
)

// FilePath returns the configured input path.
func (c SourceConfig) FilePath() string {
	p, _ := c[CfgFilePath].(string)
	return p
}

// Option returns a string option or def when unset.
func (c SourceConfig) Option(key, def string) string {
	if v, ok := c[key].(string); ok && v != "" {
		return v
	}
	return def
}

// ConfigField describes a single configuration input for a source.
type ConfigField struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	Default  string `json:"default,omitempty"`
	Help     string `json:"help,omitempty"`
}

// SourceSpec describes a source type: its label, file extensions and options.
type SourceSpec struct {
	Type         string        `json:"type"`
	Label        string        `json:"label"`
	Extensions   []string      `json:"extensions"`
	ConfigFields []ConfigField `json:"configFields"`
}

// Source is the interface every input format must implement.
type Source interface {
	// Spec returns metadata about this source type.
	Spec() SourceSpec

	// Read loads the whole input and returns its rows in file order.
	Read(ctx context.Context, cfg SourceConfig) ([]Record, error)
}

// ── Source Registry ────────────────────────────────────────
// Compile-time registration via init() in each source file.

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

// RegisterSource registers a source by its spec type.
// Called from init() in each source implementation file.
func RegisterSource(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Spec().Type] = s
}

// GetSource returns a registered source by type, or an error if not found.
func GetSource(typ string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %q", typ)
	}
	return s, nil
}

// DetectSource picks a source from the file extension of path.
// A trailing compression suffix is ignored.
func DetectSource(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(StripCompression(path)))
	if ext == "" {
		return nil, fmt.Errorf("cannot detect format of %q: no file extension", path)
	}

	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, s := range registry {
		for _, e := range s.Spec().Extensions {
			if e == ext {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("no source handles %q files", ext)
}

// ListSources returns the specs of all registered sources, sorted by type.
func ListSources() []SourceSpec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	specs := make([]SourceSpec, 0, len(registry))
	for _, s := range registry {
		specs = append(specs, s.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Type < specs[j].Type })
	return specs
}
