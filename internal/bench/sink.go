package bench

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Stage names one timed step of a run, in report order.
type Stage string

const (
	StageLoad    Stage = "File loading"
	StageString  Stage = "String operations"
	StageInteger Stage = "Integer operations"
	StageFloat   Stage = "Float operations"
)

// Observation is one timing measurement.
type Observation struct {
	RunID   string
	Stage   Stage
	Elapsed time.Duration
}

// Sink receives observations as stages complete.
type Sink interface {
	Observe(ctx context.Context, obs Observation)
}

// ── Console ────────────────────────────────────────────────

// ConsoleReporter prints one human-readable line per observation.
type ConsoleReporter struct {
	mu     sync.Mutex
	output io.Writer
}

// NewConsoleReporter creates a reporter writing to output.
func NewConsoleReporter(output io.Writer) *ConsoleReporter {
	return &ConsoleReporter{output: output}
}

func (r *ConsoleReporter) Observe(_ context.Context, obs Observation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.output, "%s took %s\n", obs.Stage, FormatDuration(obs.Elapsed))
}

// FormatDuration renders d with two decimals in the largest unit whose
// rounded value is at least one, so 999.999µs prints as 1.00ms.
func FormatDuration(d time.Duration) string {
	ns := float64(d.Nanoseconds())
	switch {
	case ns < 999.995:
		return fmt.Sprintf("%.2fns", ns)
	case ns < 999.995e3:
		return fmt.Sprintf("%.2fµs", ns/1e3)
	case ns < 999.995e6:
		return fmt.Sprintf("%.2fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}

// ── Mock ───────────────────────────────────────────────────

// MockSink is a test-friendly Sink that records all observations.
type MockSink struct {
	mu           sync.Mutex
	Observations []Observation
}

func (m *MockSink) Observe(_ context.Context, obs Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Observations = append(m.Observations, obs)
}

// Stages returns the observed stages in order.
func (m *MockSink) Stages() []Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	stages := make([]Stage, len(m.Observations))
	for i, o := range m.Observations {
		stages[i] = o.Stage
	}
	return stages
}
