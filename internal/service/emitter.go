package service

import (
	"context"
	"log"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples the service from how runs are surfaced
// ─────────────────────────────────────────────────────────────

// Events emitted by BenchService.
const (
	EventRunCompleted = "bench:run-completed" // data: *bench.Run
	EventRunFailed    = "bench:run-failed"    // data: error
	EventRunSkipped   = "bench:run-skipped"   // data: trigger name
)

// EventEmitter is an interface for announcing run outcomes.
// Services receive this interface instead of writing to the console,
// which makes them independently testable with a mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// LogEmitter writes every event to the standard logger.
type LogEmitter struct{}

func (LogEmitter) Emit(_ context.Context, event string, data any) {
	log.Printf("[EVENT] %s: %v", event, data)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
	// Notify, when set, receives each event name after it is recorded.
	Notify chan string
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
	notify := m.Notify
	m.mu.Unlock()
	if notify != nil {
		notify <- event
	}
}

// Snapshot returns a copy of the recorded events.
func (m *MockEmitter) Snapshot() []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EmittedEvent(nil), m.Events...)
}
