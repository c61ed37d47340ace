package service

import (
	"context"
	"sync"
)

// runGuard admits one benchmark run at a time. A trigger that finds a
// run in flight is turned away instead of queued, so timings never
// overlap.
type runGuard struct {
	mu   sync.Mutex
	busy bool
	idle chan struct{} // closed when no run is in flight; nil before the first run
}

// tryStart claims the guard. It reports false while another run holds it.
func (g *runGuard) tryStart() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	g.idle = make(chan struct{})
	return true
}

// finish releases a guard claimed by tryStart.
func (g *runGuard) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy = false
	close(g.idle)
}

// wait blocks until no run is in flight or ctx is done.
func (g *runGuard) wait(ctx context.Context) {
	g.mu.Lock()
	idle := g.idle
	busy := g.busy
	g.mu.Unlock()
	if !busy {
		return
	}
	select {
	case <-idle:
	case <-ctx.Done():
	}
}
