package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"recbench/internal/bench"
)

// ─────────────────────────────────────────────────────────────
// Bench Service: runs the harness once, on file change or on a schedule
// ─────────────────────────────────────────────────────────────

// ErrRunInProgress is returned when a run is requested while another
// run has not finished.
var ErrRunInProgress = errors.New("a benchmark run is already in progress")

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// BenchService owns one harness configuration and every trigger that
// can start a run of it.
type BenchService struct {
	harness *bench.Harness
	cfg     bench.Config
	emitter EventEmitter
	running runGuard

	// watcher / cron lifecycle
	mu          sync.Mutex
	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

// NewBenchService creates a BenchService ready for use.
func NewBenchService(h *bench.Harness, cfg bench.Config, emitter EventEmitter) *BenchService {
	if emitter == nil {
		emitter = LogEmitter{}
	}
	return &BenchService{harness: h, cfg: cfg, emitter: emitter}
}

// InputPath returns the file the service benchmarks.
func (s *BenchService) InputPath() string {
	if s.cfg.InputPath == "" {
		return bench.DefaultInput
	}
	return s.cfg.InputPath
}

// RunOnce executes one complete harness run. It refuses to start while
// another run is in flight.
func (s *BenchService) RunOnce(ctx context.Context) (*bench.Run, error) {
	if !s.running.tryStart() {
		return nil, ErrRunInProgress
	}
	defer s.running.finish()

	run, err := s.harness.Run(ctx, s.cfg)
	if err != nil {
		s.emitter.Emit(ctx, EventRunFailed, err)
		return nil, err
	}
	s.emitter.Emit(ctx, EventRunCompleted, run)
	return run, nil
}

// trigger runs the harness for a watcher or cron event. Failures are
// logged; they never stop the trigger.
func (s *BenchService) trigger(ctx context.Context, source string) {
	_, err := s.RunOnce(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrRunInProgress):
		log.Printf("[%s] previous run still in progress, skipping", source)
		s.emitter.Emit(ctx, EventRunSkipped, source)
	default:
		log.Printf("[%s] run failed: %v", source, err)
	}
}

// ── File watcher ──────────────────────────────────────────

// Watch reruns the harness whenever the input file is written or
// recreated, once writes have been quiet for debounce. The directory is
// watched rather than the file so editors that replace files still
// trigger. Watching stops when ctx is done or Stop is called.
func (s *BenchService) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	absPath, err := filepath.Abs(s.InputPath())
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir %q: %w", filepath.Dir(absPath), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.stopWatcherLocked()
	s.watcher = watcher
	s.watchCancel = cancel
	s.mu.Unlock()

	go func() {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				changed, _ := filepath.Abs(event.Name)
				if changed != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					if watchCtx.Err() != nil {
						return
					}
					log.Printf("[WATCH] file changed %q, running benchmark", absPath)
					s.trigger(watchCtx, "WATCH")
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WATCH] error: %v", err)
			}
		}
	}()

	log.Printf("[WATCH] watching %s", absPath)
	return nil
}

// ── Scheduler ─────────────────────────────────────────────

// Schedule reruns the harness on a standard five-field cron expression
// (descriptors such as "@every 1m" are accepted). Ticks that arrive
// while a run is in flight are skipped.
func (s *BenchService) Schedule(ctx context.Context, expr string) error {
	c := cron.New()
	if _, err := c.AddFunc(expr, func() {
		if ctx.Err() != nil {
			return
		}
		log.Printf("[CRON] running benchmark for %s", s.InputPath())
		s.trigger(ctx, "CRON")
	}); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	s.mu.Lock()
	if s.cronSched != nil {
		s.cronSched.Stop()
	}
	s.cronSched = c
	s.mu.Unlock()

	c.Start()
	log.Printf("[CRON] scheduled %q", expr)
	return nil
}

// WaitRunning blocks until the in-flight run finishes or ctx is cancelled.
// Used for graceful shutdown.
func (s *BenchService) WaitRunning(ctx context.Context) {
	s.running.wait(ctx)
}

// Stop tears down the watcher and the scheduler. It is safe to call
// more than once.
func (s *BenchService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatcherLocked()
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
}

func (s *BenchService) stopWatcherLocked() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}
