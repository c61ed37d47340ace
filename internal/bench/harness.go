package bench

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Run is the outcome of one complete harness run.
type Run struct {
	ID       string
	Input    string
	Records  int
	Strings  StringResult
	Integers IntegerResult
	Floats   FloatResult
	Timings  []Observation
}

// Harness loads the input and times the three passes over it.
type Harness struct {
	Sink Sink
}

// New creates a Harness reporting to sink.
func New(sink Sink) *Harness {
	return &Harness{Sink: sink}
}

// Run executes Load, then the string, integer and float passes, strictly
// in that order. The first failure ends the run; observations already
// emitted stay emitted.
func (h *Harness) Run(ctx context.Context, cfg Config) (*Run, error) {
	run := &Run{ID: uuid.New().String(), Input: cfg.path()}

	start := time.Now()
	records, err := Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	h.observe(ctx, run, StageLoad, time.Since(start))
	run.Records = len(records)
	log.Printf("[BENCH] run %s: loaded %d records from %s", run.ID, run.Records, run.Input)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	run.Strings = StringPass(records)
	h.observe(ctx, run, StageString, time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	run.Integers, err = IntegerPass(records)
	if err != nil {
		return nil, err
	}
	h.observe(ctx, run, StageInteger, time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	run.Floats, err = FloatPass(records)
	if err != nil {
		return nil, err
	}
	h.observe(ctx, run, StageFloat, time.Since(start))

	return run, nil
}

func (h *Harness) observe(ctx context.Context, run *Run, stage Stage, elapsed time.Duration) {
	obs := Observation{RunID: run.ID, Stage: stage, Elapsed: elapsed}
	run.Timings = append(run.Timings, obs)
	if h.Sink != nil {
		h.Sink.Observe(ctx, obs)
	}
}
