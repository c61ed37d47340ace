package service

import "context"

// Trigger runs the harness the way the watcher and the scheduler do.
func (s *BenchService) Trigger(ctx context.Context, source string) {
	s.trigger(ctx, source)
}
