package core

// scheduler.go runs background maintenance for the upload history.
//
// The pruner deletes history entries older than the retention period. It
// runs once on start and then on every interval until ctx is cancelled.
// Failures are logged and retried on the next tick; they never stop the
// server.

import (
	"context"
	"log/slog"
	"time"
)

// StartHistoryPruner blocks, pruning upload history older than retention
// every interval. A non-positive retention or interval disables pruning.
func (s *Service) StartHistoryPruner(ctx context.Context, retention, interval time.Duration) {
	if retention <= 0 || interval <= 0 {
		slog.Info("history pruner disabled")
		return
	}
	slog.Info("history pruner started",
		"retention", retention.String(),
		"interval", interval.String(),
	)

	s.pruneHistory(ctx, retention)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history pruner stopped")
			return
		case <-ticker.C:
			s.pruneHistory(ctx, retention)
		}
	}
}

// pruneHistory performs one prune cycle and returns the number of entries
// removed.
func (s *Service) pruneHistory(ctx context.Context, retention time.Duration) int64 {
	start := time.Now()
	cutoff := start.Add(-retention).UTC()

	n, err := s.store.PruneUploads(ctx, cutoff)
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return 0
	}
	slog.Info("pruned upload history",
		"entries_pruned", n,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n
}
