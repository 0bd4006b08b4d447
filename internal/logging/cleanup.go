package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/prepwise/backend/internal/store"
)

// DefaultRetention is how long persisted system logs are kept.
const DefaultRetention = 30 * 24 * time.Hour

// StartCleanup deletes system logs older than retention once per interval
// until ctx is cancelled.
func StartCleanup(ctx context.Context, sink store.LogStore, retention, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cleanupOnce(ctx, sink, retention)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func cleanupOnce(ctx context.Context, sink store.LogStore, retention time.Duration) {
	cutoff := time.Now().Add(-retention)
	deleted, err := sink.DeleteLogsBefore(ctx, cutoff)
	if err != nil {
		slog.Error("log cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("log cleanup completed", "deleted", deleted)
	}
}
