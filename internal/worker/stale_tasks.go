// Package worker contains the background coordinators: the stale-task
// janitor and the expired-session purge.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// StaleTaskStore is the store surface the janitor needs.
type StaleTaskStore interface {
	RevertStaleTasks(ctx context.Context, olderThan time.Time, message string) (int64, error)
}

const staleTaskMessage = "Generation timed out. Please try again."

// StaleTaskCoordinator reverts companion tasks stuck in_progress past a
// deadline back to pending. With no request cancellation, an abandoned or
// crashed generation would otherwise hold its in-flight slot forever.
type StaleTaskCoordinator struct {
	store    StaleTaskStore
	interval time.Duration
	maxAge   time.Duration
}

// NewStaleTaskCoordinator creates the janitor. Tasks older than maxAge are
// reverted on each tick.
func NewStaleTaskCoordinator(store StaleTaskStore, interval, maxAge time.Duration) *StaleTaskCoordinator {
	return &StaleTaskCoordinator{
		store:    store,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Run starts the coordinator loop.
func (c *StaleTaskCoordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Sweep immediately on start to clear tasks orphaned by a restart.
	c.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *StaleTaskCoordinator) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-c.maxAge)
	reverted, err := c.store.RevertStaleTasks(ctx, cutoff, staleTaskMessage)
	if err != nil {
		slog.Error("stale task sweep failed", "error", err)
		return
	}
	if reverted > 0 {
		slog.Info("reverted stale tasks", "count", reverted)
	}
}
