package worker

import (
	"context"
	"log/slog"
	"time"
)

// SessionStore is the store surface the session purge needs.
type SessionStore interface {
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// SessionPurgeCoordinator deletes expired login sessions on an interval.
type SessionPurgeCoordinator struct {
	store    SessionStore
	interval time.Duration
}

// NewSessionPurgeCoordinator creates the session purge coordinator.
func NewSessionPurgeCoordinator(store SessionStore, interval time.Duration) *SessionPurgeCoordinator {
	return &SessionPurgeCoordinator{
		store:    store,
		interval: interval,
	}
}

// Run starts the coordinator loop.
func (c *SessionPurgeCoordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := c.store.PurgeExpiredSessions(ctx, time.Now().UTC())
			if err != nil {
				slog.Error("session purge failed", "error", err)
				continue
			}
			if purged > 0 {
				slog.Debug("purged expired sessions", "count", purged)
			}
		}
	}
}
