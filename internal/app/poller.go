package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// refresher is the slice of the coordinator the poller drives.
type refresher interface {
	RefreshData(ctx context.Context) error
	Snapshot() state.Snapshot
}

// StartPoller launches a background goroutine that reloads sheet data. The
// delay between loads doubles for every consecutive load that produced no
// live data, up to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, r refresher, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(calculateBackoff(r.Snapshot().ConsecutiveFailures, interval))
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if err := r.RefreshData(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("sheet refresh failed", slog.String("error", err.Error()))
			}
			timer.Reset(calculateBackoff(r.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff returns base * 2^failures, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
