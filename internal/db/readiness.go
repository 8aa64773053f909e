package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultRetryInterval is the pause between connection attempts.
const DefaultRetryInterval = 5 * time.Second

// WaitForReady pings p until it answers. A non-positive timeout waits until ctx is done.
// Every failed attempt is logged as a warning.
func WaitForReady(ctx context.Context, p Pinger, timeout, interval time.Duration, log *zap.Logger) error {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-timer.C:
		}

		err := p.Ping(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info("database connection established", zap.Int("attempt", attempt))
			}
			return nil
		}

		log.Warn("database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", interval),
			zap.Error(err),
		)
		timer.Reset(interval)
	}
}
