// Package retry implements the bounded fixed-delay retry policy used for
// connection establishment. Per-cycle agent errors are retried forever by the
// runner instead; only this bounded tier is allowed to be fatal.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config controls the retry loop.
type Config struct {
	MaxAttempts int           // total attempts, including the first (minimum 1)
	Delay       time.Duration // fixed sleep between attempts
}

// DefaultConfig returns the standard connection-retry budget.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Delay:       5 * time.Second,
	}
}

// Do runs fn up to cfg.MaxAttempts times, sleeping cfg.Delay between attempts.
// The first success wins. After the final failure the last error is returned,
// wrapped with the operation name and attempt count. Context cancellation
// aborts the wait and returns ctx.Err().
func Do(ctx context.Context, op string, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		slog.Warn("attempt failed", "op", op, "attempt", attempt, "max", cfg.MaxAttempts, "err", lastErr)

		if attempt == cfg.MaxAttempts {
			break
		}
		timer := time.NewTimer(cfg.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return fmt.Errorf("%s: giving up after %d attempts: %w", op, cfg.MaxAttempts, lastErr)
}
