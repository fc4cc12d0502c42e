// File: internal/retry/retry.go

// Package retry re-runs flaky page operations a bounded number of times with
// a fixed delay between attempts.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Policy retries operations that fail against a live page. Attempts are
// spaced by a constant delay; the final failure is surfaced wrapped with the
// attempt count.
type Policy struct {
	log *zap.Logger
}

// NewPolicy returns a Policy logging through the given logger.
func NewPolicy(log *zap.Logger) *Policy {
	return &Policy{log: log.Named("retry")}
}

// Execute runs op up to maxAttempts times, sleeping delay between attempts.
// A maxAttempts below 1 is treated as a single attempt. Context cancellation
// aborts the remaining attempts and returns the context error.
func (p *Policy) Execute(ctx context.Context, name string, op func() error, maxAttempts int, delay time.Duration) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err != nil && attempt < maxAttempts {
			p.log.Debug("Operation failed, retrying",
				zap.String("operation", name),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err))
		}
		return err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(maxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(wrapped, b); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s failed after %d attempts: %w", name, attempt, err)
	}
	return nil
}
