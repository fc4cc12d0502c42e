// File: internal/pacing/throttle.go

// Package pacing spaces page actions out with randomized, adaptive delays so
// a long campaign run settles into a human-looking rhythm instead of a
// machine-regular one.
package pacing

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/outreach-cli/internal/config"
)

// Clock issues adaptive delays between actions. As the run accumulates calls
// the delay range contracts, never below 30% of the configured bounds. Calls
// arriving in rapid succession get their range halved so bursts of cheap
// operations do not stack full-length waits.
// negligibleDelay is the floor below which Wait returns without sleeping.
// Delays this short add no pacing value, only timer churn.
const negligibleDelay = 5 * time.Millisecond

type Clock struct {
	mu       sync.Mutex
	minDelay time.Duration
	maxDelay time.Duration
	calls    int
	last     time.Time

	rng     *rand.Rand
	limiter *rate.Limiter
	log     *zap.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClock builds a Clock from the pacing configuration. When
// ActionsPerMinute is positive a token-bucket ceiling is applied on top of
// the randomized delays.
func NewClock(cfg config.PacingConfig, log *zap.Logger) *Clock {
	c := &Clock{
		minDelay: cfg.MinDelay,
		maxDelay: cfg.MaxDelay,
		last:     time.Now(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      log.Named("pacing"),
		sleep:    sleepCtx,
	}
	if cfg.ActionsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.ActionsPerMinute)/60.0), 1)
	}
	return c
}

// Wait blocks for an adaptive delay. Call forms:
//
//	Wait(ctx)           delay drawn from the configured range
//	Wait(ctx, d)        fixed delay d
//	Wait(ctx, lo, hi)   delay drawn from [lo, hi]
//
// The delay contracts as calls accumulate and halves when the previous call
// was under 100ms ago. Wait returns early with the context error if ctx is
// canceled mid-delay.
func (c *Clock) Wait(ctx context.Context, bounds ...time.Duration) error {
	lo, hi := c.minDelay, c.maxDelay
	switch len(bounds) {
	case 1:
		lo, hi = bounds[0], bounds[0]
	case 2:
		lo, hi = bounds[0], bounds[1]
	}

	c.mu.Lock()
	c.calls++
	count := c.calls
	now := time.Now()
	sinceLast := now.Sub(c.last)
	c.last = now

	lo, hi = adjustedRange(lo, hi, count)
	if sinceLast < 100*time.Millisecond {
		lo, hi = lo/2, hi/2
	}

	d := lo
	if hi > lo {
		d = lo + time.Duration(c.rng.Int63n(int64(hi-lo)))
	}
	c.mu.Unlock()

	if d >= negligibleDelay {
		if d > time.Second {
			c.log.Debug("Pausing between actions", zap.Duration("delay", d))
		}
		if err := c.sleep(ctx, d); err != nil {
			return err
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	if c.limiter != nil {
		return c.limiter.Wait(ctx)
	}
	return nil
}

// Calls reports how many delays have been issued so far.
func (c *Clock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// adjustedRange contracts the delay range once the run is warmed up. Past 50
// calls the bounds shrink linearly, capped at a 70% reduction.
func adjustedRange(lo, hi time.Duration, count int) (time.Duration, time.Duration) {
	if count <= 50 {
		return lo, hi
	}
	reduction := float64(count-50) / 200.0
	if reduction > 0.7 {
		reduction = 0.7
	}
	scale := 1 - reduction
	return time.Duration(float64(lo) * scale), time.Duration(float64(hi) * scale)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
