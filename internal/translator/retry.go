// Package translator layers the retry and fallback policy over raw
// translation providers. Provider errors never escape this package as
// plain errors: they either resolve to a successful retry or to a tagged
// failure Result. The only error returned upward is context cancellation.
package translator

import (
	"context"
	"time"

	"github.com/oukeidos/batrans/internal/apperrors"
	"github.com/oukeidos/batrans/internal/logger"
	"github.com/oukeidos/batrans/internal/provider"
)

const (
	DefaultMaxRetries  = 5
	DefaultBackoffUnit = time.Second
)

// Retrier wraps a single provider call with bounded exponential backoff.
type Retrier struct {
	maxRetries int
	unit       time.Duration

	// sleep is swapped out in tests to observe the backoff sequence.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetrier(maxRetries int, unit time.Duration) *Retrier {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if unit <= 0 {
		unit = DefaultBackoffUnit
	}
	return &Retrier{
		maxRetries: maxRetries,
		unit:       unit,
		sleep:      sleepContext,
	}
}

// Translate attempts provider.Translate up to maxRetries times, sleeping
// 2^attempt backoff units between attempts (1, 2, 4, ... with no sleep
// after the final attempt). Every failure is retried; exhaustion is
// returned as an apperrors.KindExhausted error wrapping the last
// attempt's error.
func (r *Retrier) Translate(ctx context.Context, p provider.Provider, text string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		out, err := p.Translate(ctx, text)
		if err == nil {
			return out, nil
		}
		lastErr = err
		logger.Error("Translation attempt failed",
			"provider", p.Name(), "attempt", attempt+1, "max", r.maxRetries, "error", err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == r.maxRetries-1 {
			break
		}
		backoff := time.Duration(1<<uint(attempt)) * r.unit
		if err := r.sleep(ctx, backoff); err != nil {
			return "", err
		}
	}
	return "", apperrors.Exhausted(lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
