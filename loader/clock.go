package loader

import (
	"context"
	"time"
)

// Clock abstracts time for the retry and fallback paths so backoff timing
// is testable without real timers.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// backoffCap bounds the exponential retry delay.
const backoffCap = 5 * time.Second

// Backoff returns the delay before retry attempt+1: 1s, 2s, 4s, then
// capped at 5s. Pure function of the attempt number.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 3 {
		return backoffCap
	}
	d := time.Second << (attempt - 1)
	if d > backoffCap {
		d = backoffCap
	}
	return d
}

// FallbackBackoff returns the linear delay used between core-only
// fallback attempts: 1s, 2s, 3s, ...
func FallbackBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(attempt) * time.Second
}
