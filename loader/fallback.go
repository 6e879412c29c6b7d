package loader

import (
	"context"

	"go.uber.org/zap"

	"github.com/scribeware/wasmload/engine"
	"github.com/scribeware/wasmload/errors"
	"github.com/scribeware/wasmload/events"
)

// runFallback is the core-only recovery path taken when the critical
// phase fails. It loads just the core module, retrying with linear
// backoff, and returns a degraded but usable proxy on success.
func (l *Loader) runFallback(ctx context.Context, cause error) (*Proxy, error) {
	core, ok := l.reg.Core()
	if !ok {
		return nil, errors.FallbackExhausted(0, cause)
	}

	l.bus.Emit(events.Event{Type: events.FallbackStarted, Module: core.ID, Err: cause})

	lastErr := cause
	for attempt := 1; attempt <= l.fallbackRetries; attempt++ {
		if attempt > 1 {
			if err := l.clock.Sleep(ctx, FallbackBackoff(attempt-1)); err != nil {
				lastErr = err
				break
			}
		}

		if _, err := l.loadModule(ctx, core); err != nil {
			lastErr = err
			engine.Logger().Warn("fallback attempt failed",
				zap.String("module", core.ID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		l.bus.Emit(events.Event{Type: events.FallbackSucceeded, Module: core.ID, Attempt: attempt})
		engine.Logger().Info("running in core-only mode", zap.String("module", core.ID))
		return l.newProxy(), nil
	}

	err := errors.FallbackExhausted(l.fallbackRetries, lastErr)
	l.bus.Emit(events.Event{Type: events.FallbackFailed, Err: err})
	return nil, err
}
