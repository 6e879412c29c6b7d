package loader

import (
	"context"

	"go.uber.org/zap"

	wasmload "github.com/scribeware/wasmload"
	"github.com/scribeware/wasmload/bindings"
	"github.com/scribeware/wasmload/engine"
	"github.com/scribeware/wasmload/errors"
	"github.com/scribeware/wasmload/events"
	"github.com/scribeware/wasmload/progress"
	"github.com/scribeware/wasmload/registry"
)

// loadModule is the single-flight entry point. Every load path, phased
// or on-demand, funnels through here.
func (l *Loader) loadModule(ctx context.Context, d registry.Descriptor) (*LoadedModule, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, errors.Closed(errors.PhaseFetch, "loader")
	}
	if mod, ok := l.loaded[d.ID]; ok {
		l.mu.Unlock()
		return mod, nil
	}
	if fl, ok := l.inflight[d.ID]; ok {
		l.mu.Unlock()
		select {
		case <-fl.done:
			return fl.mod, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	fl := &inflightLoad{done: make(chan struct{})}
	l.inflight[d.ID] = fl
	l.mu.Unlock()

	mod, err := l.loadWithRetry(ctx, d)

	// Settle: publish the result and drop the in-flight entry under one
	// lock so no joiner can observe a gap between the two.
	l.mu.Lock()
	delete(l.inflight, d.ID)
	if err == nil {
		l.loaded[d.ID] = mod
		l.metrics.total += mod.LoadDuration
		l.metrics.perLoad[d.ID] = mod.LoadDuration
	} else {
		l.metrics.failed++
	}
	l.mu.Unlock()

	fl.mod, fl.err = mod, err
	close(fl.done)
	return mod, err
}

// loadWithRetry drives the attempt loop: up to Strategy.RetryAttempts
// tries with exponential backoff between them. Failure events fire only
// when every attempt is spent.
func (l *Loader) loadWithRetry(ctx context.Context, d registry.Descriptor) (*LoadedModule, error) {
	attempts := l.strat.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			l.tracker.Reset(d.ID)
			if err := l.clock.Sleep(ctx, Backoff(attempt-1)); err != nil {
				lastErr = err
				break
			}
		}

		l.bus.Emit(events.Event{Type: events.ModuleLoadStarted, Module: d.ID, Attempt: attempt})

		mod, err := l.loadAttempt(ctx, d)
		if err == nil {
			l.bus.Emit(events.Event{
				Type:    events.ModuleLoadComplete,
				Module:  d.ID,
				Attempt: attempt,
				Elapsed: mod.LoadDuration,
			})
			return mod, nil
		}

		lastErr = err
		engine.Logger().Warn("module load attempt failed",
			zap.String("module", d.ID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
	}

	err := errors.RetryExhausted(d.ID, attempts, lastErr)
	l.bus.Emit(events.Event{Type: events.ModuleLoadFailed, Module: d.ID, Err: err})
	return nil, err
}

// loadAttempt runs one full pipeline pass: resolve bindings, fetch,
// compile, instantiate, initialize. The strategy timeout bounds the whole
// attempt, not the retry loop.
func (l *Loader) loadAttempt(ctx context.Context, d registry.Descriptor) (*LoadedModule, error) {
	if l.strat.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.strat.Timeout)
		defer cancel()
	}

	start := l.clock.Now()

	init := bindings.Initializer(bindings.None)
	if d.BindingsURL != "" {
		resolved, ok := l.binds.Resolve(d.BindingsURL)
		if !ok {
			return nil, errors.NotFound(errors.PhaseInit, "initializer", d.BindingsURL)
		}
		init = resolved
	}
	l.setProgress(d.ID, progress.StageBindings, 25)

	wasm, err := l.fetchArtifact(ctx, d)
	if err != nil {
		return nil, errors.Fetch(d.ID, d.BinaryURL, err)
	}
	l.setProgress(d.ID, progress.StageFetch, 75)

	compiled, err := l.eng.Compile(ctx, wasm)
	if err != nil {
		return nil, errors.Compile(d.ID, err)
	}
	l.setProgress(d.ID, progress.StageCompile, 85)

	inst, err := l.eng.Instantiate(ctx, compiled, d.ID)
	if err != nil {
		compiled.Close(ctx)
		return nil, errors.Instantiate(d.ID, err)
	}
	l.setProgress(d.ID, progress.StageInstantiate, 95)

	binds, err := init(ctx, inst)
	if err != nil {
		inst.Close(ctx)
		compiled.Close(ctx)
		return nil, errors.Init(d.ID, err)
	}

	exports := make(map[string]any)
	for _, name := range inst.ExportNames() {
		name := name
		exports[name] = ExportFunc(func(ctx context.Context, args ...uint64) ([]uint64, error) {
			return inst.Call(ctx, name, args...)
		})
	}

	memSize := inst.MemorySize()
	l.monitor.Track(d.ID, memSize)
	l.setProgress(d.ID, progress.StageComplete, 100)

	now := l.clock.Now()
	return &LoadedModule{
		ID:             d.ID,
		Name:           d.Name,
		Compiled:       compiled,
		Instance:       inst,
		Exports:        exports,
		Bindings:       binds,
		LoadedAt:       now,
		LoadDuration:   now.Sub(start),
		MemorySnapshot: memSize,
	}, nil
}

// fetchArtifact downloads the module binary. On a streaming strategy the
// fetch reports byte progress; a streaming failure falls back to a plain
// fetch within the same attempt, without consuming a retry.
func (l *Loader) fetchArtifact(ctx context.Context, d registry.Descriptor) ([]byte, error) {
	if !l.strat.UseStreaming {
		return l.fetcher.Fetch(ctx, d.BinaryURL)
	}

	data, err := l.fetcher.FetchStream(ctx, d.BinaryURL, l.streamProgress(d.ID))
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	engine.Logger().Debug("streaming fetch failed, using traditional fetch",
		zap.String("module", d.ID),
		zap.Error(err))
	return l.fetcher.Fetch(ctx, d.BinaryURL)
}

// streamProgress maps byte counts into the 25..75 band of the module's
// overall progress.
func (l *Loader) streamProgress(module string) wasmload.ProgressFunc {
	return func(received, total uint64) {
		if total == 0 {
			return
		}
		if received > total {
			received = total
		}
		pct := 25 + int(received*50/total)
		l.setProgress(module, progress.StageFetch, pct)
	}
}

func (l *Loader) setProgress(module, stage string, percent int) {
	l.tracker.Set(module, stage, percent)
	l.bus.Emit(events.Event{
		Type:    events.ModuleLoadProgress,
		Module:  module,
		Stage:   stage,
		Percent: percent,
	})
}
