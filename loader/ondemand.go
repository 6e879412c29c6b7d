package loader

import (
	"context"

	"go.uber.org/zap"

	"github.com/scribeware/wasmload/engine"
	"github.com/scribeware/wasmload/errors"
	"github.com/scribeware/wasmload/events"
)

// cleanupExport is the optional teardown hook a module may export.
const cleanupExport = "cleanup"

// LoadOptionalModule loads a single module on demand, outside any phase.
// Loading an already loaded module returns the cached entry; a concurrent
// request joins the in-flight load.
func (l *Loader) LoadOptionalModule(ctx context.Context, id string) (*LoadedModule, error) {
	d, ok := l.reg.Get(id)
	if !ok {
		return nil, errors.NotFound(errors.PhaseRegistry, "module", id)
	}

	l.bus.Emit(events.Event{Type: events.OptionalRequested, Module: id})

	mod, err := l.loadModule(ctx, d)
	if err != nil {
		l.bus.Emit(events.Event{Type: events.OptionalFailed, Module: id, Err: err})
		return nil, err
	}

	l.bus.Emit(events.Event{Type: events.OptionalLoaded, Module: id})
	return mod, nil
}

// UnloadModule removes a loaded module, closing its instance and compiled
// code and releasing its memory accounting. It reports false when the
// module was not loaded; unloading twice is a safe no-op.
func (l *Loader) UnloadModule(ctx context.Context, id string) (bool, error) {
	return l.unload(ctx, id)
}

// unload removes the entry under the lock first, so concurrent unloads
// of the same id run the teardown exactly once.
func (l *Loader) unload(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	mod, ok := l.loaded[id]
	if !ok {
		l.mu.Unlock()
		return false, nil
	}
	delete(l.loaded, id)
	l.metrics.unloaded++
	l.mu.Unlock()

	l.monitor.Untrack(id)
	l.tracker.Reset(id)

	var firstErr error
	if mod.Instance != nil {
		// Removing the entry first guarantees cleanup runs at most once
		// even under concurrent unloads.
		if mod.Instance.HasExport(cleanupExport) {
			if _, err := mod.Instance.Call(ctx, cleanupExport); err != nil {
				engine.Logger().Warn("module cleanup failed",
					zap.String("module", id), zap.Error(err))
			}
		}
		if err := mod.Instance.Close(ctx); err != nil {
			firstErr = err
		}
	}
	if mod.Compiled != nil {
		if err := mod.Compiled.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	l.bus.Emit(events.Event{Type: events.ModuleUnloaded, Module: id})

	if firstErr != nil {
		return true, errors.Unload(id, firstErr)
	}
	return true, nil
}
