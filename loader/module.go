package loader

import (
	"context"
	"time"

	wasmload "github.com/scribeware/wasmload"
	"github.com/scribeware/wasmload/errors"
)

// ExportFunc is a callable wrapper over one exported WASM function.
type ExportFunc func(ctx context.Context, args ...uint64) ([]uint64, error)

// LoadedModule is one successfully loaded module. Immutable after
// creation; removed only by an explicit unload.
type LoadedModule struct {
	ID       string
	Name     string
	Compiled wasmload.CompiledModule
	Instance wasmload.Instance

	// Exports maps exported function names to callable wrappers.
	Exports map[string]any

	// Bindings is the surface returned by the module's initializer.
	Bindings map[string]any

	LoadedAt       time.Time
	LoadDuration   time.Duration
	MemorySnapshot uint64
}

// Call invokes one of the module's exported functions by name.
func (m *LoadedModule) Call(ctx context.Context, fn string, args ...uint64) ([]uint64, error) {
	v, ok := m.Exports[fn]
	if !ok {
		return nil, errors.NotFound(errors.PhaseRegistry, "export", fn)
	}
	f, ok := v.(ExportFunc)
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseRegistry, "export "+fn+" is not callable")
	}
	return f(ctx, args...)
}

// Info is the introspection record the proxy returns for a module.
type Info struct {
	ID             string
	Name           string
	LoadedAt       time.Time
	LoadDuration   time.Duration
	MemorySnapshot uint64
	ExportCount    int
	BindingCount   int
}

// Metrics summarizes a loader's lifetime activity.
type Metrics struct {
	Strategy        string
	LoadedModules   int
	FailedLoads     int
	UnloadedModules int
	TotalLoadTime   time.Duration
	ModuleLoadTimes map[string]time.Duration
}
