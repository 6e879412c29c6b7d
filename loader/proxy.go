package loader

import (
	"context"
	"sort"

	"github.com/scribeware/wasmload/errors"
	"github.com/scribeware/wasmload/memmon"
)

// Proxy is the live application-facing view over a loader. It reads the
// loader's state directly, so modules loaded or unloaded after LoadModules
// returns are visible immediately.
type Proxy struct {
	l *Loader
}

func (l *Loader) newProxy() *Proxy { return &Proxy{l: l} }

// Modules returns the ids of currently loaded modules, sorted.
func (p *Proxy) Modules() []string {
	p.l.mu.Lock()
	ids := make([]string, 0, len(p.l.loaded))
	for id := range p.l.loaded {
		ids = append(ids, id)
	}
	p.l.mu.Unlock()

	sort.Strings(ids)
	return ids
}

// Module returns a loaded module by id.
func (p *Proxy) Module(id string) (*LoadedModule, bool) {
	p.l.mu.Lock()
	defer p.l.mu.Unlock()
	mod, ok := p.l.loaded[id]
	return mod, ok
}

// ModuleInfo returns the introspection record for a loaded module.
func (p *Proxy) ModuleInfo(id string) (Info, bool) {
	mod, ok := p.Module(id)
	if !ok {
		return Info{}, false
	}
	return Info{
		ID:             mod.ID,
		Name:           mod.Name,
		LoadedAt:       mod.LoadedAt,
		LoadDuration:   mod.LoadDuration,
		MemorySnapshot: mod.MemorySnapshot,
		ExportCount:    len(mod.Exports),
		BindingCount:   len(mod.Bindings),
	}, true
}

// Namespace returns a module's merged callable surface: raw exports
// overlaid with the initializer's bindings, bindings winning on name
// collisions. The map is a copy.
func (p *Proxy) Namespace(id string) (map[string]any, bool) {
	mod, ok := p.Module(id)
	if !ok {
		return nil, false
	}
	ns := make(map[string]any, len(mod.Exports)+len(mod.Bindings))
	for k, v := range mod.Exports {
		ns[k] = v
	}
	for k, v := range mod.Bindings {
		ns[k] = v
	}
	return ns, true
}

// Call invokes an exported function on a loaded module.
func (p *Proxy) Call(ctx context.Context, module, fn string, args ...uint64) ([]uint64, error) {
	mod, ok := p.Module(module)
	if !ok {
		return nil, errors.NotFound(errors.PhaseRegistry, "loaded module", module)
	}
	return mod.Call(ctx, fn, args...)
}

// LoadOptionalModule loads a module on demand through the owning loader.
func (p *Proxy) LoadOptionalModule(ctx context.Context, id string) (*LoadedModule, error) {
	return p.l.LoadOptionalModule(ctx, id)
}

// UnloadModule unloads a module through the owning loader.
func (p *Proxy) UnloadModule(ctx context.Context, id string) (bool, error) {
	return p.l.UnloadModule(ctx, id)
}

// Metrics returns the loader's lifetime counters.
func (p *Proxy) Metrics() Metrics { return p.l.Metrics() }

// MemoryUsage returns per-module and host memory figures.
func (p *Proxy) MemoryUsage() memmon.Usage { return p.l.monitor.TotalUsage() }
