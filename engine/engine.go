package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	wasmload "github.com/scribeware/wasmload"
)

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages
	// (64KB each). 0 means the wazero default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32
}

// Engine implements wasmload.Engine using the wazero runtime.
type Engine struct {
	runtime wazero.Runtime
}

// New creates a wazero-based engine.
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	return &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
	}, nil
}

// Compile compiles a WASM binary into an executable artifact.
func (e *Engine) Compile(ctx context.Context, wasm []byte) (wasmload.CompiledModule, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}
	return &Compiled{compiled: compiled, size: len(wasm)}, nil
}

// Instantiate creates a running instance of a compiled module.
func (e *Engine) Instantiate(ctx context.Context, compiled wasmload.CompiledModule, name string) (wasmload.Instance, error) {
	c, ok := compiled.(*Compiled)
	if !ok {
		return nil, fmt.Errorf("compiled module %T was not produced by this engine", compiled)
	}

	// Callers pass the module id, unique within a registry, so parallel
	// instantiation never collides on the runtime's module name table.
	// An empty name instantiates anonymously.
	modConfig := wazero.NewModuleConfig().WithName(name)

	instance, err := e.runtime.InstantiateModule(ctx, c.compiled, modConfig)
	if err != nil {
		return nil, fmt.Errorf("instantiate failed: %w", err)
	}
	return &Instance{instance: instance}, nil
}

// Close releases all engine resources. Instances must be closed first.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

var _ wasmload.Engine = (*Engine)(nil)

// Compiled is a compiled WASM artifact.
type Compiled struct {
	compiled wazero.CompiledModule
	size     int
}

// Size returns the size in bytes of the source binary.
func (c *Compiled) Size() int {
	return c.size
}

func (c *Compiled) Close(ctx context.Context) error {
	return c.compiled.Close(ctx)
}

var _ wasmload.CompiledModule = (*Compiled)(nil)

// Instance is a running WASM instance.
// It is NOT safe for concurrent use from multiple goroutines.
type Instance struct {
	instance api.Module
}

// ExportNames returns the names of all exported functions.
func (i *Instance) ExportNames() []string {
	defs := i.instance.ExportedFunctionDefinitions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	return names
}

// HasExport reports whether the instance exports a function by name.
func (i *Instance) HasExport(name string) bool {
	_, ok := i.instance.ExportedFunctionDefinitions()[name]
	return ok
}

// Call invokes an exported function with raw stack values.
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn := i.instance.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("function %q not found", name)
	}
	return fn.Call(ctx, args...)
}

// MemorySize returns the current linear memory size in bytes, or 0 if the
// instance exports no memory.
func (i *Instance) MemorySize() uint64 {
	mem := i.instance.Memory()
	if mem == nil {
		return 0
	}
	return uint64(mem.Size())
}

func (i *Instance) Close(ctx context.Context) error {
	return i.instance.Close(ctx)
}

var _ wasmload.Instance = (*Instance)(nil)
