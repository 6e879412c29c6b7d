package wasmload

import "context"

// Engine compiles and instantiates WebAssembly binaries. The production
// implementation lives in the engine package and is backed by wazero;
// loader tests substitute fakes.
type Engine interface {
	// Compile compiles a WASM binary into an executable artifact.
	Compile(ctx context.Context, wasm []byte) (CompiledModule, error)

	// Instantiate creates a running instance of a compiled module.
	// Name disambiguates instances sharing one engine; empty is allowed.
	Instantiate(ctx context.Context, compiled CompiledModule, name string) (Instance, error)

	// Close releases all engine resources. Instances must be closed first.
	Close(ctx context.Context) error
}

// CompiledModule is a compiled, not yet instantiated WASM artifact.
type CompiledModule interface {
	// Size returns the size in bytes of the source binary.
	Size() int

	Close(ctx context.Context) error
}

// Instance is a running WASM instance.
type Instance interface {
	// ExportNames returns the names of all exported functions.
	ExportNames() []string

	// HasExport reports whether the instance exports a function by name.
	HasExport(name string) bool

	// Call invokes an exported function with raw stack values.
	Call(ctx context.Context, name string, args ...uint64) ([]uint64, error)

	// MemorySize returns the current linear memory size in bytes,
	// or 0 if the instance exports no memory.
	MemorySize() uint64

	Close(ctx context.Context) error
}

// ProgressFunc reports bytes received so far against the expected total.
// Total is 0 when the source does not announce a length.
type ProgressFunc func(received, total uint64)

// Fetcher retrieves module artifacts by URL.
type Fetcher interface {
	// Fetch retrieves the artifact, buffering it fully.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// FetchStream retrieves the artifact with a chunked reader, invoking
	// onProgress as bytes arrive. Implementations that cannot stream may
	// buffer and report a single final progress call.
	FetchStream(ctx context.Context, url string, onProgress ProgressFunc) ([]byte, error)
}
