// Package wasmload implements progressive loading of WebAssembly compute
// modules under real-world network constraints.
//
// The loader plans, sequences, and executes the bootstrap of multiple WASM
// modules: it partitions a static module catalog into critical, important,
// and optional phases, runs each phase in bounded-concurrency batches,
// retries individual module loads with exponential backoff, degrades to a
// core-only fallback when the critical phase fails outright, and returns a
// unified runtime surface merging the exports of everything that loaded.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	wasmload/            Root package with the Engine, Instance, and Fetcher contracts
//	├── loader/          The core: phased execution, single-flight loads, retry, fallback
//	├── registry/        Static module catalog and YAML manifest parsing
//	├── strategy/        Network-condition driven loading presets
//	├── plan/            Three-phase loading plans with size and time estimates
//	├── engine/          wazero-backed compile and instantiate
//	├── fetch/           HTTP and filesystem artifact fetching with streaming progress
//	├── cache/           SQLite-indexed artifact store and the cache primer
//	├── bindings/        Bindings-initializer registry for loaded instances
//	├── events/          Typed loader event stream
//	├── progress/        Per-module stage and percentage tracking
//	├── memmon/          Linear-memory usage monitoring
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Build a registry, construct a loader, and load the modules a feature set
// needs:
//
//	reg := registry.New()
//	reg.Add(registry.Descriptor{
//	    ID:        "core",
//	    BinaryURL: "https://cdn.example.com/core.wasm",
//	    Priority:  registry.PriorityHigh,
//	    Required:  true,
//	    Features:  []string{"doc"},
//	})
//
//	ld, err := loader.New(loader.Config{
//	    Registry: reg,
//	    Engine:   eng,
//	    Fetcher:  fetch.NewHTTP(nil),
//	    Bindings: binds,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ld.Close(ctx)
//
//	proxy, err := ld.LoadModules(ctx, []string{"doc"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ns, _ := proxy.Namespace("core")
//
// # Concurrency
//
// A Loader owns its module cache, in-flight registry, and monitor tables;
// none of them are process-wide. Independent loaders never share state, so
// tests can run many side by side. Concurrent requests for the same module
// id share one underlying fetch+compile (single-flight).
package wasmload
