// Package loader is the core of wasmload: it executes phased loading
// plans, loads individual modules with bounded retry and backoff, degrades
// to a core-only fallback when the critical phase fails, and assembles the
// live module proxy callers program against.
//
// # Ordering guarantees
//
// The critical phase fully settles before the important phase starts; the
// important phase fully settles before LoadModules returns. The optional
// phase, when the strategy enables preloading, runs detached; its
// failures are logged and never propagated. Within a phase, modules run in
// contiguous batches of at most Strategy.MaxConcurrent: batches strictly
// sequential, modules within a batch concurrent. There is no additional
// semaphore.
//
// # Single-flight
//
// Concurrent requests for one module id share a single fetch+compile. A
// module present in the loaded cache is never re-fetched; a failed load is
// not cached, so a fresh call may retry it.
package loader
