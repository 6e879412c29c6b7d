// Package engine provides the wazero-backed implementation of the
// wasmload Engine, CompiledModule, and Instance contracts.
//
// One Engine owns one wazero runtime; compiled modules and instances
// created from it must be closed before the engine itself. Instances are
// instantiated anonymously by default so many can run in parallel from the
// same compiled artifact.
package engine
