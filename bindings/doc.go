// Package bindings holds the initializer registry for loaded modules.
//
// A WASM binary on its own only exposes raw exported functions. Each
// loadable unit pairs the binary with an initializer, the glue that
// receives the running instance and returns the higher-level binding
// surface the application calls. Initializers are registered by name and
// resolved lazily when a module's load reaches the initialization step,
// mirroring how the module contract pairs a binary URL with a bindings
// reference.
package bindings
