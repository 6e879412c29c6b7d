// Package registry holds the static catalog of loadable modules.
//
// A Descriptor describes one WASM+bindings unit: where its artifacts live,
// its loading priority, whether the application cannot function without it,
// and the feature tags that pull it into a loading plan. Descriptors are
// immutable once added; the Registry preserves insertion order so plans are
// deterministic.
//
// Catalogs can be built in code or loaded from a YAML manifest.
package registry
