// Package memmon tracks WASM linear-memory usage per module.
//
// Totals are recomputed lazily on read rather than maintained
// incrementally, so a missed update can never cause permanent drift.
// Host-runtime heap figures are folded into the aggregate view.
package memmon
