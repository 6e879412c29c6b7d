// Package progress tracks per-module loading stages and percentages.
//
// Within a single load attempt the percentage is monotonically
// non-decreasing; a retry resets the module's state before the next attempt
// begins. The tracker is a passive table read by UIs and tests; event
// emission stays with the loader.
package progress
