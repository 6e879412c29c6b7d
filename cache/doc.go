// Package cache provides the optional artifact cache consulted before
// network fetches, plus the primer that warms it.
//
// The store keeps artifact bytes on disk, content-addressed by checksum,
// with a SQLite index mapping URLs to blobs. The primer is a background
// worker spoken to over a request/response message channel; a prime
// request waits at most ten seconds for its round trip and failures are
// logged, never propagated; loading proceeds identically whether priming
// worked or not.
package cache
