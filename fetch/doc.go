// Package fetch retrieves module artifacts over HTTP or from disk.
//
// The streaming path reads the response body in fixed-size chunks and
// reports received/total progress as bytes arrive, which is what lets the
// loader surface mid-download percentages. Plain file paths and file://
// URLs are served from the local filesystem so development manifests can
// point at a build directory.
package fetch
