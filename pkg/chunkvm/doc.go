// Package chunkvm is the public entry point to the chunk interpreter:
// program loading, VM construction, checkpoint backends, and the
// error type callers see across the package boundary.
package chunkvm
