// Package filegate implements a secured, read-through, in-memory file content
// cache. Every read passes a validation perimeter (path traversal guard,
// extension allow-list, size ceiling) before any disk I/O happens; cache hits
// are re-verified against the live filesystem (modification time) and, when
// integrity checking is enabled, against a SHA-256 fingerprint of the stored
// bytes. Stale or corrupt entries are evicted and reported as misses — never
// served.
//
// Components:
//   - Gateway: validation + orchestration in front of the cache engine.
//     Read populates the cache on miss; Write invalidates; ReadMany fans a
//     batch through a bounded worker pool and isolates per-path failures.
//   - cache engine: strict LRU under a dual budget (entry count AND total
//     bytes), TTL expiry via a background sweep, monotonic stats counters.
//   - fsys.Filesystem: the disk seam. fsys.OS for production; billy and
//     afero adapters under fsys/billyfs and fsys/aferofs.
//   - integrity: content fingerprints.
//
// The cache is single-process and in-memory only; it is rebuilt from source
// files on each process start.
package filegate
