package filegate

import (
	"context"
	"time"

	"github.com/filegate/filegate/fsys"
)

// Gateway is the secured access surface in front of the cache engine. Every
// operation validates its path against the configured root before any
// filesystem access happens.
type Gateway interface {
	// Read returns the content of path, serving from cache when possible.
	// Fails with ErrPathTraversal, ErrExtensionNotAllowed, ErrFileTooLarge
	// or ErrNotFound; other failures are wrapped I/O errors.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces the content of path (creating parent directories) and
	// invalidates the cached entry so the next Read sees the new content.
	Write(ctx context.Context, path string, content []byte) error

	// ReadMany reads a batch through a bounded worker pool. Per-path
	// failures are collected; one bad path never sinks the batch.
	ReadMany(ctx context.Context, paths []string) (map[string][]byte, []ReadError)

	// Invalidate drops the cached entry for path, reporting whether an
	// entry was removed. False for unknown or out-of-root paths.
	Invalidate(path string) bool

	// Stats returns a snapshot of the cache counters.
	Stats() Stats

	// ResetStats zeroes the cumulative hit/miss/eviction counters.
	ResetStats()

	// ClearCache empties the cache. Stats counters survive.
	ClearCache()

	// Close stops the background TTL sweep and clears the cache.
	Close(ctx context.Context) error
}

// Options tune the gateway and its cache engine.
// Only Root is required; everything else has a default.
type Options struct {
	// Required. All readable paths must resolve under this directory.
	Root string

	FS     fsys.Filesystem // nil => fsys.OS()
	Logger Logger          // nil => NopLogger
	Hooks  Hooks           // nil => NopHooks
	Clock  Clock           // nil => system clock

	MaxMemoryUsage int64         // total byte budget; 0 => 256 MiB
	MaxEntries     int           // entry budget; 0 => 10k
	MaxFileSize    int64         // per-file ceiling; 0 => 10 MiB
	TTL            time.Duration // max age since last access; 0 => 30m
	SweepInterval  time.Duration // background expiry cadence; 0 => 5m

	// AllowedExtensions replaces DefaultAllowedExtensions when non-nil.
	// Entries are lower-cased dot-prefixed extensions; include "" to
	// permit extensionless files.
	AllowedExtensions []string

	ReadConcurrency int // ReadMany fan-out bound; 0 => 10

	DisableIntegrityCheck bool // skip fingerprint re-verification on hits
	DisableSweep          bool // no background TTL sweep
	Disabled              bool // bypass caching entirely (reads go to disk)
}

// New builds a Gateway. The background TTL sweep starts immediately unless
// disabled; stop it with Close.
func New(opts Options) (Gateway, error) {
	g, err := newGateway(opts)
	if err != nil {
		return nil, err
	}
	return g, nil
}
