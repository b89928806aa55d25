// Package fsys defines the filesystem seam the gateway and cache engine read
// through. The OS implementation is the production default; billyfs and
// aferofs adapt virtual filesystems so embedding hosts (and tests) can swap
// the disk out without touching cache logic.
//
// Implementations must surface missing files as errors matching
// io/fs.ErrNotExist so callers can distinguish "absent" from real I/O
// failure.
package fsys

import (
	"errors"
	"io/fs"
	"os"
)

// Filesystem is the minimal disk surface the cache needs.
type Filesystem interface {
	// Stat returns file metadata without reading content.
	Stat(name string) (os.FileInfo, error)

	// ReadFile returns the full content of a file.
	ReadFile(name string) ([]byte, error)

	// WriteFile replaces the content of a file, creating it if needed.
	// Implementations should be atomic where the platform allows.
	WriteFile(name string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory chain.
	MkdirAll(path string, perm os.FileMode) error
}

// Exists reports whether name is present on f. Errors other than
// fs.ErrNotExist are treated as "exists" so a flaky stat never masks a file.
func Exists(f Filesystem, name string) bool {
	_, err := f.Stat(name)
	return !errors.Is(err, fs.ErrNotExist)
}
