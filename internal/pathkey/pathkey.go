// Package pathkey normalizes request paths into cache keys and guards the
// root boundary. Pure string work; no filesystem access.
package pathkey

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrEscapesRoot reports a parent-directory escape relative to the root.
var ErrEscapesRoot = errors.New("path escapes root")

// Normalize returns the canonical cache-key form of an absolute path:
// separators collapsed by Clean, case folded on case-insensitive platforms
// so "C:\Src\A.go" and "c:/src/a.go" share one entry. Case is preserved on
// case-sensitive filesystems where folding would alias distinct files.
func Normalize(p string) string {
	p = filepath.Clean(p)
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}

// Resolve anchors p under root and returns the normalized key for it.
// Relative paths are joined to root; absolute paths must already lie inside
// it. Any result outside root fails with ErrEscapesRoot before any I/O can
// happen.
func Resolve(root, p string) (string, error) {
	root = filepath.Clean(root)
	if filepath.IsAbs(p) {
		p = filepath.Clean(p)
	} else {
		p = filepath.Join(root, p)
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", ErrEscapesRoot
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrEscapesRoot
	}
	return Normalize(p), nil
}
