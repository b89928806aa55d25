package filegate

import (
	"errors"
	"fmt"
)

// Validation and lookup failures surfaced by the Gateway. Validation errors
// indicate a caller bug or a traversal attempt and must not be retried;
// ErrNotFound is distinct so optional-file callers can treat it as "absent".
var (
	ErrPathTraversal       = errors.New("path escapes the configured root")
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrFileTooLarge        = errors.New("file exceeds the size ceiling")
	ErrNotFound            = errors.New("file not found")
)

// ReadError pairs a failed batch path with its cause. ReadMany collects these
// instead of aborting the batch.
type ReadError struct {
	Path string
	Err  error
}

func (e ReadError) Error() string {
	return fmt.Sprintf("read %q: %v", e.Path, e.Err)
}

func (e ReadError) Unwrap() error { return e.Err }
