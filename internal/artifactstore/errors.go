// Package artifactstore keeps one JSON record per path in a flat directory.
// Each record file is named after the path it describes, so the directory
// listing alone tells which paths have records.
package artifactstore

import (
	"errors"
	"fmt"
)

// Static errors
var (
	// ErrRecordNotFound indicates the record file does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrStoreDirNotDirectory indicates the store path exists but is not a directory.
	ErrStoreDirNotDirectory = errors.New("store path is not a directory")

	// ErrPathCollision indicates that the record file for a path holds a record for another path.
	ErrPathCollision = errors.New("record belongs to a different path")

	// ErrInvalidExtension indicates a record file extension that is empty or contains a separator.
	ErrInvalidExtension = errors.New("invalid record file extension")

	// ErrFilenameLimitTooSmall indicates a length limit that cannot hold a hash fallback name.
	ErrFilenameLimitTooSmall = errors.New("filename limit too small")
)

// SchemaVersionMismatchError indicates a record schema version mismatch.
type SchemaVersionMismatchError struct {
	Expected int
	Actual   int
}

func (e *SchemaVersionMismatchError) Error() string {
	return fmt.Sprintf("schema version mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// RecordCorruptedError indicates a record file that cannot be parsed.
type RecordCorruptedError struct {
	Path  string
	Cause error
}

func (e *RecordCorruptedError) Error() string {
	return fmt.Sprintf("record file corrupted at %s: %v", e.Path, e.Cause)
}

func (e *RecordCorruptedError) Unwrap() error {
	return e.Cause
}
