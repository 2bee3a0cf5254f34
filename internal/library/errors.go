package library

import (
	"errors"
	"fmt"
)

// NotFoundError reports that no record exists at the requested path.
// Callers use this to tell "book never existed" apart from I/O failures.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("book record not found: %s", e.Path)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// SchemaError reports a record file that exists but cannot be decoded or
// upgraded to the current schema version.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid book record %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSchemaError reports whether err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// StoreError wraps a filesystem or network failure with the operation and
// path involved, so the caller can show a meaningful message while the
// underlying cause stays available via errors.Unwrap.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
