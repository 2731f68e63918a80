package letterstore

import (
	"errors"
	"fmt"
)

var (
	// ErrWriteFailure matches every error returned by a failed append
	ErrWriteFailure = errors.New("write failure")
	// ErrMalformedRecord is reported for a record that doesn't have exactly 5 fields
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnexpectedHeader is reported when the first line is not the expected header
	ErrUnexpectedHeader = errors.New("unexpected header")
	// ErrClosed is returned when using a store after Close
	ErrClosed = errors.New("store is closed")
)

// WriteError is returned when appending a record fails.
// It matches both ErrWriteFailure and the underlying error.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("append to '%s' failed: %s", e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailure, e.Err}
}

// DecodeError lists problems found while decoding the log.
// Problems are *csvlog.ParseError values with Line set to the physical
// line where the record starts.
type DecodeError struct {
	Path     string
	Problems []error
}

func (e *DecodeError) Error() string {
	n := len(e.Problems)
	if n == 1 {
		return fmt.Sprintf("decoding '%s': %s", e.Path, e.Problems[0])
	}
	return fmt.Sprintf("decoding '%s': %d problems, first: %s", e.Path, n, e.Problems[0])
}

func (e *DecodeError) Unwrap() []error {
	return e.Problems
}
