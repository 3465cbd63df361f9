package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput covers user-correctable problems: empty question,
	// missing file, unsupported file type, bad chunker parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means a documentId did not resolve to a stored document.
	ErrNotFound = errors.New("document not found")

	// ErrTooLarge means the uploaded file exceeds the size cap.
	ErrTooLarge = errors.New("file too large")
)

// UpstreamError wraps a failure from a collaborator (embedding provider,
// completion provider, or the chunk store). It is not retried; the detail is
// passed through to the caller for diagnosis.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream tags err as an upstream failure from op. Returns nil on nil err.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}
