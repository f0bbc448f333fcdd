package search

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProvider is returned for provider tags outside the
	// known backend set.
	ErrUnsupportedProvider = errors.New("unsupported vector store provider")
	// ErrEmptyCollection is returned when a collection holds no entities
	// to infer the embedding configuration from.
	ErrEmptyCollection = errors.New("collection is empty")
	// ErrBackendUnavailable is returned when the vector store cannot be
	// reached at all.
	ErrBackendUnavailable = errors.New("vector store unavailable")
)

// BackendError wraps a native vector store failure with the provider tag
// and the operation that failed. Callers match the cause with errors.Is.
type BackendError struct {
	Provider string
	Op       string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// NewBackendError wraps err as a BackendError for the given provider and op.
func NewBackendError(provider, op string, err error) error {
	return &BackendError{Provider: provider, Op: op, Err: err}
}
