package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResult means the fetch succeeded but matched no usable rows.
	ErrEmptyResult = errors.New("no data for the selected range")

	// ErrAccessDenied means the role/zone/area combination grants no access.
	ErrAccessDenied = errors.New("insufficient access to sales data")

	ErrSessionNotFound = errors.New("session not found")
	ErrNotLoaded       = errors.New("no data loaded for session")
)

// BackendError is a failure reported by the data store. Message is the
// backend's own text and is safe to show to the user.
type BackendError struct {
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error: %s", e.Message)
}

func (e *BackendError) Unwrap() error { return e.Err }

// UnknownError wraps any other fetch-time failure.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnknownError) Unwrap() error { return e.Err }
