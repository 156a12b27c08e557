package httpapi

import (
	"errors"
	"fmt"
)

// Status is the outcome flag of a Result.
type Status string

// Result statuses.
const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Result is the response envelope returned by the API server. Data is nil
// when the server sends no payload or an explicit null.
type Result[T any] struct {
	Message string `json:"message"`
	Success Status `json:"success"`
	Data    *T     `json:"data,omitempty"`
}

// IsSuccess reports whether the server reported success.
func (r Result[T]) IsSuccess() bool {
	return r.Success == StatusSuccess
}

// IsFailed reports whether the server reported failure.
func (r Result[T]) IsFailed() bool {
	return r.Success == StatusFailed
}

// HasData reports whether a payload is present.
func (r Result[T]) HasData() bool {
	return r.Data != nil
}

// Validate checks that the status is one of the known values.
// It has the shape of a filekind.Validator.
func (r Result[T]) Validate() error {
	switch r.Success {
	case StatusSuccess, StatusFailed:
		return nil
	case "":
		return errors.New("result: missing success status")
	default:
		return fmt.Errorf("result: unknown success status %q", r.Success)
	}
}
