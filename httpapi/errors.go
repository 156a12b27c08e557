package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTimeout is returned when a single request attempt exceeds its timeout.
	ErrTimeout = errors.New("httpapi: request timed out")

	// ErrDecode is returned when a successful response is not valid JSON
	// for the requested type.
	ErrDecode = errors.New("httpapi: decode response")
)

// ResponseError is a non-2xx response.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("httpapi: status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the server may succeed on a later attempt.
func (e *ResponseError) Temporary() bool {
	return e.StatusCode >= 500
}

// newResponseError extracts a message from a failed response body. A JSON
// body contributes its "detail" or "message" field; any other body is used
// as text. The status code is the last resort.
func newResponseError(status int, body []byte) *ResponseError {
	fallback := fmt.Sprintf("HTTP %d", status)

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fallback
		}
		return &ResponseError{StatusCode: status, Message: msg}
	}

	msg := detailMessage(payload.Detail)
	if msg == "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = fallback
	}
	return &ResponseError{StatusCode: status, Message: msg}
}

// detailMessage returns a string detail as is and any other non-null
// detail in compact JSON form.
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// ShouldRetry reports whether a failed attempt may be retried.
//
// Client errors (4xx), transport failures other than timeouts and
// cancellation are final, as is any failure on the last allowed attempt.
// Server errors (5xx) and per-attempt timeouts are retried.
func ShouldRetry(err error, attempt, maxRetries int) bool {
	if err == nil || attempt >= maxRetries {
		return false
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Temporary()
	}
	return false
}
