// Package api provides the session-bound HTTP client for the InterU REST
// API: bearer-token injection, uniform error classification, and the
// one-shot credential refresh flow.
package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the failure classes callers branch on.
var (
	// ErrUnauthenticated means no usable session: missing token or a 401
	// that survived the refresh flow's first attempt.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrSessionExpired means the refresh token itself was rejected.
	// Callers must treat it as a logout: clear the store, route to login.
	ErrSessionExpired = errors.New("session expired")

	// ErrForbidden means acting on a resource the caller does not own.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials means the server rejected a password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// NetworkError wraps transport-level failures (no connectivity, timeout).
type NetworkError struct {
	err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.err)
}

func (e *NetworkError) Unwrap() error {
	return e.err
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(err error) error {
	return &NetworkError{err: err}
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ValidationError carries the field-keyed messages from a 400 response
// verbatim; the server's validation text is what the product shows users.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// FieldMessages returns the server messages for a field, or nil.
func (e *ValidationError) FieldMessages(field string) []string {
	return e.Fields[field]
}

// AsValidationError extracts a ValidationError from err, if present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// RequestFailed covers uncategorized server failures (404, 5xx, unexpected
// statuses), keeping the status and raw body for diagnostics.
type RequestFailed struct {
	Status int
	Body   string
}

func (e *RequestFailed) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("request failed (status %d): %s", e.Status, body)
}
