package client

import (
	"errors"
	"fmt"
)

const (
	excerptLimit           = 200
	defaultBackendErrorMsg = "Processing error"
)

// ErrEmptyResponse indicates the backend answered with an empty body.
var ErrEmptyResponse = errors.New("empty response from server")

// InvalidJSONError is returned when the backend body is not valid JSON.
type InvalidJSONError struct {
	Excerpt string
	Err     error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid JSON response from server: %s", e.Excerpt)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// BackendError is a well-formed error reply with a non-success status.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

func newInvalidJSONError(body []byte, err error) *InvalidJSONError {
	return &InvalidJSONError{Excerpt: excerpt(string(body), excerptLimit), Err: err}
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
