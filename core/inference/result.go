// Package inference defines the typed outcome contract for remote inference
// requests. Every request resolves into exactly one of: a reply string, or
// an *Error tagged with one of the kinds below.
package inference

import "fmt"

type ErrorKind string

const (
	// ErrorKindTransport covers requests that never completed: network
	// failures, timeouts, connection refusals.
	ErrorKindTransport ErrorKind = "transport"
	// ErrorKindServer covers non-success responses from the backend.
	ErrorKindServer ErrorKind = "server"
	// ErrorKindMalformedResponse covers success responses with no usable
	// reply field.
	ErrorKindMalformedResponse ErrorKind = "malformed_response"
)

// Error is the single error type returned by inference clients. Kind tags
// the failure class, Message carries the human-readable detail used for
// spoken fallbacks.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Kind == ErrorKindServer && e.StatusCode != 0 {
		return fmt.Sprintf("inference %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("inference %s error: %s", e.Kind, e.Message)
}

// Detail returns the message suitable for composing user-facing feedback.
func (e *Error) Detail() string {
	return e.Message
}

func NewTransportError(message string) *Error {
	return &Error{Kind: ErrorKindTransport, Message: message}
}

func NewServerError(statusCode int, message string) *Error {
	return &Error{Kind: ErrorKindServer, StatusCode: statusCode, Message: message}
}

func NewMalformedResponseError(message string) *Error {
	return &Error{Kind: ErrorKindMalformedResponse, Message: message}
}
