package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies an Error by where in the request lifecycle it originated.
type Kind string

// Error kinds.
const (
	// KindValidation is raised before any network call is made.
	KindValidation Kind = "validation"
	// KindTransport covers connection failures and unreadable responses.
	KindTransport Kind = "transport"
	// KindTimeout is raised when the request deadline expires or the call is aborted.
	KindTimeout Kind = "timeout"
	// KindProtocol is a non-2xx HTTP response.
	KindProtocol Kind = "protocol"
	// KindDecode means the payload did not match the declared shape.
	KindDecode Kind = "decode"
	// KindDomain is a business failure reported inside a 2xx body.
	KindDomain Kind = "domain"
)

// Messages used for transport failures that carry no detail of their own.
const (
	MessageTimeout      = "request timed out"
	MessageNetworkError = "network error"
)

// Error is the uniform failure outcome of a backend call.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"error"`
	Status  int    `json:"status,omitempty"` // 0 when no HTTP response was received
}

func (e *Error) Error() string {
	return e.Message
}

// Timeout reports whether the error was produced by a deadline or abort.
func (e *Error) Timeout() bool {
	return e.Kind == KindTimeout
}

// NewValidationError creates an error for input rejected before any I/O.
func NewValidationError(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("validation error on field '%s': %s", field, message),
	}
}

// NewDomainError creates an error for a failure reported inside a successful response.
func NewDomainError(message string, status int) *Error {
	return &Error{Kind: KindDomain, Message: message, Status: status}
}

// AsError extracts an *Error from err. Errors of any other type are
// reported as transport failures so callers always get a classified outcome.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	msg := err.Error()
	if msg == "" {
		msg = MessageNetworkError
	}
	return &Error{Kind: KindTransport, Message: msg}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
