package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrService indicates the remote API reported a failure
	ErrService = errors.New("service error")
	// ErrTransport indicates a non-2xx status or a connection failure
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse indicates a 2xx response whose body could not be understood
	ErrMalformedResponse = errors.New("malformed response")
)

// ServiceError carries the code and message of an error element.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
}

// Is implements errors.Is support
func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}

// TransportError reports a failed round trip. StatusCode is 0 when no
// response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("transport error: %v", e.Err)
		}
		return "transport error"
	}
	return fmt.Sprintf("transport error %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// IsServerError reports a 5xx status.
func (e *TransportError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsUnauthorized reports a 401 or 403 status.
func (e *TransportError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// MalformedResponseError reports a body that could not be turned into a result.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
