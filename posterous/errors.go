package posterous

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thomasw/posterous/model"
	"github.com/thomasw/posterous/parser"
)

// Common errors
var (
	// ErrInvalidArgument matches every argument error detected before a call is sent
	ErrInvalidArgument = model.ErrInvalidArgument
	// ErrAuthRequired indicates the active credentials cannot call the method
	ErrAuthRequired = errors.New("authentication required")
	// ErrUnknownMethod indicates the method name is not in the registry
	ErrUnknownMethod = errors.New("unknown method")
	// ErrNotPaginated indicates a cursor was requested over a method without a page parameter
	ErrNotPaginated = errors.New("method does not support pagination")
	// ErrPaginationParam indicates the caller passed page or num_posts to a cursor
	ErrPaginationParam = errors.New("pagination parameters are managed by the cursor")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid posterous configuration")

	// Response errors, re-exported for callers that only import this package.
	ErrService           = parser.ErrService
	ErrTransport         = parser.ErrTransport
	ErrMalformedResponse = parser.ErrMalformedResponse
)

type (
	// ServiceError is returned when the service answers with an error document.
	ServiceError = parser.ServiceError
	// TransportError is returned for connection failures and non-2xx statuses.
	TransportError = parser.TransportError
	// MalformedResponseError is returned for unreadable 2xx bodies.
	MalformedResponseError = parser.MalformedResponseError
)

// ValidationError reports an argument problem found while building a call.
// Message is the complete user-facing text.
type ValidationError struct {
	Method  string
	Param   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func tooManyArguments(method string, max, given int) error {
	return &ValidationError{
		Method:  method,
		Message: fmt.Sprintf("function takes at most %d arguments (%d given)", max, given),
	}
}

func duplicateArgument(method, param string) error {
	return &ValidationError{
		Method:  method,
		Param:   param,
		Message: fmt.Sprintf("got multiple values for keyword argument '%s'", param),
	}
}

func unexpectedArguments(method string, names []string) error {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return &ValidationError{
		Method:  method,
		Message: "got unexpected keyword argument(s) " + strings.Join(quoted, ", "),
	}
}

func invalidValue(method, param, types string) error {
	return &ValidationError{
		Method:  method,
		Param:   param,
		Message: fmt.Sprintf("The value passed for '%s' is not valid. '%s' must be one of these: %s", param, param, types),
	}
}

func invalidElement(method, param, types string) error {
	return &ValidationError{
		Method:  method,
		Param:   param,
		Message: fmt.Sprintf("One of the values passed for '%s' is not valid. All values in '%s' must be one of these: %s", param, param, types),
	}
}

func missingArgument(method, param string) error {
	return &ValidationError{
		Method:  method,
		Param:   param,
		Message: fmt.Sprintf("'%s' is required.", param),
	}
}

// AuthError reports that a method needs credentials the client does not have.
type AuthError struct {
	Method   string
	Required AuthKind
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Required == SignedTokenAuthKind {
		return fmt.Sprintf("%s: signed token authentication is required to use this method", e.Method)
	}
	return fmt.Sprintf("%s: authentication is required to use this method", e.Method)
}

// Is implements errors.Is support
func (e *AuthError) Is(target error) bool {
	return target == ErrAuthRequired
}
