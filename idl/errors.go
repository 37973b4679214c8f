package idl

import (
	"errors"
	"fmt"
)

// ErrInvalidSchema is matched by every SchemaError.
var ErrInvalidSchema = errors.New("invalid method table")

// SchemaError reports a malformed descriptor found while building a registry.
type SchemaError struct {
	Namespace string
	Method    string
	Param     string
	Reason    string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Param != "":
		return fmt.Sprintf("idl: %s.%s: parameter '%s': %s", e.Namespace, e.Method, e.Param, e.Reason)
	case e.Method != "":
		return fmt.Sprintf("idl: %s.%s: %s", e.Namespace, e.Method, e.Reason)
	default:
		return fmt.Sprintf("idl: %s: %s", e.Namespace, e.Reason)
	}
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}
