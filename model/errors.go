package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is matched by every caller-correctable argument error
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingIdentifier indicates an object lacks the attribute needed to address it remotely
	ErrMissingIdentifier = errors.New("missing identifying attribute")
	// ErrWrongKind indicates a convenience method was called on an object of another kind
	ErrWrongKind = errors.New("operation not supported for this kind")
	// ErrDetached indicates the object has no API to re-invoke
	ErrDetached = errors.New("object is not bound to an API")
)

// MissingAttributeError reports which identifying attributes were absent.
type MissingAttributeError struct {
	Kind  Kind
	Attrs []string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("no %s has been specified for this %s object", strings.Join(e.Attrs, " or "), e.Kind)
}

// Is implements errors.Is support
func (e *MissingAttributeError) Is(target error) bool {
	return target == ErrMissingIdentifier || target == ErrInvalidArgument
}
