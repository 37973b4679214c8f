package filter

import (
	"errors"
	"fmt"
)

// ErrEmptyExpression is returned when a blank expression is compiled.
var ErrEmptyExpression = errors.New("empty expression")

type (
	// CompilationError indicates an expression could not be compiled.
	CompilationError struct {
		Expression string
		Reason     string
		Position   int // -1 if unknown
		Err        error
	}

	// EvaluationError indicates an expression failed at run time against
	// one object.
	EvaluationError struct {
		Expression string
		Object     string
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("compilation error at position %d in '%s': %s", e.Position, e.Expression, e.Reason)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating '%s' on %s: %v", e.Expression, e.Object, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
