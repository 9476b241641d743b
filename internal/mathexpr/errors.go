package mathexpr

import (
	"errors"
	"fmt"
)

// ErrUndefined is returned (wrapped in an EvaluationError) when an expression
// references a variable that has no binding.
var ErrUndefined = errors.New("undefined variable")

// ParseError reports an expression that cannot be parsed.
type ParseError struct {
	Input string
	Pos   int // byte offset into Input
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s at position %d", e.Input, e.Msg, e.Pos)
}

// EvaluationError reports an expression that parsed but cannot be evaluated
// under the given bindings.
type EvaluationError struct {
	Name string // offending variable or function, if any
	Err  error
}

func (e *EvaluationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("evaluate: %v", e.Err)
	}
	return fmt.Sprintf("evaluate %s: %v", e.Name, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
