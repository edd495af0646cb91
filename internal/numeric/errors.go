package numeric

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the computation packages.
var (
	// ErrInvalidArgument indicates malformed or out-of-domain input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNumericDivergence indicates an iterative solver hit its iteration bound.
	ErrNumericDivergence = errors.New("numeric divergence")
)

// ArgumentError describes a rejected input value.
type ArgumentError struct {
	Op     string
	Name   string
	Value  float64
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s: %s=%g %s", e.Op, ErrInvalidArgument, e.Name, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// InvalidArgument builds an *ArgumentError.
func InvalidArgument(op, name string, value float64, reason string) error {
	return &ArgumentError{Op: op, Name: name, Value: value, Reason: reason}
}

// DivergenceError reports a solver that did not converge for Arg.
type DivergenceError struct {
	Op         string
	Arg        float64
	Iterations int
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%s: %s: no convergence for argument %g after %d iterations",
		e.Op, ErrNumericDivergence, e.Arg, e.Iterations)
}

func (e *DivergenceError) Unwrap() error {
	return ErrNumericDivergence
}
