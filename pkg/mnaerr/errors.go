// Package mnaerr defines the error taxonomy from spec §7: a
// ConfigurationError raised at construction time, and the two typed
// solve failures returned from a solver run. Wrapping uses
// github.com/pkg/errors so callers can still reach the underlying
// cause with errors.Cause/errors.As while getting a stack-annotated
// message at the point of failure.
package mnaerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError reports an invalid parameter or reference at
// construction time: non-positive resistance with clamping disabled,
// a negative diode threshold, an unknown element/node id, or a pin
// index out of range. It is never returned from a solve.
type ConfigurationError struct {
	Op     string // the operation that rejected the input, e.g. "connect"
	Reason string
	cause  error
}

func (e *ConfigurationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("configuration error in %s: %s: %v", e.Op, e.Reason, e.cause)
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Op, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.cause }

// NewConfigurationError builds a ConfigurationError for op/reason.
func NewConfigurationError(op, reason string) error {
	return &ConfigurationError{Op: op, Reason: reason}
}

// WrapConfigurationError attaches op/reason context to an existing cause.
func WrapConfigurationError(cause error, op, reason string) error {
	return &ConfigurationError{Op: op, Reason: reason, cause: errors.WithStack(cause)}
}

// SingularMatrix is returned from Solve when the linearized Jacobian is
// not invertible at the current iterate (floating nodes, a voltage
// source shorted to itself, and similar). The solver's last trial
// solution must not be read when this error is returned.
type SingularMatrix struct {
	Iteration int
	cause     error
}

func (e *SingularMatrix) Error() string {
	return fmt.Sprintf("singular matrix at iteration %d: %v", e.Iteration, e.cause)
}

func (e *SingularMatrix) Unwrap() error { return e.cause }

// NewSingularMatrix wraps the underlying factorization failure.
func NewSingularMatrix(iteration int, cause error) error {
	return &SingularMatrix{Iteration: iteration, cause: errors.WithStack(cause)}
}

// MaxIterationsExceeded is returned from Solve when the residual never
// dropped below tolerance within the configured iteration budget.
type MaxIterationsExceeded struct {
	MaxIterations int
	LastResidual  float64
}

func (e *MaxIterationsExceeded) Error() string {
	return fmt.Sprintf("did not converge in %d iterations (last residual norm %g)", e.MaxIterations, e.LastResidual)
}

// NewMaxIterationsExceeded builds the typed non-convergence failure.
func NewMaxIterationsExceeded(maxIterations int, lastResidual float64) error {
	return &MaxIterationsExceeded{MaxIterations: maxIterations, LastResidual: lastResidual}
}
