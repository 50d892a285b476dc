package loanbook

import (
	"errors"
	"fmt"
)

// The three error kinds every operation reports. Wrap them with %w so that
// callers can test with errors.Is regardless of the message details.
var (
	// ErrInvalidInput marks a malformed or out-of-domain record or
	// configuration field, detected before any computation starts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoConvergence marks a solver that exhausted its iteration budget
	// without meeting tolerance.
	ErrNoConvergence = errors.New("no convergence")

	// ErrDomain marks an operation whose inputs are well-formed but leave
	// the mathematical domain, like a target value no rate can reach.
	ErrDomain = errors.New("domain error")
)

// NoConvergenceError carries the solver state at the moment it gave up, so
// callers can inspect or report the best estimate reached.
type NoConvergenceError struct {
	Iterations int     // iterations consumed across both phases
	Best       float64 // best rate estimate reached
	NPV        float64 // net present value at Best
}

func (e *NoConvergenceError) Error() string {
	return fmt.Sprintf("no convergence after %d iterations (best rate %.9f, npv %.6g)", e.Iterations, e.Best, e.NPV)
}

// Is reports ErrNoConvergence so errors.Is works on the sentinel.
func (e *NoConvergenceError) Is(target error) bool { return target == ErrNoConvergence }
