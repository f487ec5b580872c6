package solver

import (
	"gonum.org/v1/gonum/floats"
)

// SolveError distinguishes the ways a solve can fail.
type SolveError int

const (
	ErrInfeasible SolveError = iota + 1
	ErrUnbounded
	ErrInternal
)

// Error returns a string representation of the given error value.
func (e SolveError) Error() string {
	switch e {
	case ErrInfeasible:
		return "model is infeasible"
	case ErrUnbounded:
		return "model is unbounded"
	case ErrInternal:
		return "internal solver error"
	default:
		return "unrecognized solver error"
	}
}

// Evaluate returns the objective value of values. Both slices must have the
// same length.
func Evaluate(objective, values []float64) float64 {
	return floats.Dot(objective, values)
}
