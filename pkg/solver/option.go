package solver

import (
	"fmt"

	"go.uber.org/zap"
)

// Option configures a Simplex.
type Option func(*Simplex) error

// WithTolerance sets the pivot tolerance of the simplex iterations.
func WithTolerance(tol float64) Option {
	return func(s *Simplex) error {
		if tol <= 0 {
			return fmt.Errorf("tolerance must be positive, got %g", tol)
		}
		s.tolerance = tol
		return nil
	}
}

// WithLogger routes solver diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simplex) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}
