package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Simplex solves problems with gonum's simplex implementation.
type Simplex struct {
	tolerance float64
	logger    *zap.Logger
}

// NewSimplex instantiates a Simplex solver.
func NewSimplex(opts ...Option) (*Simplex, error) {
	s := &Simplex{
		tolerance: constants.DefaultSolverTolerance,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying solver option: %w", err)
		}
	}
	return s, nil
}

// Solve converts p into the general form
//
//	min c'x  s.t.  G x <= h
//
// where every finite variable bound and every finite row bound becomes one
// inequality, then hands it to lp.Convert and lp.Simplex. Maximization
// negates c. Panics raised inside gonum are reported as ErrInternal.
func (s *Simplex) Solve(ctx context.Context, p *Problem) (sol *Solution, err error) {
	defer func() {
		if r := recover(); r != nil {
			sol = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	n := p.NumVariables()
	c := make([]float64, n)
	for i, coef := range p.Objective {
		if p.Direction == Maximize {
			c[i] = -coef
		} else {
			c[i] = coef
		}
	}

	g, h := inequalities(p)
	if len(h) == 0 {
		return s.solveUnconstrained(p)
	}

	s.logger.Debug("solving linear program",
		zap.String("op", "solver.Simplex.Solve"),
		zap.String("problem", p.Name),
		zap.Int("variables", n),
		zap.Int("rows", len(p.Rows)),
		zap.Int("inequalities", len(h)),
		zap.Stringer("direction", p.Direction),
	)

	cStd, aStd, bStd := lp.Convert(c, g, h, nil, nil)
	_, x, lpErr := lp.Simplex(cStd, aStd, bStd, s.tolerance, nil)
	if lpErr != nil {
		return nil, translate(lpErr)
	}

	// lp.Convert splits each free variable into x = x+ - x-.
	values := make([]float64, n)
	for i := range values {
		values[i] = x[i] - x[n+i]
	}

	sol = &Solution{Values: values, ObjectiveValue: Evaluate(p.Objective, values)}
	s.logger.Debug("linear program solved",
		zap.String("op", "solver.Simplex.Solve"),
		zap.String("problem", p.Name),
		zap.Float64("objective", sol.ObjectiveValue),
	)
	return sol, nil
}

// solveUnconstrained handles a problem without a single finite bound: it is
// bounded only when the objective is identically zero.
func (s *Simplex) solveUnconstrained(p *Problem) (*Solution, error) {
	for _, coef := range p.Objective {
		if coef != 0 {
			return nil, ErrUnbounded
		}
	}
	return &Solution{Values: make([]float64, p.NumVariables())}, nil
}

func inequalities(p *Problem) (*mat.Dense, []float64) {
	n := p.NumVariables()
	var data, h []float64

	addRow := func(coefs []float64, bound float64) {
		data = append(data, coefs...)
		h = append(h, bound)
	}

	for i := 0; i < n; i++ {
		if !math.IsInf(p.Upper[i], 1) {
			coefs := make([]float64, n)
			coefs[i] = 1
			addRow(coefs, p.Upper[i])
		}
		if !math.IsInf(p.Lower[i], -1) {
			coefs := make([]float64, n)
			coefs[i] = -1
			addRow(coefs, -p.Lower[i])
		}
	}

	for _, row := range p.Rows {
		dense := make([]float64, n)
		for k, idx := range row.Indices {
			dense[idx] += row.Coefs[k]
		}
		if !math.IsInf(row.Upper, 1) {
			addRow(dense, row.Upper)
		}
		if !math.IsInf(row.Lower, -1) {
			negated := make([]float64, n)
			for j, v := range dense {
				negated[j] = -v
			}
			addRow(negated, -row.Lower)
		}
	}

	if len(h) == 0 {
		return nil, nil
	}
	return mat.NewDense(len(h), n, data), h
}

func translate(err error) error {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return ErrInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return ErrUnbounded
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
