/*
Package solver is the boundary between the planning pipeline and a linear
programming engine.

A Problem describes bounded decision variables, linear rows with lower and
upper bounds, and an objective with a direction:

	Maximize:
	  z = 2.75 x0
	With:
	  100 <= x0 <= 200
	Subject to:
	  1000 <= 11 x0 <= 2400

	p := &solver.Problem{
		Lower:     []float64{100},
		Upper:     []float64{200},
		Rows:      []solver.Row{{Indices: []int{0}, Coefs: []float64{11}, Lower: 1000, Upper: 2400}},
		Objective: []float64{2.75},
		Direction: solver.Maximize,
	}
	s, _ := solver.NewSimplex()
	sol, err := s.Solve(ctx, p)

A failed solve returns a SolveError (ErrInfeasible, ErrUnbounded or
ErrInternal), possibly wrapped; test with errors.Is.
*/
package solver

import (
	"context"
	"fmt"
	"math"
)

// Direction is the optimization sense of a Problem.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

func (d Direction) String() string {
	switch d {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Row is a sparse linear constraint Lower <= sum(Coefs[k] * x[Indices[k]]) <= Upper.
// Use math.Inf for a missing bound.
type Row struct {
	Name    string
	Indices []int
	Coefs   []float64
	Lower   float64
	Upper   float64
}

// Problem is a bounded linear program.
type Problem struct {
	Name      string
	Lower     []float64
	Upper     []float64
	Rows      []Row
	Objective []float64
	Direction Direction
}

// NumVariables returns the number of decision variables.
func (p *Problem) NumVariables() int {
	return len(p.Objective)
}

// Validate checks that every slice agrees on the number of variables and
// that rows only reference existing variables.
func (p *Problem) Validate() error {
	n := p.NumVariables()
	if n == 0 {
		return fmt.Errorf("problem %q has no decision variables", p.Name)
	}
	if len(p.Lower) != n || len(p.Upper) != n {
		return fmt.Errorf("inconsistent number of bounds: %d variables, %d lower, %d upper",
			n, len(p.Lower), len(p.Upper))
	}
	for i, c := range p.Objective {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("objective coefficient %d is not finite: %v", i, c)
		}
	}
	for r, row := range p.Rows {
		if len(row.Indices) != len(row.Coefs) {
			return fmt.Errorf("row %d (%s): inconsistent number of variables and coefficients: %d != %d",
				r, row.Name, len(row.Indices), len(row.Coefs))
		}
		for k, idx := range row.Indices {
			if idx < 0 || idx >= n {
				return fmt.Errorf("row %d (%s): variable index %d out of range [0, %d)", r, row.Name, idx, n)
			}
			if math.IsNaN(row.Coefs[k]) || math.IsInf(row.Coefs[k], 0) {
				return fmt.Errorf("row %d (%s): coefficient %d is not finite", r, row.Name, k)
			}
		}
		if math.IsNaN(row.Lower) || math.IsNaN(row.Upper) {
			return fmt.Errorf("row %d (%s): bound is NaN", r, row.Name)
		}
	}
	return nil
}

// Solution is a primal solution, one value per decision variable.
type Solution struct {
	Values         []float64 `json:"values"`
	ObjectiveValue float64   `json:"objectiveValue"`
}

// Solver solves a Problem.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// SolverFunc adapts an ordinary function to the Solver interface.
type SolverFunc func(ctx context.Context, p *Problem) (*Solution, error)

// Solve calls f(ctx, p).
func (f SolverFunc) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	return f(ctx, p)
}
