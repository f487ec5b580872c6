// Package lpmodel builds the linear program solved for a product catalog:
// one decision variable per product (units produced), per-product and global
// budget and labor rows, and a weighted objective.
//
// The objective is a linear scalarization of profit, resource usage and
// budget usage. It is optimal for the weighted sum only and does not
// guarantee Pareto-optimality across the three goals.
package lpmodel

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/domain"
	"github.com/iwvelando/max-profit-solver/pkg/objective"
	"github.com/iwvelando/max-profit-solver/pkg/solver"
)

// ErrNoProducts is returned when the catalog is empty.
var ErrNoProducts = errors.New("no products to model")

// Column holds the representative coefficients of one decision variable.
type Column struct {
	Name              string  `json:"name"`
	Index             int     `json:"index"`
	AvgCost           float64 `json:"avgCost"`
	AvgProfitFraction float64 `json:"avgProfitFraction"`
	AvgProfitPercent  float64 `json:"avgProfitPercent"`
	AvgManHour        float64 `json:"avgManHour"`
}

// Model is the derived state of one solve. Columns are ordered by product
// name and Index maps each product name to its column.
type Model struct {
	Columns   []Column
	Index     map[string]int
	Weights   objective.Weights
	Lower     []float64
	Upper     []float64
	Rows      []solver.Row
	Objective []float64
	Direction solver.Direction
}

// Build derives the model from the catalog, the global caps and the
// objective weights.
func Build(products domain.Catalog, global domain.GlobalConstraints, weights objective.Weights) (*Model, error) {
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	names := products.Names()
	n := len(names)
	m := &Model{
		Columns:   make([]Column, n),
		Index:     make(map[string]int, n),
		Weights:   weights,
		Lower:     make([]float64, n),
		Upper:     make([]float64, n),
		Rows:      make([]solver.Row, 0, 2*n+2),
		Objective: make([]float64, n),
		Direction: solver.Maximize,
	}

	indices := make([]int, n)
	costs := make([]float64, n)
	hours := make([]float64, n)

	for i, name := range names {
		p := products[name]
		col := Column{
			Name:              name,
			Index:             i,
			AvgCost:           p.Cost.Midpoint(),
			AvgProfitFraction: (p.Profit.Min + p.Profit.Max) / constants.ProfitFractionDivisor,
			AvgProfitPercent:  p.Profit.Midpoint(),
			AvgManHour:        p.ManHourPerUnit.Midpoint(),
		}
		m.Columns[i] = col
		m.Index[name] = i

		m.Lower[i] = p.Demand.Min
		m.Upper[i] = p.Demand.Max

		m.Rows = append(m.Rows,
			solver.Row{
				Name:    name + "/budget",
				Indices: []int{i},
				Coefs:   []float64{col.AvgCost},
				Lower:   p.Budget.Min,
				Upper:   p.Budget.Max,
			},
			solver.Row{
				Name:    name + "/labor",
				Indices: []int{i},
				Coefs:   []float64{col.AvgManHour},
				Lower:   0,
				Upper:   domain.LaborCap(p.TotalManHours.Max),
			},
		)

		m.Objective[i] = weights.Profit*(col.AvgCost*col.AvgProfitFraction) -
			weights.Resource*col.AvgManHour +
			weights.Budget*col.AvgCost

		indices[i] = i
		costs[i] = col.AvgCost
		hours[i] = col.AvgManHour
	}

	m.Rows = append(m.Rows,
		solver.Row{
			Name:    "global/budget",
			Indices: indices,
			Coefs:   costs,
			Lower:   global.Budget.Min,
			Upper:   global.Budget.Max,
		},
		solver.Row{
			Name:    "global/labor",
			Indices: append([]int(nil), indices...),
			Coefs:   hours,
			Lower:   0,
			Upper:   domain.LaborCap(global.ManHours.Max),
		},
	)

	return m, nil
}

// NumVariables returns the number of decision variables.
func (m *Model) NumVariables() int {
	return len(m.Columns)
}

// Column returns the column of the named product.
func (m *Model) Column(name string) (Column, bool) {
	i, ok := m.Index[name]
	if !ok {
		return Column{}, false
	}
	return m.Columns[i], true
}

// Problem returns the solver input for the model.
func (m *Model) Problem() *solver.Problem {
	return &solver.Problem{
		Name:      "max-profit",
		Lower:     m.Lower,
		Upper:     m.Upper,
		Rows:      m.Rows,
		Objective: m.Objective,
		Direction: m.Direction,
	}
}

// CheckSolution verifies that a solution has one value per column.
func (m *Model) CheckSolution(sol *solver.Solution) error {
	if sol == nil {
		return errors.New("solution is nil")
	}
	if len(sol.Values) != m.NumVariables() {
		return fmt.Errorf("solution has %d values, model has %d variables", len(sol.Values), m.NumVariables())
	}
	for i, v := range sol.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("solution value for %s is not finite", m.Columns[i].Name)
		}
	}
	return nil
}
