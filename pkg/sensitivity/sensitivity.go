// Package sensitivity perturbs each product's average profit percentage by
// fixed deltas and recomputes the profit value of a fixed allocation.
package sensitivity

import (
	"fmt"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/lpmodel"
	"github.com/iwvelando/max-profit-solver/pkg/mathutil"
	"github.com/iwvelando/max-profit-solver/pkg/solver"
)

// Entry is the recomputed profit of one product under one delta.
type Entry struct {
	Product         string  `json:"product"`
	AdjustedPercent float64 `json:"adjustedPercent"`
	ProfitValue     float64 `json:"profitValue"`
}

// Scenario groups the entries of one delta.
type Scenario struct {
	Delta       float64 `json:"delta"`
	Entries     []Entry `json:"entries"`
	TotalProfit float64 `json:"totalProfit"`
}

// Table is the analysis output, one scenario per non-zero delta in input order.
type Table struct {
	Scenarios []Scenario `json:"scenarios"`
}

// Analyze recomputes the profit of the allocation for each delta. A delta
// is a relative change in percent: -10 lowers every average profit
// percentage by a tenth. Zero deltas are skipped; a nil deltas slice uses
// constants.DefaultSensitivityDeltas. The solution is never modified.
func Analyze(m *lpmodel.Model, sol *solver.Solution, deltas []float64) (Table, error) {
	if err := m.CheckSolution(sol); err != nil {
		return Table{}, fmt.Errorf("sensitivity: %w", err)
	}
	if deltas == nil {
		deltas = constants.DefaultSensitivityDeltas
	}

	table := Table{Scenarios: make([]Scenario, 0, len(deltas))}
	for _, delta := range deltas {
		if delta == 0 {
			continue
		}
		scenario := Scenario{Delta: delta, Entries: make([]Entry, 0, m.NumVariables())}
		for _, col := range m.Columns {
			adjusted := col.AvgProfitPercent * (1 + delta/constants.PercentageMultiplier)
			value := mathutil.ApplyPercentage(sol.Values[col.Index]*col.AvgCost, adjusted)
			scenario.Entries = append(scenario.Entries, Entry{
				Product:         col.Name,
				AdjustedPercent: adjusted,
				ProfitValue:     value,
			})
			scenario.TotalProfit += value
		}
		table.Scenarios = append(table.Scenarios, scenario)
	}
	return table, nil
}
