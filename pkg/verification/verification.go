// Package verification re-checks a solver allocation against the declared
// ranges it was modeled from. Averaged coefficients can yield an allocation
// that is optimal for the model yet borderline against those ranges,
// so every solve is followed by a Check. Violations are reported, never
// corrected.
package verification

import (
	"fmt"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/domain"
	"github.com/iwvelando/max-profit-solver/pkg/lpmodel"
	"github.com/iwvelando/max-profit-solver/pkg/mathutil"
	"github.com/iwvelando/max-profit-solver/pkg/solver"
	"gonum.org/v1/gonum/floats"
)

// Usage is one row of the allocation table.
type Usage struct {
	Product       string  `json:"product"`
	CostPicked    float64 `json:"costPicked"`
	ProfitPercent float64 `json:"profitPercent"`
	ProfitValue   float64 `json:"profitValue"`
	Units         float64 `json:"units"`
	ManHours      float64 `json:"manHours"`
	BudgetUsed    float64 `json:"budgetUsed"`
}

// Totals aggregates the allocation table.
type Totals struct {
	ProfitValue   float64 `json:"profitValue"`
	ProfitPercent float64 `json:"profitPercent"`
	ManHours      float64 `json:"manHours"`
	BudgetUsed    float64 `json:"budgetUsed"`
	// ProfitTargetMet is advisory: total profit value inside the global
	// profit range. An unset range (max <= 0) is always met.
	ProfitTargetMet bool `json:"profitTargetMet"`
}

// Violation is a declared range the allocation does not respect.
type Violation struct {
	Scope    string  `json:"scope"`
	Quantity string  `json:"quantity"`
	Used     float64 `json:"used"`
	Limit    string  `json:"limit"`
	Message  string  `json:"message"`
}

// Report is the outcome of Check.
type Report struct {
	Rows       []Usage     `json:"rows"`
	Totals     Totals      `json:"totals"`
	Violations []Violation `json:"violations,omitempty"`
}

// OK reports whether the allocation respects every declared range.
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// Check recomputes budget and labor usage per product and in total and
// compares them with the declared ranges. It has no side effects, so
// repeated calls on the same input return identical reports.
func Check(m *lpmodel.Model, products domain.Catalog, global domain.GlobalConstraints, sol *solver.Solution) (Report, error) {
	if err := m.CheckSolution(sol); err != nil {
		return Report{}, fmt.Errorf("verification: %w", err)
	}

	report := Report{Rows: make([]Usage, 0, m.NumVariables())}
	budgets := make([]float64, 0, m.NumVariables())
	hours := make([]float64, 0, m.NumVariables())
	profits := make([]float64, 0, m.NumVariables())

	for _, col := range m.Columns {
		product, ok := products[col.Name]
		if !ok {
			return Report{}, fmt.Errorf("verification: product %s is not in the catalog", col.Name)
		}
		units := sol.Values[col.Index]
		usage := Usage{
			Product:       col.Name,
			CostPicked:    col.AvgCost,
			ProfitPercent: col.AvgProfitPercent,
			ProfitValue:   mathutil.ApplyPercentage(units*col.AvgCost, col.AvgProfitPercent),
			Units:         units,
			ManHours:      units * col.AvgManHour,
			BudgetUsed:    units * col.AvgCost,
		}
		report.Rows = append(report.Rows, usage)
		budgets = append(budgets, usage.BudgetUsed)
		hours = append(hours, usage.ManHours)
		profits = append(profits, usage.ProfitValue)

		if !mathutil.InRange(usage.BudgetUsed, product.Budget, constants.FeasibilityTolerance) {
			report.Violations = append(report.Violations, Violation{
				Scope:    col.Name,
				Quantity: constants.QuantityBudget,
				Used:     usage.BudgetUsed,
				Limit:    product.Budget.String(),
				Message:  "Budget constraint violated for product: " + col.Name,
			})
		}
		if !mathutil.AtMost(usage.ManHours, domain.LaborCap(product.TotalManHours.Max), constants.FeasibilityTolerance) {
			report.Violations = append(report.Violations, Violation{
				Scope:    col.Name,
				Quantity: constants.QuantityLabor,
				Used:     usage.ManHours,
				Limit:    fmt.Sprintf("<= %g", product.TotalManHours.Max),
				Message:  "Man-hours constraint violated for product: " + col.Name,
			})
		}
	}

	totals := Totals{
		ProfitValue: floats.Sum(profits),
		ManHours:    floats.Sum(hours),
		BudgetUsed:  floats.Sum(budgets),
	}
	totals.ProfitPercent = mathutil.CalculatePercentage(totals.ProfitValue, totals.BudgetUsed)
	totals.ProfitTargetMet = global.Profit.Max <= 0 || mathutil.InRange(totals.ProfitValue, global.Profit, constants.FeasibilityTolerance)
	report.Totals = totals

	if !mathutil.AtMost(totals.BudgetUsed, global.Budget.Max, constants.FeasibilityTolerance) {
		report.Violations = append(report.Violations, Violation{
			Scope:    constants.ScopeGlobal,
			Quantity: constants.QuantityBudget,
			Used:     totals.BudgetUsed,
			Limit:    fmt.Sprintf("<= %g", global.Budget.Max),
			Message:  "Global budget constraint violated.",
		})
	}
	if !mathutil.AtMost(totals.ManHours, domain.LaborCap(global.ManHours.Max), constants.FeasibilityTolerance) {
		report.Violations = append(report.Violations, Violation{
			Scope:    constants.ScopeGlobal,
			Quantity: constants.QuantityLabor,
			Used:     totals.ManHours,
			Limit:    fmt.Sprintf("<= %g", global.ManHours.Max),
			Message:  "Global man-hours constraint violated.",
		})
	}

	return report, nil
}
