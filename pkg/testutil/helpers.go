// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/max-profit-solver/pkg/mathutil"
	"github.com/iwvelando/max-profit-solver/pkg/sensitivity"
	"github.com/iwvelando/max-profit-solver/pkg/verification"
)

// FindRow finds the usage row of a product.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(rows []verification.Usage, product string) *verification.Usage {
	for i := range rows {
		if rows[i].Product == product {
			return &rows[i]
		}
	}
	return nil
}

// FindScenario finds the sensitivity scenario for a profit delta.
// Returns a pointer to the scenario if found, nil otherwise.
func FindScenario(table sensitivity.Table, delta float64) *sensitivity.Scenario {
	for i := range table.Scenarios {
		if mathutil.WithinTolerance(table.Scenarios[i].Delta, delta, 1e-9) {
			return &table.Scenarios[i]
		}
	}
	return nil
}
