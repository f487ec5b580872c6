// Package objective turns ranked goals into the scalar weights of a single
// linear objective.
package objective

import (
	"errors"
	"fmt"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/domain"
)

// ErrInvalidRank is returned for a rank that cannot be inverted.
var ErrInvalidRank = errors.New("objective rank must be positive")

// Weights are the coefficients applied to the profit, resource and budget
// terms of the objective.
type Weights struct {
	Profit   float64 `json:"profit"`
	Resource float64 `json:"resource"`
	Budget   float64 `json:"budget"`
}

// ComputeWeights assigns 1/rank to each recognized (name, direction) pair.
// Unrecognized objectives contribute nothing and absent ones weigh zero. A
// repeated pair keeps the weight of its last occurrence.
func ComputeWeights(objectives []domain.Objective) (Weights, error) {
	var w Weights
	for _, obj := range objectives {
		target := w.slot(obj)
		if target == nil {
			continue
		}
		if obj.Rank <= 0 {
			return Weights{}, fmt.Errorf("%s_%s: %w (got %d)", obj.Direction, obj.Name, ErrInvalidRank, obj.Rank)
		}
		*target = 1 / float64(obj.Rank)
	}
	return w, nil
}

func (w *Weights) slot(obj domain.Objective) *float64 {
	switch {
	case obj.Name == constants.MetricProfit && obj.Direction == constants.DirectionMaximize:
		return &w.Profit
	case obj.Name == constants.MetricResourceUsage && obj.Direction == constants.DirectionMinimize:
		return &w.Resource
	case obj.Name == constants.MetricBudgetUsage && obj.Direction == constants.DirectionMaximize:
		return &w.Budget
	default:
		return nil
	}
}

// Recognized reports whether an objective contributes to the weights.
func Recognized(obj domain.Objective) bool {
	var w Weights
	return w.slot(obj) != nil
}
