// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/domain"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals for display and comparison.
func Round(val float64) float64 {
	return decimal.NewFromFloat(val).Round(constants.DecimalPlaces).InexactFloat64()
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// InRange reports whether val lies in the interval widened by tolerance on
// both sides.
func InRange(val float64, iv domain.Interval, tolerance float64) bool {
	return val >= iv.Min-tolerance && val <= iv.Max+tolerance
}

// AtMost reports whether val does not exceed limit by more than tolerance.
// An infinite limit is never exceeded.
func AtMost(val, limit, tolerance float64) bool {
	if math.IsInf(limit, 1) {
		return true
	}
	return val <= limit+tolerance
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}
