// Package format renders report numbers as display strings.
package format

import (
	"strings"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	d := round(amount)
	if d.IsNegative() {
		return "-$" + group(d.Abs())
	}
	return "$" + group(d)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	d := round(amount)
	if d.IsNegative() {
		return "-" + group(d.Abs())
	}
	return group(d)
}

// Percent renders a percentage with two decimals (e.g., "25.00%").
func Percent(value float64) string {
	return round(value).StringFixed(constants.DecimalPlaces) + "%"
}

// Quantity renders a unit or hour count with two decimals and separators.
func Quantity(value float64) string {
	return NumericCurrency(value)
}

func round(v float64) decimal.Decimal {
	d := decimal.NewFromFloat(v).Round(constants.DecimalPlaces)
	if d.IsZero() {
		// avoid "-0.00"
		return decimal.Zero
	}
	return d
}

func group(d decimal.Decimal) string {
	formatted := d.StringFixed(constants.DecimalPlaces)
	intPart, decPart, _ := strings.Cut(formatted, ".")

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
