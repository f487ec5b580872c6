// Package constants provides shared constants for the max-profit-solver application.
package constants

// Objective vocabulary
const (
	// DirectionMaximize marks an objective to be maximized.
	DirectionMaximize = "maximize"

	// DirectionMinimize marks an objective to be minimized.
	DirectionMinimize = "minimize"

	// MetricProfit is the total profit value of the allocation.
	MetricProfit = "profit"

	// MetricResourceUsage is the labor consumed by the allocation.
	MetricResourceUsage = "resource_usage"

	// MetricBudgetUsage is the budget consumed by the allocation.
	MetricBudgetUsage = "budget_usage"

	// MinRank is the highest objective priority.
	MinRank = 1

	// MaxRank is the lowest objective priority; larger ranks are clamped to it.
	MaxRank = 10
)

// Finding scopes and quantities
const (
	// ScopeGlobal identifies findings that apply to the global constraints.
	ScopeGlobal = "global"

	// QuantityBudget identifies budget-related findings.
	QuantityBudget = "budget"

	// QuantityLabor identifies man-hour related findings.
	QuantityLabor = "labor"
)

// Numeric constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// ProfitFractionDivisor fuses the averaging of the profit range with the
	// percent-to-fraction conversion.
	ProfitFractionDivisor = 200.0

	// FeasibilityTolerance is the absolute slack allowed when re-checking a
	// solver allocation against declared ranges.
	FeasibilityTolerance = 1e-6

	// DefaultSolverTolerance is the pivot tolerance handed to the simplex.
	DefaultSolverTolerance = 1e-10

	// DecimalPlaces is the precision for currency rounding
	DecimalPlaces = 2
)

// DefaultSensitivityDeltas are the profit percentage perturbations applied
// after a solve.
var DefaultSensitivityDeltas = []float64{-10, -5, 5, 10}

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "input.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Log rotation defaults
const (
	// DefaultLogMaxSizeMB is the size at which the log file is rotated.
	DefaultLogMaxSizeMB = 50

	// DefaultLogMaxBackups is the number of rotated files kept.
	DefaultLogMaxBackups = 3

	// DefaultLogMaxAgeDays is the retention of rotated files.
	DefaultLogMaxAgeDays = 28
)
