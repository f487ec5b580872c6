// Package output provides utilities for formatting and displaying solve results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/iwvelando/max-profit-solver/internal/optimizer"
	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/format"
	"github.com/iwvelando/max-profit-solver/pkg/objective"
	"github.com/iwvelando/max-profit-solver/pkg/sensitivity"
	"github.com/iwvelando/max-profit-solver/pkg/validation"
	"github.com/iwvelando/max-profit-solver/pkg/verification"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders result in the named output format.
func Write(w io.Writer, outputFormat string, result *optimizer.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, result)
	case constants.OutputFormatCSV:
		return CsvFormat(w, result)
	case constants.OutputFormatJSON:
		return JSONFormat(w, result)
	}
	return validation.ValidateOutputFormat(outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, result *optimizer.Result) error {
	if result == nil {
		return fmt.Errorf("no result to format")
	}
	p := message.NewPrinter(language.English)

	writeFindings(p, w, result.Validation)
	if !result.Solved() {
		return nil
	}

	_, _ = p.Fprintf(w, "\n--- Objective weights ---\n")
	writeWeights(p, w, result.Weights)

	_, _ = p.Fprintf(w, "\n--- Allocation ---\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "Product\tCost Picked\tProfit %\tProfit Value\tUnits\tMan Hours\tBudget Used")
	_, _ = fmt.Fprintln(tw, "_______\t___________\t________\t____________\t_____\t_________\t___________")
	for _, row := range result.Verification.Rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Product,
			format.Currency(row.CostPicked),
			format.Percent(row.ProfitPercent),
			format.Currency(row.ProfitValue),
			format.Quantity(row.Units),
			format.Quantity(row.ManHours),
			format.Currency(row.BudgetUsed),
		)
	}
	totals := result.Verification.Totals
	_, _ = fmt.Fprintf(tw, "Total\t\t%s\t%s\t\t%s\t%s\n",
		format.Percent(totals.ProfitPercent),
		format.Currency(totals.ProfitValue),
		format.Quantity(totals.ManHours),
		format.Currency(totals.BudgetUsed),
	)
	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = p.Fprintf(w, "\nTotal profit %s on %s of budget (%s)\n",
		format.Currency(totals.ProfitValue), format.Currency(totals.BudgetUsed), format.Percent(totals.ProfitPercent))
	if !totals.ProfitTargetMet {
		_, _ = p.Fprintf(w, "Note: total profit is outside the global profit range\n")
	}

	writeViolations(p, w, result.Verification)
	return writeSensitivity(p, w, result.Sensitivity)
}

func writeFindings(p *message.Printer, w io.Writer, report validation.Report) {
	_, _ = p.Fprintf(w, "--- Validation ---\n")
	if !report.HasErrors() && !report.HasWarnings() {
		_, _ = p.Fprintf(w, "All declared ranges are consistent\n")
		return
	}
	if report.HasErrors() {
		_, _ = p.Fprintf(w, "Critical errors (%d):\n", len(report.Errors))
		for _, e := range report.Errors {
			_, _ = p.Fprintf(w, "  - %s\n", e.Message)
		}
	}
	if report.HasWarnings() {
		_, _ = p.Fprintf(w, "Warnings (%d):\n", len(report.Warnings))
		for _, warning := range report.Warnings {
			_, _ = p.Fprintf(w, "  - %s\n", warning.Message)
		}
	}
}

func writeWeights(p *message.Printer, w io.Writer, weights objective.Weights) {
	_, _ = p.Fprintf(w, "profit: %.4f | resource usage: %.4f | budget usage: %.4f\n",
		weights.Profit, weights.Resource, weights.Budget)
}

func writeViolations(p *message.Printer, w io.Writer, report verification.Report) {
	_, _ = p.Fprintf(w, "\n--- Constraint check ---\n")
	if report.OK() {
		_, _ = p.Fprintf(w, "All constraints satisfied\n")
		return
	}
	for _, v := range report.Violations {
		_, _ = p.Fprintf(w, "  - %s (used %.2f, allowed %s)\n", v.Message, v.Used, v.Limit)
	}
}

func writeSensitivity(p *message.Printer, w io.Writer, table sensitivity.Table) error {
	if len(table.Scenarios) == 0 {
		return nil
	}
	_, _ = p.Fprintf(w, "\n--- Sensitivity analysis ---\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "Delta\tProduct\tAdjusted Profit %\tProfit Value")
	_, _ = fmt.Fprintln(tw, "_____\t_______\t_________________\t____________")
	for _, s := range table.Scenarios {
		delta := deltaLabel(s.Delta)
		for _, e := range s.Entries {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", delta, e.Product, format.Percent(e.AdjustedPercent), format.Currency(e.ProfitValue))
		}
		_, _ = fmt.Fprintf(tw, "%s\tTotal\t\t%s\n", delta, format.Currency(s.TotalProfit))
	}
	return tw.Flush()
}

func deltaLabel(delta float64) string {
	return fmt.Sprintf("%+g%%", delta)
}

// CsvFormat outputs the allocation table and the sensitivity table in
// comma-separated value format. Each record starts with its section name.
func CsvFormat(w io.Writer, result *optimizer.Result) error {
	if result == nil {
		return fmt.Errorf("no result to format")
	}
	cw := csv.NewWriter(w)

	records := [][]string{{"section", "product", "delta", "cost picked", "profit percent", "profit value", "units", "man hours", "budget used", "message"}}
	for _, e := range result.Validation.Errors {
		records = append(records, []string{"critical", e.Scope, "", "", "", "", "", "", "", e.Message})
	}
	for _, warning := range result.Validation.Warnings {
		records = append(records, []string{"warning", warning.Scope, "", "", "", "", "", "", "", warning.Message})
	}

	if result.Solved() {
		for _, row := range result.Verification.Rows {
			records = append(records, []string{
				"allocation", row.Product, "",
				number(row.CostPicked), number(row.ProfitPercent), number(row.ProfitValue),
				number(row.Units), number(row.ManHours), number(row.BudgetUsed), "",
			})
		}
		totals := result.Verification.Totals
		records = append(records, []string{
			"total", "", "", "",
			number(totals.ProfitPercent), number(totals.ProfitValue), "",
			number(totals.ManHours), number(totals.BudgetUsed), "",
		})
		for _, v := range result.Verification.Violations {
			records = append(records, []string{"violation", v.Scope, "", "", "", "", "", "", number(v.Used), v.Message})
		}
		for _, s := range result.Sensitivity.Scenarios {
			for _, e := range s.Entries {
				records = append(records, []string{
					"sensitivity", e.Product, number(s.Delta), "",
					number(e.AdjustedPercent), number(e.ProfitValue), "", "", "", "",
				})
			}
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', constants.DecimalPlaces, 64)
}

// JSONFormat outputs the result as an indented JSON document.
func JSONFormat(w io.Writer, result *optimizer.Result) error {
	if result == nil {
		return fmt.Errorf("no result to format")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
