package validation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/domain"
)

// Finding describes one declared range compared with its realistic range.
type Finding struct {
	Scope     string          `json:"scope"`    // product name or constants.ScopeGlobal
	Quantity  string          `json:"quantity"` // constants.QuantityBudget or constants.QuantityLabor
	Declared  domain.Interval `json:"declared"`
	Realistic domain.Interval `json:"realistic"`
	Message   string          `json:"message"`
}

// CriticalError is a finding that makes the configuration infeasible.
type CriticalError struct {
	Finding
}

func (e CriticalError) Error() string {
	return e.Message
}

// Warning is a feasible but conservative finding.
type Warning struct {
	Finding
}

func (w Warning) String() string {
	return w.Message
}

// Report collects the findings of a validation pass.
type Report struct {
	Errors   []CriticalError `json:"errors,omitempty"`
	Warnings []Warning       `json:"warnings,omitempty"`
}

// HasErrors reports whether any critical error was found.
func (r Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether any warning was found.
func (r Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins the critical errors into a single error, or returns nil.
func (r Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// WarningMessages returns the warning texts in report order.
func (r Report) WarningMessages() []string {
	messages := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		messages = append(messages, w.Message)
	}
	return messages
}

func (r *Report) critical(f Finding) {
	r.Errors = append(r.Errors, CriticalError{Finding: f})
}

func (r *Report) warn(f Finding) {
	r.Warnings = append(r.Warnings, Warning{Finding: f})
}

// Validate derives the realistic budget and labor ranges of every product
// and of the whole catalog and compares them with the declared ranges.
// Products are visited in name order so the report is deterministic.
func Validate(products domain.Catalog, global domain.GlobalConstraints) Report {
	var report Report
	var totalBudget, totalLabor domain.Interval

	for _, product := range products.Products() {
		realisticBudget := product.RealisticBudget()
		realisticLabor := product.RealisticLabor()
		totalBudget = totalBudget.Add(realisticBudget)
		totalLabor = totalLabor.Add(realisticLabor)

		report.checkBudget("Product: "+product.Name+" - Budget", product.Name, product.Budget, realisticBudget)
		report.checkLabor(product.Name, product.TotalManHours, realisticLabor)
	}

	report.checkBudget("Global budget", constants.ScopeGlobal, global.Budget, totalBudget)
	report.checkGlobalLabor(global.ManHours, totalLabor)

	return report
}

// checkBudget applies the containment rule: a declared range reaching outside
// the realistic one is infeasible, one strictly inside it is conservative.
func (r *Report) checkBudget(label, scope string, declared, realistic domain.Interval) {
	finding := Finding{
		Scope:     scope,
		Quantity:  constants.QuantityBudget,
		Declared:  declared,
		Realistic: realistic,
	}
	switch {
	case !realistic.Contains(declared):
		finding.Message = fmt.Sprintf("%s range %s is outside the realistic range %s.",
			label, formatInterval(declared), formatInterval(realistic))
		r.critical(finding)
	case realistic.StrictlyWider(declared):
		finding.Message = fmt.Sprintf("%s range %s is narrower than the realistic range %s.",
			label, formatInterval(declared), formatInterval(realistic))
		r.warn(finding)
	}
}

// checkLabor only looks at the declared maximum; a zero maximum means no cap.
func (r *Report) checkLabor(name string, declared, realistic domain.Interval) {
	finding := Finding{
		Scope:     name,
		Quantity:  constants.QuantityLabor,
		Declared:  declared,
		Realistic: realistic,
	}
	switch {
	case declared.Max < 0:
		finding.Message = fmt.Sprintf("Product: %s - Total man-hours maximum %.2f is negative.", name, declared.Max)
		r.critical(finding)
	case declared.Max > 0 && declared.Max < realistic.Min:
		finding.Message = fmt.Sprintf("Product: %s - Total man-hours range is below the realistic minimum. Suggested max: %.2f.",
			name, realistic.Max)
		r.critical(finding)
	case declared.Max > realistic.Max:
		finding.Message = fmt.Sprintf("Product: %s - Total man-hours range exceeds the realistic maximum. Suggested max: %.2f.",
			name, realistic.Max)
		r.warn(finding)
	}
}

func (r *Report) checkGlobalLabor(declared, realistic domain.Interval) {
	finding := Finding{
		Scope:     constants.ScopeGlobal,
		Quantity:  constants.QuantityLabor,
		Declared:  declared,
		Realistic: realistic,
	}
	switch {
	case declared.Max < 0:
		finding.Message = fmt.Sprintf("Global man-hours maximum %.2f is negative.", declared.Max)
		r.critical(finding)
	case declared.Max > 0 && declared.Max < realistic.Min:
		finding.Message = fmt.Sprintf("Global man-hours maximum %.2f is below the realistic minimum %.2f.",
			declared.Max, realistic.Min)
		r.critical(finding)
	}
}

func formatInterval(i domain.Interval) string {
	return fmt.Sprintf("[%.2f, %.2f]", i.Min, i.Max)
}
