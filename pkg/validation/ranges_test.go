package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/domain"
)

func widget() domain.Product {
	return domain.Product{
		Name:           "Widget",
		Cost:           domain.NewInterval(10, 12),
		Profit:         domain.NewInterval(20, 30),
		Demand:         domain.NewInterval(100, 200),
		Budget:         domain.NewInterval(1000, 2400),
		ManHourPerUnit: domain.NewInterval(1, 2),
		TotalManHours:  domain.NewInterval(0, 400),
	}
}

func widgetGlobal() domain.GlobalConstraints {
	return domain.GlobalConstraints{
		Budget:   domain.NewInterval(1000, 2400),
		ManHours: domain.NewInterval(0, 400),
	}
}

func TestValidateWidgetScenarioIsClean(t *testing.T) {
	report := Validate(domain.Catalog{"Widget": widget()}, widgetGlobal())

	if report.HasErrors() {
		t.Fatalf("expected no critical errors, got %v", report.Errors)
	}
	if report.HasWarnings() {
		t.Fatalf("expected no warnings, got %v", report.WarningMessages())
	}
	if report.Err() != nil {
		t.Fatalf("expected nil Err(), got %v", report.Err())
	}
}

func TestValidateInfeasibleGlobalBudget(t *testing.T) {
	global := widgetGlobal()
	global.Budget = domain.NewInterval(5000, 6000)

	report := Validate(domain.Catalog{"Widget": widget()}, global)

	if len(report.Errors) != 1 {
		t.Fatalf("expected one critical error, got %d: %v", len(report.Errors), report.Errors)
	}
	got := report.Errors[0]
	if got.Scope != constants.ScopeGlobal || got.Quantity != constants.QuantityBudget {
		t.Fatalf("unexpected finding scope/quantity: %s/%s", got.Scope, got.Quantity)
	}
	want := domain.NewInterval(1000, 2400)
	if diff := cmp.Diff(want, got.Realistic); diff != "" {
		t.Fatalf("realistic range mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(got.Message, "outside the realistic range") {
		t.Fatalf("unexpected message: %s", got.Message)
	}

	var critical CriticalError
	if !errors.As(report.Err(), &critical) {
		t.Fatalf("expected Err() to wrap a CriticalError, got %v", report.Err())
	}
}

func TestValidateProductBudget(t *testing.T) {
	tests := []struct {
		name         string
		budget       domain.Interval
		expectErrors int
		expectWarns  int
	}{
		{name: "Equal to realistic", budget: domain.NewInterval(1000, 2400)},
		{name: "Narrower on both sides", budget: domain.NewInterval(1200, 2000), expectWarns: 1},
		{name: "Narrower on the minimum only", budget: domain.NewInterval(1001, 2400), expectWarns: 1},
		{name: "Below realistic minimum", budget: domain.NewInterval(900, 2400), expectErrors: 1},
		{name: "Above realistic maximum", budget: domain.NewInterval(1000, 2500), expectErrors: 1},
		{name: "Outside on one side, narrower on the other", budget: domain.NewInterval(1100, 2500), expectErrors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := widget()
			product.Budget = tt.budget
			report := Validate(domain.Catalog{product.Name: product}, widgetGlobal())

			productErrors, productWarns := 0, 0
			for _, e := range report.Errors {
				if e.Scope == product.Name && e.Quantity == constants.QuantityBudget {
					productErrors++
				}
			}
			for _, w := range report.Warnings {
				if w.Scope == product.Name && w.Quantity == constants.QuantityBudget {
					productWarns++
				}
			}
			if productErrors != tt.expectErrors {
				t.Errorf("critical errors = %d, expected %d", productErrors, tt.expectErrors)
			}
			if productWarns != tt.expectWarns {
				t.Errorf("warnings = %d, expected %d", productWarns, tt.expectWarns)
			}
		})
	}
}

func TestValidateProductLabor(t *testing.T) {
	tests := []struct {
		name        string
		totalHours  domain.Interval
		expectError bool
		expectWarn  bool
	}{
		{name: "Within realistic range", totalHours: domain.NewInterval(0, 400)},
		{name: "Unset maximum is no constraint", totalHours: domain.NewInterval(0, 0)},
		{name: "Maximum below realistic minimum", totalHours: domain.NewInterval(0, 50), expectError: true},
		{name: "Maximum above realistic maximum", totalHours: domain.NewInterval(0, 500), expectWarn: true},
		{name: "Maximum between realistic bounds", totalHours: domain.NewInterval(0, 150)},
		{name: "Negative maximum", totalHours: domain.NewInterval(-20, -10), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := widget()
			product.TotalManHours = tt.totalHours
			report := Validate(domain.Catalog{product.Name: product}, widgetGlobal())

			hasError, hasWarn := false, false
			for _, e := range report.Errors {
				if e.Scope == product.Name && e.Quantity == constants.QuantityLabor {
					hasError = true
				}
			}
			for _, w := range report.Warnings {
				if w.Scope == product.Name && w.Quantity == constants.QuantityLabor {
					hasWarn = true
				}
			}
			if hasError != tt.expectError {
				t.Errorf("labor error = %t, expected %t", hasError, tt.expectError)
			}
			if hasWarn != tt.expectWarn {
				t.Errorf("labor warning = %t, expected %t", hasWarn, tt.expectWarn)
			}
		})
	}
}

func TestValidateGlobalAggregatesAllProducts(t *testing.T) {
	gadget := widget()
	gadget.Name = "Gadget"
	gadget.Cost = domain.NewInterval(5, 6)
	gadget.Demand = domain.NewInterval(10, 20)
	gadget.Budget = domain.NewInterval(50, 120)
	gadget.TotalManHours = domain.NewInterval(0, 40)

	catalog := domain.Catalog{"Widget": widget(), "Gadget": gadget}

	exact := widgetGlobal()
	exact.Budget = domain.NewInterval(1050, 2520)
	if report := Validate(catalog, exact); report.HasErrors() || report.HasWarnings() {
		t.Fatalf("expected clean report for summed realistic budget, got errors=%v warnings=%v",
			report.Errors, report.WarningMessages())
	}

	narrow := widgetGlobal()
	narrow.Budget = domain.NewInterval(1100, 2000)
	report := Validate(catalog, narrow)
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Scope != constants.ScopeGlobal {
		t.Fatalf("expected one global warning, got %v", report.WarningMessages())
	}
}

func TestValidateGlobalLaborBelowRealisticMinimum(t *testing.T) {
	global := widgetGlobal()
	global.ManHours = domain.NewInterval(0, 90)

	report := Validate(domain.Catalog{"Widget": widget()}, global)
	if len(report.Errors) != 1 || report.Errors[0].Quantity != constants.QuantityLabor {
		t.Fatalf("expected a single global labor error, got %v", report.Errors)
	}
}

func TestValidateErrorsAndWarningsAreDisjoint(t *testing.T) {
	budgets := []domain.Interval{
		domain.NewInterval(900, 2500),
		domain.NewInterval(1100, 2500),
		domain.NewInterval(1100, 2300),
		domain.NewInterval(1000, 2400),
	}
	labors := []domain.Interval{
		domain.NewInterval(0, 50),
		domain.NewInterval(0, 500),
		domain.NewInterval(0, -1),
		domain.NewInterval(0, 0),
	}

	for _, budget := range budgets {
		for _, labor := range labors {
			product := widget()
			product.Budget = budget
			product.TotalManHours = labor
			global := widgetGlobal()
			global.Budget = budget

			report := Validate(domain.Catalog{product.Name: product}, global)

			seen := make(map[string]bool)
			for _, e := range report.Errors {
				seen[e.Scope+"/"+e.Quantity] = true
			}
			for _, w := range report.Warnings {
				if seen[w.Scope+"/"+w.Quantity] {
					t.Errorf("budget %v labor %v: %s/%s is both an error and a warning",
						budget, labor, w.Scope, w.Quantity)
				}
			}
		}
	}
}

func TestValidateIsIndependentOfMapOrder(t *testing.T) {
	catalog := domain.Catalog{}
	for _, name := range []string{"Delta", "Alpha", "Charlie", "Bravo"} {
		p := widget()
		p.Name = name
		p.Budget = domain.NewInterval(1100, 2000)
		catalog[name] = p
	}

	first := Validate(catalog, widgetGlobal())
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Validate(catalog, widgetGlobal())); diff != "" {
			t.Fatalf("report changed between runs (-first +again):\n%s", diff)
		}
	}
	if first.Warnings[0].Scope != "Alpha" {
		t.Fatalf("expected findings in name order, first scope = %s", first.Warnings[0].Scope)
	}
}
