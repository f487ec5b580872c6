package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/max-profit-solver/internal/config"
	"github.com/iwvelando/max-profit-solver/internal/optimizer"
	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/domain"
	"github.com/iwvelando/max-profit-solver/pkg/validation"
	"go.uber.org/zap"
)

func widgetResult(t *testing.T) *optimizer.Result {
	t.Helper()
	conf := &config.Configuration{
		Global: config.GlobalConfig{
			Budget:   config.Range{Min: 1000, Max: 2400},
			ManHours: config.Range{Min: 0, Max: 400},
		},
		Products: []config.ProductConfig{{
			Name:           "Widget",
			Cost:           config.Range{Min: 10, Max: 12},
			Profit:         config.Range{Min: 20, Max: 30},
			Demand:         config.Range{Min: 100, Max: 200},
			Budget:         config.Range{Min: 1000, Max: 2400},
			ManHourPerUnit: config.Range{Min: 1, Max: 2},
			TotalManHours:  config.Range{Min: 0, Max: 400},
		}},
		Objectives: []config.ObjectiveConfig{{Name: "profit", Direction: "maximize", Rank: 1}},
	}
	runner, err := optimizer.NewRunner(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return result
}

func criticalResult() *optimizer.Result {
	return &optimizer.Result{
		Validation: validation.Report{
			Errors: []validation.CriticalError{{Finding: validation.Finding{
				Scope:     constants.ScopeGlobal,
				Quantity:  constants.QuantityBudget,
				Declared:  domain.NewInterval(0, 500),
				Realistic: domain.NewInterval(1000, 2400),
				Message:   "Global budget range [0.00, 500.00] is outside the realistic range [1000.00, 2400.00].",
			}}},
		},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, widgetResult(t)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"--- Validation ---",
		"All declared ranges are consistent",
		"--- Allocation ---",
		"Product",
		"Budget Used",
		"Widget",
		"$11.00",
		"25.00%",
		"$550.00",
		"200.00",
		"300.00",
		"$2,200.00",
		"All constraints satisfied",
		"--- Sensitivity analysis ---",
		"-10%",
		"$495.00",
		"+10%",
		"$605.00",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "outside the global profit range") {
		t.Errorf("unexpected profit target note")
	}
}

func TestPrettyFormatCriticalErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, criticalResult()); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Critical errors (1):") {
		t.Errorf("expected critical error header, got %q", output)
	}
	if !strings.Contains(output, "Global budget range [0.00, 500.00]") {
		t.Errorf("expected critical error message, got %q", output)
	}
	if strings.Contains(output, "--- Allocation ---") {
		t.Errorf("unsolved result must not print an allocation")
	}
}

func TestPrettyFormatNilResult(t *testing.T) {
	if err := PrettyFormat(&bytes.Buffer{}, nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, widgetResult(t)); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	// header, allocation, total, four sensitivity rows
	if len(records) != 7 {
		t.Fatalf("expected 7 records, got %d:\n%s", len(records), buf.String())
	}
	if records[0][0] != "section" || records[0][9] != "message" {
		t.Errorf("unexpected header %v", records[0])
	}
	allocation := records[1]
	if allocation[0] != "allocation" || allocation[1] != "Widget" {
		t.Errorf("unexpected allocation record %v", allocation)
	}
	if allocation[5] != "550.00" || allocation[6] != "200.00" || allocation[8] != "2200.00" {
		t.Errorf("unexpected allocation values %v", allocation)
	}
	if records[2][0] != "total" {
		t.Errorf("expected total record, got %v", records[2])
	}
	if records[3][0] != "sensitivity" || records[3][2] != "-10.00" || records[3][5] != "495.00" {
		t.Errorf("unexpected sensitivity record %v", records[3])
	}
}

func TestCsvFormatCriticalErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, criticalResult()); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one finding, got %d records", len(records))
	}
	if records[1][0] != "critical" || records[1][1] != constants.ScopeGlobal {
		t.Errorf("unexpected finding record %v", records[1])
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, widgetResult(t)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded struct {
		Solution struct {
			Values []float64 `json:"values"`
		} `json:"solution"`
		Verification struct {
			Totals struct {
				ProfitValue float64 `json:"profitValue"`
			} `json:"totals"`
		} `json:"verification"`
		Sensitivity struct {
			Scenarios []json.RawMessage `json:"scenarios"`
		} `json:"sensitivity"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid json: %v\n%s", err, buf.String())
	}
	if len(decoded.Solution.Values) != 1 {
		t.Fatalf("expected one solution value, got %v", decoded.Solution.Values)
	}
	if diff := decoded.Verification.Totals.ProfitValue - 550; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("expected total profit 550, got %v", decoded.Verification.Totals.ProfitValue)
	}
	if len(decoded.Sensitivity.Scenarios) != 4 {
		t.Errorf("expected 4 sensitivity scenarios, got %d", len(decoded.Sensitivity.Scenarios))
	}
}

func TestWrite(t *testing.T) {
	result := criticalResult()
	for _, f := range []string{constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON} {
		var buf bytes.Buffer
		if err := Write(&buf, f, result); err != nil {
			t.Errorf("Write(%q) error = %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%q) produced no output", f)
		}
	}
	if err := Write(&bytes.Buffer{}, "xml", result); err == nil {
		t.Errorf("expected error for unsupported format")
	}
}
