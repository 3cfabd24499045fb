package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/condo-forecast/internal/forecast"
	"github.com/iwvelando/condo-forecast/pkg/constants"
	"github.com/iwvelando/condo-forecast/pkg/optimization"
	"github.com/iwvelando/condo-forecast/pkg/testutil"
)

func testForecasts(t *testing.T) []forecast.Forecast {
	t.Helper()
	return forecast.GetForecast(nil, *testutil.LoadTestConfiguration(t))
}

func TestPrettyFormat(t *testing.T) {
	results := testForecasts(t)
	results[1].Metrics.BreakEven = &optimization.Summary{Scenario: results[1].Name, Value: 36947500, Converged: true, Iterations: 17}

	var buf bytes.Buffer
	PrettyFormat(&buf, results)
	output := buf.String()

	expected := []string{
		"--- Results for scenario sell after five years ---",
		"--- Results for scenario sell early with rate hike ---",
		"6 years (long-term)",
		"¥50,000,000",
		"¥30,993,415",
		"¥2,102,100",
		"¥16,904,485",
		"Final balance (after tax)",
		"20.315%",
		"Break-even",
		"¥36,947,500",
		"Date    | Rate    | Remaining",
		"2023-04 | 0.500%",
		"2028-10",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
	if strings.Count(output, "Break-even") != 1 {
		t.Errorf("PrettyFormat printed break-even for a scenario without one")
	}
}

func TestPrettyFormatUnknownLoan(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, []forecast.Forecast{forecast.Compute(nil, forecast.Input{Name: "empty"})})
	output := buf.String()

	if !strings.Contains(output, "| unknown") {
		t.Errorf("PrettyFormat should mark an unknown loan, got:\n%s", output)
	}
	if !strings.Contains(output, "no amortization schedule") {
		t.Errorf("PrettyFormat missing empty schedule marker")
	}
	if !strings.Contains(output, "-¥99,100") {
		t.Errorf("PrettyFormat missing negative final balance")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	CsvFormat(&buf, testForecasts(t))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("CsvFormat produced %d lines, expected 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"scenario","selling price","selling date"`) {
		t.Errorf("CsvFormat header = %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], `"sell after five years","50000000.00","2028-10-01","6","22","30993415.00","true"`) {
		t.Errorf("CsvFormat first row = %s", lines[1])
	}
	if !strings.Contains(lines[1], `"16904485.00","1650000.00"`) {
		t.Errorf("CsvFormat first row missing final balance and fees: %s", lines[1])
	}
}

func TestCsvFormatEscapesQuotes(t *testing.T) {
	var buf bytes.Buffer
	CsvFormat(&buf, []forecast.Forecast{{Name: `the "big" sale`}})
	if !strings.Contains(buf.String(), `"the ""big"" sale"`) {
		t.Errorf("CsvFormat did not escape quotes: %s", buf.String())
	}
}

func TestScheduleCSV(t *testing.T) {
	results := testForecasts(t)

	var buf bytes.Buffer
	ScheduleCSV(&buf, results[0])

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(results[0].Schedule)+1 {
		t.Fatalf("ScheduleCSV produced %d lines, expected %d", len(lines), len(results[0].Schedule)+1)
	}
	if !strings.HasPrefix(lines[12], `"2024-03","0.500","100000.00","0.00"`) {
		t.Errorf("ScheduleCSV 12th month = %s", lines[12])
	}
	if !strings.HasSuffix(lines[12], `"1800000.00"`) {
		t.Errorf("ScheduleCSV 12th month total paid = %s", lines[12])
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, testForecasts(t)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSONFormat output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 forecasts, got %d", len(decoded))
	}
	if decoded[0]["name"] != "sell after five years" {
		t.Errorf("name = %v", decoded[0]["name"])
	}
	schedule, ok := decoded[0]["schedule"].([]interface{})
	if !ok || len(schedule) == 0 {
		t.Errorf("schedule missing from JSON output")
	}
	outcome, ok := decoded[0]["outcome"].(map[string]interface{})
	if !ok || outcome["finalBalance"] != "16904485" {
		t.Errorf("outcome = %v", decoded[0]["outcome"])
	}
}

func TestPDFFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PDFFormat(&buf, testForecasts(t)); err != nil {
		t.Fatalf("PDFFormat() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("PDFFormat output does not start with a PDF header")
	}

	buf.Reset()
	if err := PDFFormat(&buf, nil); err != nil {
		t.Fatalf("PDFFormat() on no results error = %v", err)
	}
	if buf.Len() == 0 {
		t.Errorf("PDFFormat produced no output for empty results")
	}
}

func TestRender(t *testing.T) {
	results := testForecasts(t)

	tests := []struct {
		format    string
		wantError bool
		prefix    string
	}{
		{constants.OutputFormatPretty, false, "--- Results for scenario"},
		{constants.OutputFormatCSV, false, `"scenario"`},
		{constants.OutputFormatJSON, false, "["},
		{constants.OutputFormatPDF, false, "%PDF-"},
		{"xml", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, tt.format, results)
			if tt.wantError {
				if err == nil {
					t.Errorf("Render() expected error for %s", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("Render(%s) output does not start with %q", tt.format, tt.prefix)
			}
		})
	}
}
