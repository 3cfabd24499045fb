// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/condo-forecast/internal/forecast"
	"github.com/iwvelando/condo-forecast/pkg/constants"
	"github.com/iwvelando/condo-forecast/pkg/format"
	"github.com/iwvelando/condo-forecast/pkg/loans"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Render writes the results in the named output format.
func Render(w io.Writer, outputFormat string, results []forecast.Forecast) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyFormat(w, results)
		return nil
	case constants.OutputFormatCSV:
		CsvFormat(w, results)
		return nil
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	case constants.OutputFormatPDF:
		return PDFFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

type prettyRow struct {
	label string
	value string
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []forecast.Forecast) {
	p := message.NewPrinter(language.English)
	yen := func(d decimal.Decimal) string {
		v := d.Round(0).InexactFloat64()
		if v < 0 {
			return p.Sprintf("-¥%.0f", -v)
		}
		return p.Sprintf("¥%.0f", v)
	}

	for i, result := range results {
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)

		term := "short-term"
		if result.Gain.LongTerm {
			term = "long-term"
		}
		loanStatus := yen(result.Loan.Outstanding)
		if !result.Loan.Known {
			loanStatus = "unknown"
		}

		sections := []struct {
			title string
			rows  []prettyRow
		}{
			{"Sale", []prettyRow{
				{"Selling price", yen(result.SellingPrice)},
				{"Selling date", result.SellingDate},
				{"Holding period", fmt.Sprintf("%d years (%s)", result.Holding.ElapsedYears, term)},
				{"Outstanding loan", loanStatus},
				{"Monthly fees", yen(decimal.NewFromFloat(result.MonthlyFees))},
				{fmt.Sprintf("Fees paid (%d months)", result.Holding.FeeMonths), yen(decimal.NewFromFloat(result.Holding.FeesPaid))},
			}},
			{"Acquisition cost", []prettyRow{
				{"Property price", yen(result.Acquisition.PropertyPrice)},
				{"Building incl. tax", yen(result.BuildingAcquisitionPrice)},
				{"Acquisition tax", yen(result.Acquisition.AcquisitionTax)},
				{fmt.Sprintf("Property tax (%d payments)", result.Holding.PropertyTaxPayments), yen(result.Acquisition.PropertyTaxPaid)},
				{"Equipment", yen(result.Acquisition.EquipmentCost)},
				{"Fire insurance", yen(result.Acquisition.FireInsurance)},
				{"Depreciation", yen(result.Acquisition.Depreciation.Neg())},
				{"Total", yen(result.Acquisition.Total)},
			}},
			{"Transfer cost", []prettyRow{
				{"Brokerage fee", yen(result.Transfer.BrokerageFee)},
				{"Stamp duty", yen(result.Transfer.StampDuty)},
				{"Registration fee", yen(result.Transfer.RegistrationFee)},
				{"Scrivener fee", yen(result.Transfer.ScrivenerFee)},
				{"Certificates", yen(result.Transfer.CertificateFee)},
				{"Loan payoff fee", yen(result.Transfer.LoanPayoffFee)},
				{"Cleaning", yen(result.Transfer.CleaningCost)},
				{"Moving", yen(result.Transfer.MovingCost)},
				{"Total", yen(result.Transfer.Total)},
			}},
			{"Capital gain", []prettyRow{
				{"Taxable gain", yen(result.Gain.TaxableGain)},
				{"Tax rate", format.Ratio(result.Gain.TaxRate)},
				{"Tax owed", yen(result.Gain.TaxOwed)},
			}},
			{"Outcome", []prettyRow{
				{"Net sale proceeds", yen(result.Outcome.NetSaleProceeds)},
				{"Outstanding loan", yen(result.Outcome.OutstandingLoan)},
				{"Final balance (before tax)", yen(result.Outcome.FinalBalance)},
				{"Final balance (after tax)", yen(result.Outcome.FinalBalance.Sub(result.Gain.TaxOwed))},
			}},
		}

		for _, section := range sections {
			_, _ = fmt.Fprintf(w, "%s\n", section.title)
			for _, row := range section.rows {
				_, _ = fmt.Fprintf(w, "  %-28s | %s\n", row.label, row.value)
			}
		}

		if be := result.Metrics.BreakEven; be != nil {
			_, _ = fmt.Fprintf(w, "Break-even\n")
			_, _ = p.Fprintf(w, "  %-28s | ¥%.0f\n", "Lowest selling price", be.Value)
			_, _ = p.Fprintf(w, "  %-28s | ¥%.0f\n", "Final balance floor", be.Floor)
			_, _ = fmt.Fprintf(w, "  %-28s | %t (%d iterations)\n", "Converged", be.Converged, be.Iterations)
			for _, note := range be.Notes {
				_, _ = fmt.Fprintf(w, "  %s\n", note)
			}
		}

		writeScheduleSummary(w, p, result.Schedule, result.SellingDate)

		if len(result.Notes) > 0 {
			_, _ = fmt.Fprintf(w, "Notes\n")
			for _, note := range result.Notes {
				_, _ = fmt.Fprintf(w, "  - %s\n", note)
			}
		}

		if len(results) > 1 && i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

func writeScheduleSummary(w io.Writer, p *message.Printer, schedule loans.Schedule, sellingDate string) {
	if len(schedule) == 0 {
		_, _ = fmt.Fprintf(w, "Schedule\n  no amortization schedule\n")
		return
	}
	_, _ = fmt.Fprintf(w, "Schedule\n")
	_, _ = fmt.Fprintf(w, "  Date    | Rate    | Remaining       | Total paid\n")
	_, _ = fmt.Fprintf(w, "  ____    | ____    | _________       | __________\n")

	saleMonth := ""
	if len(sellingDate) >= len(constants.YearMonthLayout) {
		saleMonth = sellingDate[:len(constants.YearMonthLayout)]
	}
	last := len(schedule) - 1
	for i, point := range schedule {
		if i != 0 && i != last && point.YearMonth != saleMonth && !strings.HasSuffix(point.YearMonth, "-01") {
			continue
		}
		_, _ = p.Fprintf(w, "  %s | %s | ¥%13.0f | ¥%.0f\n",
			point.YearMonth, format.Percent(point.AnnualRate), point.RemainingPrincipal, point.CumulativePaid)
	}
}

// CsvFormat outputs one row per scenario in comma-separated value format.
func CsvFormat(w io.Writer, results []forecast.Forecast) {
	header := []string{
		"scenario", "selling price", "selling date", "elapsed years", "property tax payments",
		"outstanding loan", "loan known", "building acquisition price", "depreciation",
		"acquisition cost", "brokerage fee", "stamp duty", "transfer cost", "taxable gain",
		"long term", "tax rate", "tax owed", "net sale proceeds", "final balance", "fees paid", "break-even price", "notes",
	}
	writeCSVRow(w, header)

	for _, result := range results {
		breakEven := ""
		if result.Metrics.BreakEven != nil {
			breakEven = fmt.Sprintf("%.0f", result.Metrics.BreakEven.Value)
		}
		writeCSVRow(w, []string{
			result.Name,
			result.SellingPrice.StringFixed(2),
			result.SellingDate,
			fmt.Sprintf("%d", result.Holding.ElapsedYears),
			fmt.Sprintf("%d", result.Holding.PropertyTaxPayments),
			result.Loan.Outstanding.StringFixed(2),
			fmt.Sprintf("%t", result.Loan.Known),
			result.BuildingAcquisitionPrice.StringFixed(2),
			result.Acquisition.Depreciation.StringFixed(2),
			result.Acquisition.Total.StringFixed(2),
			result.Transfer.BrokerageFee.StringFixed(2),
			result.Transfer.StampDuty.StringFixed(2),
			result.Transfer.Total.StringFixed(2),
			result.Gain.TaxableGain.StringFixed(2),
			fmt.Sprintf("%t", result.Gain.LongTerm),
			result.Gain.TaxRate.String(),
			result.Gain.TaxOwed.StringFixed(2),
			result.Outcome.NetSaleProceeds.StringFixed(2),
			result.Outcome.FinalBalance.StringFixed(2),
			fmt.Sprintf("%.2f", result.Holding.FeesPaid),
			breakEven,
			strings.Join(result.Notes, "; "),
		})
	}
}

// ScheduleCSV outputs the amortization schedule of one forecast.
func ScheduleCSV(w io.Writer, result forecast.Forecast) {
	writeCSVRow(w, []string{"date", "interest rate", "monthly payment", "bonus payment", "interest", "principal", "remaining principal", "total paid"})
	for _, point := range result.Schedule {
		writeCSVRow(w, []string{
			point.YearMonth,
			fmt.Sprintf("%.3f", point.AnnualRate),
			fmt.Sprintf("%.2f", point.MonthlyPayment),
			fmt.Sprintf("%.2f", point.BonusPayment),
			fmt.Sprintf("%.2f", point.Interest),
			fmt.Sprintf("%.2f", point.Principal),
			fmt.Sprintf("%.2f", point.RemainingPrincipal),
			fmt.Sprintf("%.2f", point.CumulativePaid),
		})
	}
}

func writeCSVRow(w io.Writer, fields []string) {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	_, _ = fmt.Fprintf(w, "%s\n", strings.Join(quoted, ","))
}

// JSONFormat outputs the full forecasts, schedules included, as indented JSON.
func JSONFormat(w io.Writer, results []forecast.Forecast) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to encode forecasts: %w", err)
	}
	return nil
}
