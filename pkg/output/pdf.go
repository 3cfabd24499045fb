package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/condo-forecast/internal/forecast"
	"github.com/iwvelando/condo-forecast/pkg/format"
	"github.com/shopspring/decimal"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 15.0
	pdfLabelWidth   = 110.0
	pdfRowHeight    = 6.0
)

// pdfText converts UTF-8 text to the Latin-1 bytes the core fonts expect.
func pdfText(s string) string {
	return strings.ReplaceAll(s, "¥", "\xa5")
}

func pdfMoney(d decimal.Decimal) string {
	return pdfText(format.Decimal(d))
}

// saleReport lays out one page per scenario.
type saleReport struct {
	pdf          *fpdf.Fpdf
	contentWidth float64
}

// PDFFormat writes a printable sale report with one page per scenario.
func PDFFormat(w io.Writer, results []forecast.Forecast) error {
	report := &saleReport{pdf: fpdf.New("P", "mm", "A4", "")}
	report.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	report.pdf.SetAutoPageBreak(true, pdfMarginBottom)
	pageWidth, _ := report.pdf.GetPageSize()
	report.contentWidth = pageWidth - pdfMarginLeft - pdfMarginRight

	if len(results) == 0 {
		report.pdf.AddPage()
		report.pdf.SetFont("Arial", "I", 11)
		report.pdf.CellFormat(report.contentWidth, 8, "No active scenarios", "", 1, "C", false, 0, "")
	}
	for _, result := range results {
		report.addScenario(result)
	}

	var buf bytes.Buffer
	if err := report.pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to render PDF report: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}

func (r *saleReport) addScenario(result forecast.Forecast) {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 18)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(r.contentWidth, 10, pdfText(result.Name), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(r.contentWidth, 7,
		fmt.Sprintf("Sale on %s after %d years", result.SellingDate, result.Holding.ElapsedYears),
		"", 1, "L", false, 0, "")
	r.pdf.Ln(4)

	loan := pdfMoney(result.Loan.Outstanding)
	if !result.Loan.Known {
		loan = "unknown"
	}

	r.table("Sale", [][2]string{
		{"Selling price", pdfMoney(result.SellingPrice)},
		{"Outstanding loan at sale", loan},
		{"Monthly fees", pdfText(format.Currency(result.MonthlyFees))},
		{fmt.Sprintf("Fees paid (%d months)", result.Holding.FeeMonths), pdfText(format.Currency(result.Holding.FeesPaid))},
	})
	r.table("Acquisition cost", [][2]string{
		{"Property price", pdfMoney(result.Acquisition.PropertyPrice)},
		{"Acquisition tax", pdfMoney(result.Acquisition.AcquisitionTax)},
		{fmt.Sprintf("Property tax (%d payments)", result.Holding.PropertyTaxPayments), pdfMoney(result.Acquisition.PropertyTaxPaid)},
		{"Equipment", pdfMoney(result.Acquisition.EquipmentCost)},
		{"Fire insurance", pdfMoney(result.Acquisition.FireInsurance)},
		{"Depreciation", pdfMoney(result.Acquisition.Depreciation.Neg())},
		{"Total", pdfMoney(result.Acquisition.Total)},
	})
	r.table("Transfer cost", [][2]string{
		{"Brokerage fee", pdfMoney(result.Transfer.BrokerageFee)},
		{"Stamp duty", pdfMoney(result.Transfer.StampDuty)},
		{"Registration, scrivener and certificates", pdfMoney(result.Transfer.RegistrationFee.Add(result.Transfer.ScrivenerFee).Add(result.Transfer.CertificateFee))},
		{"Loan payoff fee", pdfMoney(result.Transfer.LoanPayoffFee)},
		{"Cleaning and moving", pdfMoney(result.Transfer.CleaningCost.Add(result.Transfer.MovingCost))},
		{"Total", pdfMoney(result.Transfer.Total)},
	})
	r.table("Capital gain", [][2]string{
		{"Taxable gain", pdfMoney(result.Gain.TaxableGain)},
		{"Tax rate", format.Ratio(result.Gain.TaxRate)},
		{"Tax owed", pdfMoney(result.Gain.TaxOwed)},
	})
	r.table("Outcome", [][2]string{
		{"Net sale proceeds", pdfMoney(result.Outcome.NetSaleProceeds)},
		{"Final balance (before tax)", pdfMoney(result.Outcome.FinalBalance)},
		{"Final balance (after tax)", pdfMoney(result.Outcome.FinalBalance.Sub(result.Gain.TaxOwed))},
	})

	if be := result.Metrics.BreakEven; be != nil {
		r.table("Break-even", [][2]string{
			{"Lowest selling price", pdfText(format.Currency(be.Value))},
			{"Final balance floor", pdfText(format.Currency(be.Floor))},
			{"Converged", fmt.Sprintf("%t", be.Converged)},
		})
	}

	if len(result.Notes) > 0 {
		r.pdf.SetFont("Arial", "I", 9)
		r.pdf.SetTextColor(120, 120, 120)
		for _, note := range result.Notes {
			r.pdf.MultiCell(r.contentWidth, 5, pdfText("- "+note), "", "L", false)
		}
	}
}

func (r *saleReport) table(title string, rows [][2]string) {
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(r.contentWidth, 8, title, "1", 1, "L", true, 0, "")

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		r.pdf.CellFormat(pdfLabelWidth, pdfRowHeight, row[0], "LB", 0, "L", false, 0, "")
		r.pdf.CellFormat(r.contentWidth-pdfLabelWidth, pdfRowHeight, row[1], "RB", 1, "R", false, 0, "")
	}
	r.pdf.Ln(4)
}
