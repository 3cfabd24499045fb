// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"fmt"

	"github.com/iwvelando/condo-forecast/internal/config"
	"github.com/iwvelando/condo-forecast/pkg/datetime"
	"github.com/iwvelando/condo-forecast/pkg/events"
	"github.com/iwvelando/condo-forecast/pkg/holding"
	"github.com/iwvelando/condo-forecast/pkg/loans"
	"github.com/iwvelando/condo-forecast/pkg/optimization"
	"github.com/iwvelando/condo-forecast/pkg/sale"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Input is the fully resolved snapshot a single forecast is computed from.
type Input struct {
	Name        string
	Acquisition sale.Acquisition
	Loan        loans.Terms
	RateChanges []loans.RateChange
	Sale        sale.Terms
	MonthlyFees float64
}

// LoanAtSale is the mortgage position on the selling date.
type LoanAtSale struct {
	Outstanding decimal.Decimal `json:"outstanding"`
	// Known is false when there is no schedule or no usable selling date.
	Known bool `json:"known"`
	// HasRemaining is true when principal is still owed at the sale.
	HasRemaining bool `json:"hasRemaining"`
}

// Holding summarizes the ownership window. FeeMonths and FeesPaid are
// informational and do not enter the final balance.
type Holding struct {
	ElapsedYears        int     `json:"elapsedYears"`
	PropertyTaxPayments int     `json:"propertyTaxPayments"`
	FeeMonths           int     `json:"feeMonths"`
	FeesPaid            float64 `json:"feesPaid"`
}

// Metrics holds derived analytics attached after the forecast is computed.
type Metrics struct {
	BreakEven *optimization.Summary `json:"breakEven,omitempty"`
}

// Forecast holds all information related to a specific forecast.
type Forecast struct {
	Name                     string               `json:"name"`
	SellingPrice             decimal.Decimal      `json:"sellingPrice"`
	SellingDate              string               `json:"sellingDate"`
	Schedule                 loans.Schedule       `json:"schedule"`
	Loan                     LoanAtSale           `json:"loan"`
	Holding                  Holding              `json:"holding"`
	BuildingAcquisitionPrice decimal.Decimal      `json:"buildingAcquisitionPrice"`
	Acquisition              sale.AcquisitionCost `json:"acquisition"`
	Transfer                 sale.TransferCost    `json:"transfer"`
	Gain                     sale.CapitalGain     `json:"gain"`
	Outcome                  sale.Outcome         `json:"outcome"`
	MonthlyFees              float64              `json:"monthlyFees"`
	Notes                    []string             `json:"notes,omitempty"`
	Metrics                  Metrics              `json:"metrics"`
}

// NewInput resolves one scenario against the common property, loan and sale.
func NewInput(conf config.Configuration, scenario config.Scenario) Input {
	common := conf.Common
	return Input{
		Name:        scenario.Name,
		Acquisition: common.Property.ToAcquisition(),
		Loan:        common.Loan.ToLoanTerms(),
		RateChanges: common.Loan.ToRateChanges(scenario.RateChanges),
		Sale:        common.ResolveSale(scenario).ToSaleTerms(),
		MonthlyFees: common.MonthlyFees.MonthlyTotal(),
	}
}

// Compute runs the sale pipeline top to bottom: the rate timeline feeds the
// amortization schedule, whose balance at the selling date feeds the transfer
// cost and outcome, while the holding period drives the property tax count,
// depreciation and the capital gains rate. Every stage is recomputed from the
// input on each call and incomplete input degrades to zero results.
func Compute(logger *zap.Logger, in Input) Forecast {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Forecast{
		Name:         in.Name,
		SellingPrice: in.Sale.SellingPrice,
		SellingDate:  in.Sale.SellingDate,
		MonthlyFees:  in.MonthlyFees,
	}

	timeline := loans.NewRateTimeline(in.Loan.InitialRate, in.RateChanges)
	start, _ := datetime.ParseDate(in.Acquisition.DeliveryDate)
	result.Schedule = loans.NewAmortizationScheduleGenerator(logger).GenerateSchedule(in.Loan, timeline, start)

	result.Loan = loanAtSale(loans.BalanceAsOf(result.Schedule, in.Sale.SellingDate))

	result.Holding = Holding{
		ElapsedYears:        holding.ElapsedYears(in.Acquisition.DeliveryDate, in.Sale.SellingDate),
		PropertyTaxPayments: holding.CountTaxPayments(in.Acquisition.DeliveryDate, in.Sale.SellingDate),
	}
	if fees, err := events.MonthlyFees(in.MonthlyFees, in.Acquisition.DeliveryDate, in.Sale.SellingDate).Summarize(); err == nil {
		result.Holding.FeeMonths = fees.Occurrences
		result.Holding.FeesPaid = fees.Total
	} else {
		logger.Debug("monthly fees not totalled",
			zap.String("op", "forecast.Compute"),
			zap.String("scenario", in.Name),
			zap.Error(err),
		)
	}

	result.BuildingAcquisitionPrice = in.Acquisition.BuildingAcquisitionPrice()
	result.Acquisition = sale.CalculateAcquisitionCost(in.Acquisition, result.Holding.PropertyTaxPayments, result.Holding.ElapsedYears)
	result.Transfer = sale.CalculateTransferCost(in.Sale, result.Loan.Outstanding)
	result.Gain = sale.CalculateCapitalGain(in.Sale.SellingPrice, result.Acquisition.Total, result.Transfer.Total, result.Holding.ElapsedYears)
	result.Outcome = sale.CalculateOutcome(in.Sale.SellingPrice, result.Transfer.Total, result.Loan.Outstanding)

	result.Notes = notesFor(in, result)

	logger.Debug("computed sale forecast",
		zap.String("op", "forecast.Compute"),
		zap.String("scenario", in.Name),
		zap.Int("scheduleMonths", len(result.Schedule)),
		zap.Int("elapsedYears", result.Holding.ElapsedYears),
		zap.String("finalBalance", result.Outcome.FinalBalance.StringFixed(0)),
		zap.String("taxOwed", result.Gain.TaxOwed.StringFixed(0)),
	)

	return result
}

// loanAtSale settles the balance in whole units. The payoff fee and
// HasRemaining both follow the rounded amount.
func loanAtSale(balance loans.Balance) LoanAtSale {
	return LoanAtSale{
		Outstanding:  decimal.NewFromFloat(balance.Outstanding()),
		Known:        balance.Known,
		HasRemaining: balance.Remaining(),
	}
}

func notesFor(in Input, result Forecast) []string {
	var notes []string
	if len(result.Schedule) == 0 && in.Loan.Principal > 0 {
		notes = append(notes, "loan schedule is empty because the loan terms or delivery date are incomplete; outstanding loan is unknown")
	} else if !result.Loan.Known && len(result.Schedule) > 0 {
		notes = append(notes, "selling date is missing or invalid; outstanding loan is unknown")
	}
	if last, ok := result.Schedule.Last(); ok && last.RemainingPrincipal > 0 && len(result.Schedule) == in.Loan.TermMonths {
		notes = append(notes, fmt.Sprintf("loan is not repaid by the end of its term; %.0f remains in %s", last.RemainingPrincipal, last.YearMonth))
	}
	if result.Loan.Known && !result.Loan.HasRemaining {
		notes = append(notes, "loan is fully repaid before the sale; no payoff fee applies")
	}
	if result.Acquisition.Depreciation.GreaterThan(result.BuildingAcquisitionPrice) {
		notes = append(notes, "depreciation exceeds the building acquisition price")
	}
	if result.Acquisition.Total.IsNegative() {
		notes = append(notes, "acquisition cost basis is negative")
	}
	if !result.Gain.TaxableGain.IsPositive() {
		notes = append(notes, "no taxable gain; no capital gains tax is owed")
	}
	return notes
}

// GetForecast processes the Forecasts for all active Scenarios.
func GetForecast(logger *zap.Logger, conf config.Configuration) []Forecast {
	if logger == nil {
		logger = zap.NewNop()
	}

	scenarios := conf.Scenarios
	if len(scenarios) == 0 {
		scenarios = conf.ActiveScenarios()
	}

	var results []Forecast
	for _, scenario := range scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}
		results = append(results, Compute(logger, NewInput(conf, scenario)))
	}

	return results
}

// WithSellingPrice returns a copy of the input selling at price instead.
func (in Input) WithSellingPrice(price decimal.Decimal) Input {
	in.Sale.SellingPrice = price
	return in
}
