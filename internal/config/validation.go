package config

import (
	"fmt"

	"github.com/iwvelando/condo-forecast/pkg/datetime"
	"github.com/iwvelando/condo-forecast/pkg/validation"
)

// ValidateConfiguration reports problems the forecast will absorb by
// degrading to zero or empty results. None of them stop a run.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	property := c.Common.Property
	if _, ok := datetime.ParseDate(property.DeliveryDate); !ok {
		warnings = append(warnings, fmt.Sprintf(
			"property deliveryDate %q is missing or invalid; holding period, property tax and loan schedule will be empty",
			property.DeliveryDate))
	}
	if property.TotalPrice > 0 && property.TotalPrice <= property.LandPrice {
		warnings = append(warnings, fmt.Sprintf(
			"property totalPrice %.0f does not exceed landPrice %.0f; building price not derived",
			property.TotalPrice, property.LandPrice))
	}

	loan := c.Common.Loan
	if loan.Principal > 0 && (loan.Months() <= 0 || loan.InitialRate <= 0) {
		warnings = append(warnings,
			"loan has a principal but no positive term or initial rate; no amortization schedule will be produced")
	}
	if warning := validation.ValidatePaymentCoversInterest("loan", loan.Principal, loan.InitialRate, loan.MonthlyPayment); warning != "" {
		warnings = append(warnings, warning)
	}
	for _, month := range loan.BonusMonths {
		if month < 1 || month > 12 {
			warnings = append(warnings, fmt.Sprintf("loan bonusMonths contains %d which is not a calendar month", month))
		}
	}
	warnings = append(warnings, validateRateChanges("loan", loan.RateChanges)...)

	scenarios := c.ActiveScenarios()
	if len(scenarios) == 0 {
		warnings = append(warnings, "no active scenarios; nothing will be forecast")
	}

	seen := make(map[string]struct{})
	for _, scenario := range scenarios {
		scope := fmt.Sprintf("scenario '%s'", scenario.Name)
		if scenario.Name == "" {
			warnings = append(warnings, "an active scenario has no name")
		}
		if _, dup := seen[scenario.Name]; dup {
			warnings = append(warnings, fmt.Sprintf("%s is declared more than once", scope))
		}
		seen[scenario.Name] = struct{}{}

		resolved := c.Common.ResolveSale(scenario)
		if _, ok := datetime.ParseDate(resolved.SellingDate); !ok {
			warnings = append(warnings, fmt.Sprintf(
				"%s sellingDate %q is missing or invalid; holding period and loan balance will be zero",
				scope, resolved.SellingDate))
		}
		warnings = append(warnings, validation.ValidateSaleDate(scope, property.DeliveryDate, resolved.SellingDate)...)
		if resolved.SellingPrice <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s has no selling price", scope))
		}
		warnings = append(warnings, validateRateChanges(scope, scenario.RateChanges)...)
		if err := scenario.Optimizer.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", scope, err))
		}
	}

	return warnings
}

func validateRateChanges(scope string, changes []RateChange) []string {
	var warnings []string
	for _, change := range changes {
		if _, ok := datetime.ParseDate(change.Date); !ok {
			warnings = append(warnings, fmt.Sprintf("%s rate change date %q is invalid and will be ignored", scope, change.Date))
		}
		if change.Rate < 0 {
			warnings = append(warnings, fmt.Sprintf("%s rate change on %s has a negative rate %.3f", scope, change.Date, change.Rate))
		}
	}
	return warnings
}
