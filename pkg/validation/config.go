// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/condo-forecast/pkg/datetime"
	"github.com/iwvelando/condo-forecast/pkg/mathutil"
)

// ValidateSaleDate checks that a sale does not precede the delivery of the unit.
func ValidateSaleDate(scope, deliveryDate, sellingDate string) []string {
	delivered, okDelivered := datetime.ParseDate(deliveryDate)
	sold, okSold := datetime.ParseDate(sellingDate)
	if !okDelivered || !okSold {
		return nil
	}

	var warnings []string
	if sold.Before(delivered) {
		warnings = append(warnings, fmt.Sprintf("%s sells on %s, before delivery on %s; holding period and property tax count will be 0",
			scope, sellingDate, deliveryDate))
	}
	return warnings
}

// ValidatePaymentCoversInterest checks that the monthly payment at least
// covers the first month's interest. A smaller payment grows the balance.
func ValidatePaymentCoversInterest(scope string, principal, annualRate, monthlyPayment float64) string {
	if principal <= 0 || annualRate <= 0 {
		return ""
	}
	interest := mathutil.Round(principal * mathutil.MonthlyRate(annualRate))
	if monthlyPayment < interest {
		return fmt.Sprintf("%s monthly payment %.2f does not cover the first month's interest %.2f at %.3f%%; the balance will grow",
			scope, monthlyPayment, interest, annualRate)
	}
	return ""
}
