// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/condo-forecast/pkg/constants"
)

// Round rounds a value to two decimals. Used for making logical comparisons
// and for trimming simulation noise from rendered schedules.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundWhole rounds to the smallest whole currency unit.
func RoundWhole(val float64) float64 {
	return math.Round(val)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// MonthlyRate converts an annual percentage rate into the periodic rate
// applied each month, e.g. 0.5 -> 0.000416...
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.PercentageMultiplier / constants.MonthsPerYear
}
