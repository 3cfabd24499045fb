// Package holding measures how long a property was owned: the whole-year
// holding period used for depreciation and the capital gains rate, and the
// number of fixed-asset tax instalments paid while owning it.
package holding

import (
	"time"

	"github.com/iwvelando/condo-forecast/pkg/constants"
	"github.com/iwvelando/condo-forecast/pkg/datetime"
)

// RoundUpMonths is the month remainder at which a partial year counts as a
// whole one.
const RoundUpMonths = 6

// ElapsedYears returns the whole years between acquisition and sale, ignoring
// day of month and rounding a remainder of six months or more up. Missing or
// unparseable dates, or a sale before the acquisition, give 0.
func ElapsedYears(acquisitionDate, saleDate string) int {
	acquired, ok := datetime.ParseDate(acquisitionDate)
	if !ok {
		return 0
	}
	sold, ok := datetime.ParseDate(saleDate)
	if !ok {
		return 0
	}
	return ElapsedYearsBetween(acquired, sold)
}

// ElapsedYearsBetween is ElapsedYears over parsed dates.
func ElapsedYearsBetween(acquired, sold time.Time) int {
	years := sold.Year() - acquired.Year()
	months := int(sold.Month()) - int(acquired.Month())
	if months < 0 {
		years--
		months += constants.MonthsPerYear
	}
	if months >= RoundUpMonths {
		years++
	}
	if years < 0 {
		return 0
	}
	return years
}
