package holding

import (
	"time"

	"github.com/iwvelando/condo-forecast/pkg/datetime"
)

// DueDate is a month/day on which a fixed-asset tax instalment falls due
// every year.
type DueDate struct {
	Month time.Month
	Day   int
}

// PropertyTaxDueDates are the four yearly instalments of fixed-asset and
// city planning tax.
var PropertyTaxDueDates = []DueDate{
	{Month: time.January, Day: 6},
	{Month: time.February, Day: 28},
	{Month: time.May, Day: 15},
	{Month: time.July, Day: 31},
}

// CountTaxPayments counts the instalment due dates falling within
// [acquisitionDate, saleDate], both inclusive, across every calendar year the
// interval touches. Missing or unparseable dates give 0.
func CountTaxPayments(acquisitionDate, saleDate string) int {
	acquired, ok := datetime.ParseDate(acquisitionDate)
	if !ok {
		return 0
	}
	sold, ok := datetime.ParseDate(saleDate)
	if !ok {
		return 0
	}
	return CountTaxPaymentsBetween(acquired, sold)
}

// CountTaxPaymentsBetween is CountTaxPayments over parsed dates.
func CountTaxPaymentsBetween(acquired, sold time.Time) int {
	from := dateOnly(acquired)
	to := dateOnly(sold)

	count := 0
	for year := from.Year(); year <= to.Year(); year++ {
		for _, due := range PropertyTaxDueDates {
			d := time.Date(year, due.Month, due.Day, 0, 0, 0, 0, time.UTC)
			if !d.Before(from) && !d.After(to) {
				count++
			}
		}
	}
	return count
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
