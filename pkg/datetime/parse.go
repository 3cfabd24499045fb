// Package datetime provides date and time utility functions.
package datetime

import (
	"strings"
	"time"

	"github.com/iwvelando/condo-forecast/pkg/constants"
)

const (
	// DateLayout is the calendar date format expected in config files.
	DateLayout = constants.DateLayout

	// YearMonthLayout is the format used to key amortization points and is
	// also the output date format.
	YearMonthLayout = constants.YearMonthLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses an ISO calendar date ("2006-01-02") or a bare year-month
// ("2006-01", read as the first of the month). Empty or unparseable input
// reports ok=false rather than an error so that callers can degrade to zero.
func ParseDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, YearMonthLayout} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FirstOfMonth truncates t to midnight UTC on the first day of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances t by the given number of calendar months at month
// granularity; the day of month is dropped so that Jan-31 + 1 never spills
// into March.
func AddMonths(t time.Time, months int) time.Time {
	return FirstOfMonth(t).AddDate(0, months, 0)
}

// YearMonth returns the "YYYY-MM" key for t.
func YearMonth(t time.Time) string {
	return t.Format(YearMonthLayout)
}
