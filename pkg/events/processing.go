// Package events expands recurring holding costs, such as management fees,
// into the months they fall due while the property is owned.
package events

import (
	"fmt"
	"time"

	"github.com/iwvelando/condo-forecast/pkg/datetime"
)

// Event is a cost recurring every Frequency months from StartDate until, but
// not including, EndDate.
type Event struct {
	Name      string
	Amount    float64
	StartDate string
	EndDate   string
	Frequency int // months
}

// Summary totals the occurrences of one event.
type Summary struct {
	Name        string
	Occurrences int
	Total       float64
}

// DateList returns the month of every occurrence. Both dates accept
// "2006-01-02" or "2006-01"; only the month is significant.
func (e Event) DateList() ([]time.Time, error) {
	if e.Frequency <= 0 {
		return nil, fmt.Errorf("event %q: frequency must be greater than zero", e.Name)
	}
	start, ok := datetime.ParseDate(e.StartDate)
	if !ok {
		return nil, fmt.Errorf("event %q: invalid start date %q", e.Name, e.StartDate)
	}
	end, ok := datetime.ParseDate(e.EndDate)
	if !ok {
		return nil, fmt.Errorf("event %q: invalid end date %q", e.Name, e.EndDate)
	}

	end = datetime.FirstOfMonth(end)
	var dates []time.Time
	for i := 0; ; i += e.Frequency {
		next := datetime.AddMonths(start, i)
		if !next.Before(end) {
			break
		}
		dates = append(dates, next)
	}
	return dates, nil
}

// Summarize counts the occurrences of e and the amount paid over them.
func (e Event) Summarize() (Summary, error) {
	dates, err := e.DateList()
	if err != nil {
		return Summary{Name: e.Name}, err
	}
	return Summary{
		Name:        e.Name,
		Occurrences: len(dates),
		Total:       e.Amount * float64(len(dates)),
	}, nil
}

// MonthlyFees is the monthly fee event running from the delivery month up to
// the month of the sale.
func MonthlyFees(amount float64, deliveryDate, sellingDate string) Event {
	return Event{
		Name:      "monthly fees",
		Amount:    amount,
		StartDate: deliveryDate,
		EndDate:   sellingDate,
		Frequency: 1,
	}
}
