package loans

import (
	"github.com/iwvelando/condo-forecast/pkg/datetime"
	"github.com/iwvelando/condo-forecast/pkg/mathutil"
)

// Balance is the outstanding principal at a query date. Known is false when
// there is no schedule or the date cannot be read; Amount is then 0 and must
// not be taken to mean the loan was repaid.
type Balance struct {
	Amount float64
	Known  bool
}

// Outstanding is the amount owed in whole currency units, the precision the
// sale is settled at.
func (b Balance) Outstanding() float64 {
	return mathutil.RoundWhole(b.Amount)
}

// Remaining reports whether principal is still owed once rounded to whole
// units, so residue under half a unit counts as repaid.
func (b Balance) Remaining() bool {
	return b.Known && b.Outstanding() > 0
}

// BalanceAsOf returns the remaining principal of the latest point at or
// before the query's year-month. A query falling before the first simulated
// month resolves to the first point.
func BalanceAsOf(schedule Schedule, queryDate string) Balance {
	if len(schedule) == 0 {
		return Balance{}
	}
	query, ok := datetime.ParseDate(queryDate)
	if !ok {
		return Balance{}
	}
	key := datetime.YearMonth(query)

	closest := schedule[0]
	for _, point := range schedule {
		if point.YearMonth <= key {
			closest = point
		}
	}
	return Balance{Amount: closest.RemainingPrincipal, Known: true}
}
