package loans

import (
	"testing"

	"github.com/iwvelando/condo-forecast/pkg/datetime"
)

func TestBalanceAsOf(t *testing.T) {
	schedule := Schedule{
		{YearMonth: "2023-04", RemainingPrincipal: 300},
		{YearMonth: "2023-05", RemainingPrincipal: 200},
		{YearMonth: "2023-06", RemainingPrincipal: 100},
		{YearMonth: "2023-07", RemainingPrincipal: 0},
	}

	tests := []struct {
		name      string
		schedule  Schedule
		query     string
		amount    float64
		known     bool
		remaining bool
	}{
		{name: "Empty schedule", schedule: Schedule{}, query: "2023-05-10", amount: 0, known: false},
		{name: "Empty query", schedule: schedule, query: "", amount: 0, known: false},
		{name: "Unparseable query", schedule: schedule, query: "soon", amount: 0, known: false},
		{name: "Exact month", schedule: schedule, query: "2023-05-31", amount: 200, known: true, remaining: true},
		{name: "Year-month query", schedule: schedule, query: "2023-06", amount: 100, known: true, remaining: true},
		{name: "Before first point", schedule: schedule, query: "2022-01-01", amount: 300, known: true, remaining: true},
		{name: "After payoff", schedule: schedule, query: "2030-01-01", amount: 0, known: true, remaining: false},
		{name: "Float residue", schedule: Schedule{{YearMonth: "2023-04", RemainingPrincipal: 0.004}}, query: "2023-04", amount: 0.004, known: true, remaining: false},
		{name: "Residue under half a unit", schedule: Schedule{{YearMonth: "2023-04", RemainingPrincipal: 0.3}}, query: "2023-04", amount: 0.3, known: true, remaining: false},
		{name: "Residue rounding up", schedule: Schedule{{YearMonth: "2023-04", RemainingPrincipal: 0.5}}, query: "2023-04", amount: 0.5, known: true, remaining: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BalanceAsOf(tt.schedule, tt.query)
			if result.Amount != tt.amount || result.Known != tt.known {
				t.Errorf("BalanceAsOf() = %+v, expected amount %.2f known %v", result, tt.amount, tt.known)
			}
			if result.Remaining() != tt.remaining {
				t.Errorf("Remaining() = %v, expected %v", result.Remaining(), tt.remaining)
			}
		})
	}
}

func TestBalanceAsOfSimulatedLoan(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2023-04-01")
	terms := condoTerms()
	schedule := Simulate(terms, NewRateTimeline(terms.InitialRate, nil), start)

	balance := BalanceAsOf(schedule, "2024-03-20")
	if !balance.Known {
		t.Fatal("expected a known balance")
	}
	if balance.Amount != schedule[11].RemainingPrincipal {
		t.Errorf("balance = %.2f, expected 12th point %.2f", balance.Amount, schedule[11].RemainingPrincipal)
	}
}
