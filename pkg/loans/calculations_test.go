package loans

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/iwvelando/condo-forecast/pkg/datetime"
	"go.uber.org/zap"
)

func condoTerms() Terms {
	return Terms{
		Principal:      40000000,
		TermMonths:     35 * 12,
		InitialRate:    0.5,
		MonthlyPayment: 100000,
		BonusPayment:   300000,
		BonusMonths:    []int{1, 7},
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualInterestRate float64
		expected           float64
	}{
		{
			name:               "Condo loan first month",
			remainingPrincipal: 40000000,
			annualInterestRate: 0.5,
			expected:           16666.67,
		},
		{
			name:               "Standard mortgage interest",
			remainingPrincipal: 200000,
			annualInterestRate: 6.0,
			expected:           1000.0,
		},
		{
			name:               "Zero interest",
			remainingPrincipal: 10000,
			annualInterestRate: 0.0,
			expected:           0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.remainingPrincipal, tt.annualInterestRate)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateInterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestGenerateScheduleFirstYear(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2023-04-01")
	terms := condoTerms()
	schedule := NewAmortizationScheduleGenerator(zap.NewNop()).
		GenerateSchedule(terms, NewRateTimeline(terms.InitialRate, nil), start)

	if len(schedule) < 12 {
		t.Fatalf("expected at least 12 points, got %d", len(schedule))
	}

	first := schedule[0]
	if first.YearMonth != "2023-04" {
		t.Errorf("first point date = %s, expected 2023-04", first.YearMonth)
	}
	if math.Abs(first.Interest-16666.67) > 0.01 {
		t.Errorf("first point interest = %.2f, expected 16666.67", first.Interest)
	}
	if math.Abs(first.RemainingPrincipal-39916666.67) > 0.01 {
		t.Errorf("first point remaining = %.2f, expected 39916666.67", first.RemainingPrincipal)
	}

	twelfth := schedule[11]
	if twelfth.YearMonth != "2024-03" {
		t.Errorf("12th point date = %s, expected 2024-03", twelfth.YearMonth)
	}
	if twelfth.CumulativePaid != 1800000 {
		t.Errorf("12th point cumulative paid = %.2f, expected 1800000", twelfth.CumulativePaid)
	}
	if twelfth.RemainingPrincipal >= 40000000 {
		t.Errorf("12th point remaining = %.2f, expected below principal", twelfth.RemainingPrincipal)
	}

	bonuses := 0
	for _, point := range schedule[:12] {
		if point.BonusPayment > 0 {
			bonuses++
			month := point.YearMonth[5:]
			if month != "01" && month != "07" {
				t.Errorf("bonus applied in unexpected month %s", point.YearMonth)
			}
		}
	}
	if bonuses != 2 {
		t.Errorf("expected 2 bonus payments in the first 12 months, got %d", bonuses)
	}
}

func TestGenerateScheduleEmptyForIncompleteTerms(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2023-04-01")

	tests := []struct {
		name   string
		mutate func(*Terms)
		start  time.Time
	}{
		{name: "Zero principal", mutate: func(t *Terms) { t.Principal = 0 }, start: start},
		{name: "Negative principal", mutate: func(t *Terms) { t.Principal = -1 }, start: start},
		{name: "Zero term", mutate: func(t *Terms) { t.TermMonths = 0 }, start: start},
		{name: "Zero rate", mutate: func(t *Terms) { t.InitialRate = 0 }, start: start},
		{name: "Missing start date", mutate: func(t *Terms) {}, start: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := condoTerms()
			tt.mutate(&terms)
			schedule := Simulate(terms, NewRateTimeline(terms.InitialRate, nil), tt.start)
			if schedule == nil {
				t.Fatal("expected empty non-nil schedule")
			}
			if len(schedule) != 0 {
				t.Errorf("expected empty schedule, got %d points", len(schedule))
			}
		})
	}
}

func TestGenerateScheduleBoundedAndNonNegative(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2020-01-15")

	tests := []struct {
		name  string
		terms Terms
	}{
		{
			name:  "Condo loan",
			terms: condoTerms(),
		},
		{
			name:  "Short loan repaid early",
			terms: Terms{Principal: 1000000, TermMonths: 120, InitialRate: 1.0, MonthlyPayment: 100000},
		},
		{
			name:  "Bonus overshoots final balance",
			terms: Terms{Principal: 250000, TermMonths: 24, InitialRate: 2.0, MonthlyPayment: 10000, BonusPayment: 500000, BonusMonths: []int{6}},
		},
		{
			name:  "Payment below interest",
			terms: Terms{Principal: 40000000, TermMonths: 60, InitialRate: 1.0, MonthlyPayment: 10000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := Simulate(tt.terms, NewRateTimeline(tt.terms.InitialRate, nil), start)
			if len(schedule) == 0 || len(schedule) > tt.terms.TermMonths {
				t.Fatalf("schedule length %d outside (0, %d]", len(schedule), tt.terms.TermMonths)
			}
			last, _ := schedule.Last()
			if last.RemainingPrincipal < 0 {
				t.Errorf("last remaining principal = %.2f, expected >= 0", last.RemainingPrincipal)
			}
		})
	}
}

func TestGenerateSchedulePaysOffEarly(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2023-01-01")
	terms := Terms{Principal: 1000000, TermMonths: 120, InitialRate: 1.0, MonthlyPayment: 100000}

	schedule := Simulate(terms, NewRateTimeline(terms.InitialRate, nil), start)

	if len(schedule) >= terms.TermMonths {
		t.Fatalf("expected early payoff, got %d points", len(schedule))
	}
	last, _ := schedule.Last()
	if last.RemainingPrincipal != 0 {
		t.Errorf("last remaining principal = %v, expected exactly 0", last.RemainingPrincipal)
	}
	if last.Principal >= terms.MonthlyPayment {
		t.Errorf("final principal portion %.2f should be capped below the payment", last.Principal)
	}
}

func TestGenerateScheduleGrowingBalance(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2023-01-01")
	terms := Terms{Principal: 40000000, TermMonths: 12, InitialRate: 1.0, MonthlyPayment: 10000}

	schedule := Simulate(terms, NewRateTimeline(terms.InitialRate, nil), start)

	if len(schedule) != 12 {
		t.Fatalf("expected 12 points, got %d", len(schedule))
	}
	for i := 1; i < len(schedule); i++ {
		if schedule[i].RemainingPrincipal <= schedule[i-1].RemainingPrincipal {
			t.Fatalf("point %d: expected growing balance, %.2f <= %.2f",
				i, schedule[i].RemainingPrincipal, schedule[i-1].RemainingPrincipal)
		}
	}
}

func TestGenerateScheduleMonotonicWhenPaymentCoversInterest(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2023-04-01")
	terms := condoTerms()
	changes := []RateChange{
		{EffectiveDate: datetime.MustParseTime(datetime.DateLayout, "2030-04-01"), AnnualRate: 1.5},
		{EffectiveDate: datetime.MustParseTime(datetime.DateLayout, "2026-04-01"), AnnualRate: 1.0},
	}

	schedule := Simulate(terms, NewRateTimeline(terms.InitialRate, changes), start)

	for i := 1; i < len(schedule); i++ {
		if schedule[i].RemainingPrincipal > schedule[i-1].RemainingPrincipal {
			t.Fatalf("point %s: remaining principal increased from %.2f to %.2f",
				schedule[i].YearMonth, schedule[i-1].RemainingPrincipal, schedule[i].RemainingPrincipal)
		}
	}
}

func TestGenerateScheduleAppliesRateChanges(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2023-04-01")
	terms := condoTerms()
	changes := []RateChange{
		{EffectiveDate: datetime.MustParseTime(datetime.DateLayout, "2023-09-01"), AnnualRate: 1.2},
		{EffectiveDate: datetime.MustParseTime(datetime.DateLayout, "2023-06-15"), AnnualRate: 0.8},
	}

	schedule := Simulate(terms, NewRateTimeline(terms.InitialRate, changes), start)

	expected := map[string]float64{
		"2023-04": 0.5,
		"2023-06": 0.5,
		"2023-07": 0.8,
		"2023-08": 0.8,
		"2023-09": 1.2,
		"2024-09": 1.2,
	}
	for _, point := range schedule {
		if want, ok := expected[point.YearMonth]; ok && point.AnnualRate != want {
			t.Errorf("%s: rate = %v, expected %v", point.YearMonth, point.AnnualRate, want)
		}
	}
}

func TestGenerateScheduleIsDeterministic(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2023-04-01")
	terms := condoTerms()
	changes := []RateChange{
		{EffectiveDate: datetime.MustParseTime(datetime.DateLayout, "2027-01-01"), AnnualRate: 0.9},
	}

	first := Simulate(terms, NewRateTimeline(terms.InitialRate, changes), start)
	second := Simulate(terms, NewRateTimeline(terms.InitialRate, changes), start)

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical schedules for identical inputs")
	}
}
