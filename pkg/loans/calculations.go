// Package loans simulates amortizing mortgages with time-varying interest
// rates and semi-annual bonus payments.
package loans

import (
	"fmt"
	"time"

	"github.com/iwvelando/condo-forecast/pkg/datetime"
	"github.com/iwvelando/condo-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Terms holds the fixed financing terms of a loan.
type Terms struct {
	Principal      float64
	TermMonths     int
	InitialRate    float64 // annual percent
	MonthlyPayment float64
	BonusPayment   float64
	BonusMonths    []int // calendar months 1..12
}

// Point holds the state of the loan after one simulated month.
type Point struct {
	YearMonth          string  `json:"date"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
	CumulativePaid     float64 `json:"totalPaid"`
	AnnualRate         float64 `json:"interestRate"`
	MonthlyPayment     float64 `json:"monthlyPayment"`
	BonusPayment       float64 `json:"bonusPayment"`
	Interest           float64 `json:"interest"`
	Principal          float64 `json:"principal"`
}

// Schedule is the ordered month-by-month amortization of a loan. An empty
// schedule means no loan is known, not that it has been repaid.
type Schedule []Point

// Last returns the final point of the schedule.
func (s Schedule) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * mathutil.MonthlyRate(annualInterestRate)
}

// IsBonusMonth reports whether the calendar month carries a bonus payment.
func (t Terms) IsBonusMonth(month time.Month) bool {
	for _, m := range t.BonusMonths {
		if m == int(month) {
			return true
		}
	}
	return false
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule runs the loan month by month from the month containing
// startDate. Each month the interest on the remaining principal is taken out
// of the fixed payment, bonus months add the bonus to the principal portion,
// and the principal portion is capped at what is still owed. The schedule
// stops at payoff or after TermMonths points.
//
// A payment smaller than the interest grows the balance; this is kept as-is.
// Non-positive principal, term or initial rate, or a zero start date, yield
// an empty schedule.
func (g *AmortizationScheduleGenerator) GenerateSchedule(terms Terms, timeline RateTimeline, startDate time.Time) Schedule {
	if terms.Principal <= 0 || terms.TermMonths <= 0 || terms.InitialRate <= 0 || startDate.IsZero() {
		g.logger.Debug("loan terms incomplete, producing empty schedule",
			zap.String("op", "loans.GenerateSchedule"),
			zap.Float64("principal", terms.Principal),
			zap.Int("termMonths", terms.TermMonths),
			zap.Float64("initialRate", terms.InitialRate),
		)
		return Schedule{}
	}

	schedule := make(Schedule, 0, terms.TermMonths)
	remaining := terms.Principal
	cumulative := 0.0
	previousRate := timeline.InitialRate()

	for i := 0; i < terms.TermMonths; i++ {
		currentDate := datetime.AddMonths(startDate, i)
		month := datetime.YearMonth(currentDate)

		rate := timeline.RateAt(currentDate)
		if rate != previousRate {
			g.logger.Debug(fmt.Sprintf("%s: interest rate changes from %.3f%% to %.3f%%", month, previousRate, rate),
				zap.String("op", "loans.GenerateSchedule"),
			)
			previousRate = rate
		}

		interest := CalculateInterestPayment(remaining, rate)
		principal := terms.MonthlyPayment - interest

		bonus := 0.0
		if terms.IsBonusMonth(currentDate.Month()) {
			bonus = terms.BonusPayment
			principal += bonus
		}

		if principal > remaining {
			principal = remaining
		}

		remaining -= principal
		cumulative += terms.MonthlyPayment + bonus

		schedule = append(schedule, Point{
			YearMonth:          month,
			RemainingPrincipal: remaining,
			CumulativePaid:     cumulative,
			AnnualRate:         rate,
			MonthlyPayment:     terms.MonthlyPayment,
			BonusPayment:       bonus,
			Interest:           interest,
			Principal:          principal,
		})

		if remaining <= 0 {
			g.logger.Debug(fmt.Sprintf("%s: loan repaid after %d of %d months", month, i+1, terms.TermMonths),
				zap.String("op", "loans.GenerateSchedule"),
			)
			break
		}
	}

	return schedule
}

// Simulate is GenerateSchedule without logging.
func Simulate(terms Terms, timeline RateTimeline, startDate time.Time) Schedule {
	return NewAmortizationScheduleGenerator(nil).GenerateSchedule(terms, timeline, startDate)
}
