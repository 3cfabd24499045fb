// Package optimizer searches each scenario for the lowest selling price that
// keeps the sale's final balance at or above a floor.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/condo-forecast/internal/config"
	"github.com/iwvelando/condo-forecast/internal/forecast"
	"github.com/iwvelando/condo-forecast/pkg/format"
	"github.com/iwvelando/condo-forecast/pkg/mathutil"
	"github.com/iwvelando/condo-forecast/pkg/optimization"
	"github.com/iwvelando/condo-forecast/pkg/sale"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Runner executes break-even searches for the scenarios that ask for one.
type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
	// All runs a search on every active scenario, with default bounds for
	// scenarios that carry no optimizer block.
	All bool
}

type target struct {
	position     int
	scenarioName string
	input        forecast.Input
	search       config.BreakEvenSearch
}

type evaluation struct {
	price        float64
	finalBalance float64
	floor        float64
}

func (e evaluation) feasible() bool {
	return e.finalBalance >= e.floor
}

func (e evaluation) headroom() float64 {
	return e.finalBalance - e.floor
}

// Result summarizes break-even searches keyed by scenario name. When active
// scenarios share a name, Summaries holds the first one's.
type Result struct {
	Summaries map[string]optimization.Summary
	// positions keys each summary by the scenario's index among the active
	// scenarios, the order forecasts are produced in.
	positions map[int]optimization.Summary
}

// Empty indicates whether any search was run.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches break-even summaries to forecasts in active scenario order,
// as returned by forecast.GetForecast.
func (r Result) Apply(forecasts []forecast.Forecast) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range forecasts {
		var summary optimization.Summary
		var ok bool
		if r.positions != nil {
			summary, ok = r.positions[i]
		} else {
			summary, ok = r.Summaries[forecasts[i].Name]
		}
		if !ok {
			continue
		}
		s := summary
		forecasts[i].Metrics.BreakEven = &s
	}
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, conf: conf}, nil
}

// Run executes every break-even search. The configuration is not modified.
func (r *Runner) Run() (*Result, error) {
	targets, err := r.collectTargets()
	if err != nil {
		return nil, err
	}

	named := make(map[string]int, len(targets))
	for _, t := range targets {
		named[t.scenarioName]++
	}

	summaries := make(map[string]optimization.Summary, len(targets))
	positions := make(map[int]optimization.Summary, len(targets))
	for _, t := range targets {
		summary := r.search(t)
		if n := named[t.scenarioName]; n > 1 {
			summary.Notes = append(summary.Notes, fmt.Sprintf("%d active scenarios are named %q; each keeps its own break-even price", n, t.scenarioName))
		}
		positions[t.position] = summary
		if _, seen := summaries[t.scenarioName]; !seen {
			summaries[t.scenarioName] = summary
		}

		r.logger.Info("optimizer found break-even selling price",
			zap.String("op", "optimizer.Run"),
			zap.String("scenario", t.scenarioName),
			zap.Float64("original", summary.Original),
			zap.Float64("breakEven", summary.Value),
			zap.Float64("floor", summary.Floor),
			zap.Float64("finalBalance", summary.FinalBalance),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}

	return &Result{Summaries: summaries, positions: positions}, nil
}

func (r *Runner) collectTargets() ([]target, error) {
	var targets []target
	for position, scenario := range r.conf.ActiveScenarios() {
		if scenario.Optimizer == nil && !r.All {
			continue
		}
		if err := scenario.Optimizer.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		input := forecast.NewInput(*r.conf, scenario)
		targets = append(targets, target{
			position:     position,
			scenarioName: scenario.Name,
			input:        input,
			search:       scenario.Optimizer.Resolve(input.Sale.SellingPrice.InexactFloat64()),
		})
	}
	return targets, nil
}

// search returns the lowest feasible price in [MinPrice, MaxPrice]. The final
// balance rises with the selling price except at the stamp duty brackets,
// where it drops by the duty step, so each bracket is bisected on its own and
// the first one whose top price is feasible holds the answer.
func (r *Runner) search(t target) optimization.Summary {
	s := t.search
	summary := optimization.Summary{
		Scenario: t.scenarioName,
		Original: t.input.Sale.SellingPrice.InexactFloat64(),
		Floor:    s.Floor,
		MinPrice: s.MinPrice,
		MaxPrice: s.MaxPrice,
	}

	iterations := 0
	var top evaluation
	for _, seg := range segments(s.MinPrice, s.MaxPrice) {
		lower := r.evaluate(t, seg.low)
		if lower.feasible() {
			return finish(summary, lower, iterations, true, nil)
		}
		top = r.evaluate(t, seg.high)
		if !top.feasible() {
			continue
		}

		upper := top
		for iterations < s.MaxIterations && upper.price-lower.price > s.Tolerance {
			mid := r.evaluate(t, mathutil.RoundWhole(lower.price+(upper.price-lower.price)/2))
			iterations++
			if mid.price == lower.price || mid.price == upper.price {
				break
			}
			if mid.feasible() {
				upper = mid
			} else {
				lower = mid
			}
		}

		converged := mathutil.WithinTolerance(upper.price, lower.price, math.Max(s.Tolerance, 1))
		var notes []string
		if !converged {
			notes = append(notes, fmt.Sprintf("stopped after %d iterations with the break-even price between %s and %s",
				iterations, format.Currency(lower.price), format.Currency(upper.price)))
		}
		return finish(summary, upper, iterations, converged, notes)
	}

	note := fmt.Sprintf("unable to reach final balance %s within selling prices %s to %s",
		format.Currency(s.Floor), format.Currency(s.MinPrice), format.Currency(s.MaxPrice))
	return finish(summary, top, iterations, false, []string{note})
}

type segment struct {
	low, high float64
}

// segments splits [minPrice, maxPrice] at the stamp duty bracket edges. A
// bracket covers prices up to and including its edge, so the next segment
// starts one unit above it.
func segments(minPrice, maxPrice float64) []segment {
	var out []segment
	low := minPrice
	for _, bracket := range sale.StampDutyBrackets {
		edge := bracket.UpTo.InexactFloat64()
		if edge < low {
			continue
		}
		if edge >= maxPrice {
			break
		}
		out = append(out, segment{low: low, high: edge})
		low = math.Min(edge+1, maxPrice)
	}
	return append(out, segment{low: low, high: maxPrice})
}

func finish(summary optimization.Summary, e evaluation, iterations int, converged bool, notes []string) optimization.Summary {
	summary.Value = e.price
	summary.FinalBalance = e.finalBalance
	summary.Headroom = e.headroom()
	summary.Iterations = iterations
	summary.Converged = converged
	summary.Notes = notes
	return summary
}

func (r *Runner) evaluate(t target, price float64) evaluation {
	result := forecast.Compute(nil, t.input.WithSellingPrice(decimal.NewFromFloat(price)))
	return evaluation{
		price:        price,
		finalBalance: result.Outcome.FinalBalance.InexactFloat64(),
		floor:        t.search.Floor,
	}
}
