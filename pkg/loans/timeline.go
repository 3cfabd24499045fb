package loans

import (
	"sort"
	"time"
)

// RateChange moves the loan onto a new annual rate from EffectiveDate onward.
type RateChange struct {
	EffectiveDate time.Time
	AnnualRate    float64 // percent, e.g. 0.5 for 0.5%
}

// RateTimeline resolves the annual rate in effect at any simulated month.
// The zero value resolves every date to a 0% rate.
type RateTimeline struct {
	initialRate float64
	changes     []RateChange
}

// NewRateTimeline copies and orders the changes by effective date. The sort is
// stable so changes sharing a date keep their insertion order and the last
// one inserted wins.
func NewRateTimeline(initialRate float64, changes []RateChange) RateTimeline {
	sorted := make([]RateChange, len(changes))
	copy(sorted, changes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
	})
	return RateTimeline{initialRate: initialRate, changes: sorted}
}

// InitialRate returns the rate in effect before any change.
func (t RateTimeline) InitialRate() float64 {
	return t.initialRate
}

// Changes returns the ordered rate changes.
func (t RateTimeline) Changes() []RateChange {
	return append([]RateChange(nil), t.changes...)
}

// RateAt returns the rate of the chronologically latest change effective on
// or before asOf, or the initial rate when none is.
func (t RateTimeline) RateAt(asOf time.Time) float64 {
	rate := t.initialRate
	for _, change := range t.changes {
		if change.EffectiveDate.After(asOf) {
			break
		}
		rate = change.AnnualRate
	}
	return rate
}

// ResolveRate is the one-shot form of NewRateTimeline(...).RateAt(asOf) for
// callers holding an unsorted change list.
func ResolveRate(changes []RateChange, initialRate float64, asOf time.Time) float64 {
	return NewRateTimeline(initialRate, changes).RateAt(asOf)
}
