// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a break-even selling price search.
type Summary struct {
	Scenario     string   `json:"scenario"`
	Original     float64  `json:"original"`
	Value        float64  `json:"value"`
	Floor        float64  `json:"floor"`
	MinPrice     float64  `json:"minPrice"`
	MaxPrice     float64  `json:"maxPrice"`
	FinalBalance float64  `json:"finalBalance"`
	Headroom     float64  `json:"headroom"`
	Iterations   int      `json:"iterations"`
	Converged    bool     `json:"converged"`
	Notes        []string `json:"notes,omitempty"`
}

// Margin is how far the scenario's selling price sits above the break-even
// price. Negative when the scenario sells below it.
func (s Summary) Margin() float64 {
	return s.Original - s.Value
}
