package config

import (
	"fmt"
)

const (
	defaultBreakEvenTolerance     = 1000.0
	defaultBreakEvenMaxIterations = 100
	defaultMaxPriceMultiplier     = 2.0
)

// OptimizerConfig asks for the lowest selling price whose final balance stays
// at or above Floor.
type OptimizerConfig struct {
	Floor         *float64 `yaml:"floor,omitempty" mapstructure:"floor"`
	MinPrice      *float64 `yaml:"minPrice,omitempty" mapstructure:"minPrice"`
	MaxPrice      *float64 `yaml:"maxPrice,omitempty" mapstructure:"maxPrice"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// BreakEvenSearch is an OptimizerConfig with defaults applied.
type BreakEvenSearch struct {
	Floor         float64
	MinPrice      float64
	MaxPrice      float64
	Tolerance     float64
	MaxIterations int
}

// Resolve applies defaults relative to the scenario's selling price: the
// search runs over [0, 2 × price] towards a zero final balance.
func (o *OptimizerConfig) Resolve(sellingPrice float64) BreakEvenSearch {
	search := BreakEvenSearch{
		MaxPrice:      sellingPrice * defaultMaxPriceMultiplier,
		Tolerance:     defaultBreakEvenTolerance,
		MaxIterations: defaultBreakEvenMaxIterations,
	}
	if o == nil {
		return search
	}
	search.Floor = firstSet(0, o.Floor)
	search.MinPrice = firstSet(0, o.MinPrice)
	search.MaxPrice = firstSet(search.MaxPrice, o.MaxPrice)
	if o.Tolerance > 0 {
		search.Tolerance = o.Tolerance
	}
	if o.MaxIterations > 0 {
		search.MaxIterations = o.MaxIterations
	}
	return search
}

// Validate checks the directive for a bracket the search can work with.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return nil
	}
	if o.MinPrice != nil && *o.MinPrice < 0 {
		return fmt.Errorf("optimizer minPrice must not be negative, got %.2f", *o.MinPrice)
	}
	if o.MinPrice != nil && o.MaxPrice != nil && *o.MinPrice >= *o.MaxPrice {
		return fmt.Errorf("optimizer minPrice %.2f must be below maxPrice %.2f", *o.MinPrice, *o.MaxPrice)
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("optimizer tolerance must not be negative, got %.2f", o.Tolerance)
	}
	return nil
}
