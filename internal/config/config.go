// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/condo-forecast/pkg/constants"
	"github.com/spf13/viper"
)

// DateLayout is the calendar date format expected in config files.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for condo-forecast.
type Configuration struct {
	Common    Common        `yaml:"common" mapstructure:"common"`
	Scenarios []Scenario    `yaml:"scenarios,omitempty" mapstructure:"scenarios"`
	Logging   LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level" env:"LOG_LEVEL"`        // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format" env:"LOG_FORMAT"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile" env:"LOG_FILE"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json, pdf
}

// Common holds the property, its financing and the default sale shared by
// all scenarios.
type Common struct {
	Property    Property    `yaml:"property" mapstructure:"property"`
	MonthlyFees MonthlyFees `yaml:"monthlyFees,omitempty" mapstructure:"monthlyFees"`
	Loan        Loan        `yaml:"loan" mapstructure:"loan"`
	Sale        Sale        `yaml:"sale,omitempty" mapstructure:"sale"`
}

// Scenario is one hypothetical sale of the common property.
type Scenario struct {
	Name        string           `yaml:"name" mapstructure:"name"`
	Active      bool             `yaml:"active" mapstructure:"active"`
	Sale        Sale             `yaml:"sale,omitempty" mapstructure:"sale"`
	RateChanges []RateChange     `yaml:"rateChanges,omitempty" mapstructure:"rateChanges"`
	Optimizer   *OptimizerConfig `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActiveScenarios returns the scenarios to forecast in declaration order. A
// configuration without any scenarios forecasts the common sale alone.
func (c Configuration) ActiveScenarios() []Scenario {
	if len(c.Scenarios) == 0 {
		return []Scenario{{Name: constants.DefaultScenarioName, Active: true}}
	}
	active := make([]Scenario, 0, len(c.Scenarios))
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}
