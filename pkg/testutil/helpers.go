// Package testutil provides common utility functions for testing.
package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/iwvelando/condo-forecast/internal/config"
	"github.com/iwvelando/condo-forecast/internal/forecast"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindScenario(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// RepoPath resolves a path relative to the repository root.
func RepoPath(elem ...string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..")
	return filepath.Join(append([]string{root}, elem...)...)
}

// LoadTestConfiguration loads test/test_config.yaml or fails the test.
func LoadTestConfiguration(tb testing.TB) *config.Configuration {
	tb.Helper()
	conf, err := config.LoadConfiguration(RepoPath("test", "test_config.yaml"))
	if err != nil {
		tb.Fatalf("LoadConfiguration() error = %v", err)
	}
	return conf
}
