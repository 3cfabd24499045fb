package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/condo-forecast/internal/config"
	"github.com/iwvelando/condo-forecast/pkg/testutil"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		config   config.LoggingConfig
		override string
		wantErr  bool
	}{
		{name: "defaults", config: config.LoggingConfig{}},
		{name: "console debug", config: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "override wins", config: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "invalid level", config: config.LoggingConfig{Level: "verbose"}, wantErr: true},
		{name: "invalid format", config: config.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatal("expected logger")
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "condo.log")

	logger, err := initializeLogger(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("expected log line in file, got %q", string(data))
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommandFormats(t *testing.T) {
	configPath := testutil.RepoPath("test", "test_config.yaml")

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "default command pretty",
			args:     []string{"--config", configPath, "--log-level", "error"},
			contains: []string{"--- Results for scenario sell after five years ---", "Break-even"},
		},
		{
			name:     "run csv",
			args:     []string{"run", "--config", configPath, "--output-format", "csv", "--log-level", "error"},
			contains: []string{"scenario", `"sell early with rate hike"`},
		},
		{
			name:     "run json",
			args:     []string{"run", "--config", configPath, "--output-format", "json", "--log-level", "error"},
			contains: []string{`"name": "sell after five years"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestRunCommandJSONIsValid(t *testing.T) {
	out, err := execute(t, "run", "--config", testutil.RepoPath("test", "test_config.yaml"),
		"--output-format", "json", "--optimize", "--log-level", "error")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("expected valid JSON output: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(decoded))
	}
	for _, scenario := range decoded {
		metrics, _ := scenario["metrics"].(map[string]interface{})
		if metrics["breakEven"] == nil {
			t.Errorf("expected break-even for %v with --optimize", scenario["name"])
		}
	}
}

func TestRunCommandPDF(t *testing.T) {
	configPath := testutil.RepoPath("test", "test_config.yaml")

	if _, err := execute(t, "run", "--config", configPath, "--output-format", "pdf", "--log-level", "error"); err == nil {
		t.Fatal("expected error for pdf without --output")
	}

	outPath := filepath.Join(t.TempDir(), "report.pdf")
	if _, err := execute(t, "run", "--config", configPath, "--output-format", "pdf", "-o", outPath, "--log-level", "error"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF header in output file")
	}
}

func TestRunCommandScheduleDir(t *testing.T) {
	configPath := testutil.RepoPath("test", "test_config.yaml")
	dir := filepath.Join(t.TempDir(), "schedules")

	if _, err := execute(t, "run", "--config", configPath, "--schedule-dir", dir, "--log-level", "error"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, name := range []string{"01-sell-after-five-years-schedule.csv", "02-sell-early-with-rate-hike-schedule.csv"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("failed to read schedule: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if !strings.HasPrefix(lines[0], `"date","interest rate"`) {
			t.Errorf("%s header = %s", name, lines[0])
		}
		if len(lines) < 13 {
			t.Errorf("%s has %d lines, expected a multi-year schedule", name, len(lines))
		}
	}
}

func TestScheduleFileName(t *testing.T) {
	tests := []struct {
		index    int
		scenario string
		expected string
	}{
		{0, "sell after five years", "01-sell-after-five-years-schedule.csv"},
		{9, "Hold/Sell 2030", "10-hold-sell-2030-schedule.csv"},
		{2, "  ", "03-scenario-schedule.csv"},
	}

	for _, tt := range tests {
		if got := scheduleFileName(tt.index, tt.scenario); got != tt.expected {
			t.Errorf("scheduleFileName(%d, %q) = %s, expected %s", tt.index, tt.scenario, got, tt.expected)
		}
	}
}

func TestRunCommandErrors(t *testing.T) {
	configPath := testutil.RepoPath("test", "test_config.yaml")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing config", args: []string{"run", "--config", filepath.Join(t.TempDir(), "missing.yaml")}},
		{name: "invalid format", args: []string{"run", "--config", configPath, "--output-format", "xml"}},
		{name: "invalid log level", args: []string{"run", "--config", configPath, "--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Fatal("expected error but got nil")
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Fatalf("expected %q, got %q", version, out)
	}
}
