package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/iwvelando/condo-forecast/internal/config"
	"github.com/iwvelando/condo-forecast/internal/forecast"
	"github.com/iwvelando/condo-forecast/internal/optimizer"
	"github.com/iwvelando/condo-forecast/pkg/constants"
	"github.com/iwvelando/condo-forecast/pkg/output"
	"github.com/iwvelando/condo-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	configPath   string
	outputFormat string
	outputPath   string
	logLevel     string
	optimize     bool
	scheduleDir  string
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&opts.outputFormat, "output-format", "", "output format override: pretty, csv, json, pdf")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "write output to this file instead of stdout")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.BoolVar(&opts.optimize, "optimize", false, "search break-even selling prices for every active scenario")
	flags.StringVar(&opts.scheduleDir, "schedule-dir", "", "also write each scenario's amortization schedule as CSV into this directory")
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute and print the forecast for each active scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd.OutOrStdout(), *opts)
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

// runForecast loads the configuration, computes every active scenario and
// renders the results to stdout or opts.outputPath.
func runForecast(stdout io.Writer, opts runOptions) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	if outputFormat == constants.OutputFormatPDF && opts.outputPath == "" {
		return fmt.Errorf("%s output requires --output", constants.OutputFormatPDF)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runForecast"),
		)
	}

	runner, err := optimizer.NewRunner(logger, conf)
	if err != nil {
		return err
	}
	runner.All = opts.optimize

	optimizationResult, err := runner.Run()
	if err != nil {
		return fmt.Errorf("optimizer execution failed: %w", err)
	}

	results := forecast.GetForecast(logger, *conf)
	if optimizationResult != nil && !optimizationResult.Empty() {
		optimizationResult.Apply(results)
	}

	w := stdout
	if opts.outputPath != "" {
		file, err := os.Create(opts.outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				logger.Warn("failed to close output file",
					zap.String("op", "main.runForecast"),
					zap.Error(closeErr),
				)
			}
		}()
		w = file
	}

	if err := output.Render(w, outputFormat, results); err != nil {
		return fmt.Errorf("failed to render %s output: %w", outputFormat, err)
	}

	if opts.scheduleDir != "" {
		if err := writeSchedules(logger, opts.scheduleDir, results); err != nil {
			return err
		}
	}

	logger.Debug("forecast rendered",
		zap.String("op", "main.runForecast"),
		zap.Int("scenarios", len(results)),
		zap.String("format", outputFormat),
	)
	return nil
}

// writeSchedules writes one schedule CSV per forecast, numbered in scenario
// order so scenarios sharing a name do not overwrite each other.
func writeSchedules(logger *zap.Logger, dir string, results []forecast.Forecast) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create schedule directory: %w", err)
	}
	for i, result := range results {
		path := filepath.Join(dir, scheduleFileName(i, result.Name))
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create schedule file: %w", err)
		}
		output.ScheduleCSV(file, result)
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to write schedule file %s: %w", path, err)
		}
		logger.Debug("schedule written",
			zap.String("op", "main.writeSchedules"),
			zap.String("scenario", result.Name),
			zap.String("path", path),
			zap.Int("months", len(result.Schedule)),
		)
	}
	return nil
}

func scheduleFileName(index int, scenario string) string {
	slug := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, scenario)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "scenario"
	}
	return fmt.Sprintf("%02d-%s-schedule.csv", index+1, slug)
}
