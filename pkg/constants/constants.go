// Package constants provides shared constants for the condo-forecast application.
package constants

// DateLayout is the calendar date format expected in config files.
const DateLayout = "2006-01-02"

// YearMonthLayout is the month granularity used by amortization schedules and
// is also the output date format.
const YearMonthLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"

	// OutputFormatPDF is the printable report output format
	OutputFormatPDF = "pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultScenarioName names the implicit scenario built from common.sale
	DefaultScenarioName = "default"
)

// Sale defaults applied when the configuration leaves the field out.
const (
	// DefaultCleaningCost is the typical house cleaning cost before handover
	DefaultCleaningCost = 100000.0

	// DefaultMovingCost is the typical moving cost
	DefaultMovingCost = 200000.0
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCacheTTL is how long cached forecast responses live in Redis
	DefaultCacheTTL = "1h"
)
