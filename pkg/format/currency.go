// Package format renders amounts for human-facing output. Amounts are whole
// currency units; fractions are rounded half away from zero.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/condo-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes amounts rendered by Currency.
const CurrencySymbol = "¥"

// Currency returns a currency string with a symbol and thousands separators (e.g., "-¥1,234,567").
func Currency(amount float64) string {
	formatted := formatPositive(math.Abs(amount))
	if amount < 0 && formatted != "0" {
		return "-" + CurrencySymbol + formatted
	}
	return CurrencySymbol + formatted
}

// NumericCurrency returns a currency string without a symbol but with separators (e.g., "-1,234,567").
func NumericCurrency(amount float64) string {
	formatted := formatPositive(math.Abs(amount))
	if amount < 0 && formatted != "0" {
		return "-" + formatted
	}
	return formatted
}

// Decimal is Currency for decimal amounts.
func Decimal(amount decimal.Decimal) string {
	return Currency(amount.InexactFloat64())
}

// Percent renders an annual rate held in percent (0.5 -> "0.500%").
func Percent(rate float64) string {
	return fmt.Sprintf("%.3f%%", rate)
}

// Ratio renders a fractional rate as a percentage (0.20315 -> "20.315%").
func Ratio(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(3) + "%"
}

func formatPositive(value float64) string {
	intPart := fmt.Sprintf("%.0f", mathutil.RoundWhole(value))

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart
}
