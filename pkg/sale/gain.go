package sale

import (
	"github.com/shopspring/decimal"
)

// LongTermYears is the holding period a sale must exceed to be taxed at the
// long-term rate.
const LongTermYears = 5

// Capital gains tax rates, income and resident tax combined with the
// reconstruction surtax.
var (
	LongTermTaxRate  = decimal.RequireFromString("0.20315")
	ShortTermTaxRate = decimal.RequireFromString("0.3963")
)

// CapitalGain is the taxable gain on the sale and the tax owed on it.
type CapitalGain struct {
	TaxableGain  decimal.Decimal `json:"taxableGain"`
	HoldingYears int             `json:"holdingYears"`
	LongTerm     bool            `json:"longTerm"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxOwed      decimal.Decimal `json:"taxOwed"`
}

// TaxRateFor returns the rate for a holding period in whole years.
func TaxRateFor(holdingYears int) decimal.Decimal {
	if holdingYears > LongTermYears {
		return LongTermTaxRate
	}
	return ShortTermTaxRate
}

// CalculateCapitalGain derives the gain over cost basis and selling costs.
// A gain of zero or less owes no tax.
func CalculateCapitalGain(sellingPrice, acquisitionCost, transferCost decimal.Decimal, holdingYears int) CapitalGain {
	gain := CapitalGain{
		TaxableGain:  sellingPrice.Sub(acquisitionCost.Add(transferCost)),
		HoldingYears: holdingYears,
		LongTerm:     holdingYears > LongTermYears,
		TaxRate:      TaxRateFor(holdingYears),
		TaxOwed:      decimal.Zero,
	}
	if gain.TaxableGain.IsPositive() {
		gain.TaxOwed = gain.TaxableGain.Mul(gain.TaxRate)
	}
	return gain
}
