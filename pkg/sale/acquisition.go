// Package sale derives the cost basis, selling costs, capital gains tax and
// net cash outcome of selling a residential unit. All amounts are in the
// smallest whole currency unit and carried as decimals; nothing here fails,
// incomplete input simply yields zero-valued parts.
package sale

import (
	"github.com/shopspring/decimal"
)

// DepreciationRate is the fixed straight-line annual depreciation applied to
// the building acquisition price.
var DepreciationRate = decimal.RequireFromString("0.015")

// Acquisition describes what was paid to acquire and hold the unit.
type Acquisition struct {
	LandPrice             decimal.Decimal
	BuildingPrice         decimal.Decimal // excluding consumption tax
	BuildingTax           decimal.Decimal
	AcquisitionTax        decimal.Decimal
	FireInsurance         decimal.Decimal
	EquipmentCost         decimal.Decimal
	PropertyTaxPerPayment decimal.Decimal
	DeliveryDate          string
}

// BuildingAcquisitionPrice is the building price including its consumption tax.
func (a Acquisition) BuildingAcquisitionPrice() decimal.Decimal {
	return a.BuildingPrice.Add(a.BuildingTax)
}

// PropertyPrice is land plus building plus building tax.
func (a Acquisition) PropertyPrice() decimal.Decimal {
	return a.LandPrice.Add(a.BuildingAcquisitionPrice())
}

// Depreciation returns the building acquisition price times 1.5% per elapsed
// year. It is not capped, so very long holdings can depreciate past the
// building price.
func Depreciation(a Acquisition, elapsedYears int) decimal.Decimal {
	return a.BuildingAcquisitionPrice().
		Mul(DepreciationRate).
		Mul(decimal.NewFromInt(int64(elapsedYears)))
}

// AcquisitionCost itemizes the cost basis used for the capital gain.
type AcquisitionCost struct {
	PropertyPrice   decimal.Decimal `json:"propertyPrice"`
	AcquisitionTax  decimal.Decimal `json:"acquisitionTax"`
	PropertyTaxPaid decimal.Decimal `json:"propertyTaxPaid"`
	EquipmentCost   decimal.Decimal `json:"equipmentCost"`
	FireInsurance   decimal.Decimal `json:"fireInsurance"`
	Depreciation    decimal.Decimal `json:"depreciation"`
	Total           decimal.Decimal `json:"total"`
}

// CalculateAcquisitionCost sums what was paid for the unit, including the
// fixed-asset tax instalments paid while holding it, and subtracts
// depreciation. The total may go negative; it is not floored.
func CalculateAcquisitionCost(a Acquisition, taxPayments, elapsedYears int) AcquisitionCost {
	cost := AcquisitionCost{
		PropertyPrice:   a.PropertyPrice(),
		AcquisitionTax:  a.AcquisitionTax,
		PropertyTaxPaid: a.PropertyTaxPerPayment.Mul(decimal.NewFromInt(int64(taxPayments))),
		EquipmentCost:   a.EquipmentCost,
		FireInsurance:   a.FireInsurance,
		Depreciation:    Depreciation(a, elapsedYears),
	}
	cost.Total = cost.PropertyPrice.
		Add(cost.AcquisitionTax).
		Add(cost.PropertyTaxPaid).
		Add(cost.EquipmentCost).
		Add(cost.FireInsurance).
		Sub(cost.Depreciation)
	return cost
}
