// Package config defines conversion utilities for configuration objects.
package config

import (
	"github.com/iwvelando/condo-forecast/pkg/datetime"
	"github.com/iwvelando/condo-forecast/pkg/loans"
	"github.com/iwvelando/condo-forecast/pkg/sale"
	"github.com/shopspring/decimal"
)

// ToAcquisition converts the property into the cost basis inputs, deriving
// the building breakdown from the total price when needed.
func (p Property) ToAcquisition() sale.Acquisition {
	buildingPrice, buildingTax := p.BuildingBreakdown()
	return sale.Acquisition{
		LandPrice:             decimal.NewFromFloat(p.LandPrice),
		BuildingPrice:         decimal.NewFromFloat(buildingPrice),
		BuildingTax:           decimal.NewFromFloat(buildingTax),
		AcquisitionTax:        decimal.NewFromFloat(p.AcquisitionTax),
		FireInsurance:         decimal.NewFromFloat(p.FireInsurance),
		EquipmentCost:         decimal.NewFromFloat(p.EquipmentCost),
		PropertyTaxPerPayment: decimal.NewFromFloat(p.PropertyTaxPerPayment),
		DeliveryDate:          p.DeliveryDate,
	}
}

// ToLoanTerms converts the loan into simulation terms.
func (l Loan) ToLoanTerms() loans.Terms {
	return loans.Terms{
		Principal:      l.Principal,
		TermMonths:     l.Months(),
		InitialRate:    l.InitialRate,
		MonthlyPayment: l.MonthlyPayment,
		BonusPayment:   l.BonusPayment,
		BonusMonths:    append([]int(nil), l.BonusMonths...),
	}
}

// ToRateChanges converts the common rate changes followed by the scenario's.
// Changes whose date cannot be read are left out.
func (l Loan) ToRateChanges(extra []RateChange) []loans.RateChange {
	all := make([]RateChange, 0, len(l.RateChanges)+len(extra))
	all = append(all, l.RateChanges...)
	all = append(all, extra...)

	changes := make([]loans.RateChange, 0, len(all))
	for _, change := range all {
		effective, ok := datetime.ParseDate(change.Date)
		if !ok {
			continue
		}
		changes = append(changes, loans.RateChange{EffectiveDate: effective, AnnualRate: change.Rate})
	}
	return changes
}

// ToSaleTerms converts the resolved sale into sale terms.
func (s ResolvedSale) ToSaleTerms() sale.Terms {
	return sale.Terms{
		SellingPrice: decimal.NewFromFloat(s.SellingPrice),
		SellingDate:  s.SellingDate,
		CleaningCost: decimal.NewFromFloat(s.CleaningCost),
		MovingCost:   decimal.NewFromFloat(s.MovingCost),
	}
}
