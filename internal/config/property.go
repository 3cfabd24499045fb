package config

import (
	"math"

	"github.com/iwvelando/condo-forecast/pkg/constants"
)

// consumptionTaxMultiplier grosses a tax-exclusive building price up to the
// tax-inclusive one.
const consumptionTaxMultiplier = 1.1

// Property describes the unit as bought. Either give the building price and
// its tax directly, or give totalPrice and landPrice and let the building
// price be derived.
type Property struct {
	DeliveryDate          string  `yaml:"deliveryDate" mapstructure:"deliveryDate"`
	TotalPrice            float64 `yaml:"totalPrice,omitempty" mapstructure:"totalPrice"`
	LandPrice             float64 `yaml:"landPrice" mapstructure:"landPrice"`
	BuildingPrice         float64 `yaml:"buildingPrice,omitempty" mapstructure:"buildingPrice"`
	BuildingTax           float64 `yaml:"buildingTax,omitempty" mapstructure:"buildingTax"`
	AcquisitionTax        float64 `yaml:"acquisitionTax,omitempty" mapstructure:"acquisitionTax"`
	FireInsurance         float64 `yaml:"fireInsurance,omitempty" mapstructure:"fireInsurance"`
	EquipmentCost         float64 `yaml:"equipmentCost,omitempty" mapstructure:"equipmentCost"`
	PropertyTaxPerPayment float64 `yaml:"propertyTaxPerPayment,omitempty" mapstructure:"propertyTaxPerPayment"`
}

// derivesBuilding reports whether the building price comes from the total.
func (p Property) derivesBuilding() bool {
	return p.TotalPrice > 0 && p.LandPrice > 0 && p.BuildingPrice == 0 && p.BuildingTax == 0
}

// BuildingBreakdown returns the building price excluding tax and its
// consumption tax. When derived from the total, the tax-exclusive price is
// rounded to a whole unit and the tax is the remainder.
func (p Property) BuildingBreakdown() (price, tax float64) {
	if !p.derivesBuilding() {
		return p.BuildingPrice, p.BuildingTax
	}
	building := p.TotalPrice - p.LandPrice
	if building <= 0 {
		return p.BuildingPrice, p.BuildingTax
	}
	price = math.Round(building / consumptionTaxMultiplier)
	return price, building - price
}

// MonthlyFees are the recurring holding costs of the unit. The itemized
// fees, when any is given, replace Total.
type MonthlyFees struct {
	Total             float64 `yaml:"total,omitempty" mapstructure:"total"`
	ManagementFee     float64 `yaml:"managementFee,omitempty" mapstructure:"managementFee"`
	RepairFund        float64 `yaml:"repairFund,omitempty" mapstructure:"repairFund"`
	InternetFee       float64 `yaml:"internetFee,omitempty" mapstructure:"internetFee"`
	AssociationFee    float64 `yaml:"associationFee,omitempty" mapstructure:"associationFee"`
	BicycleParkingFee float64 `yaml:"bicycleParkingFee,omitempty" mapstructure:"bicycleParkingFee"`
}

// MonthlyTotal returns the monthly fee total.
func (f MonthlyFees) MonthlyTotal() float64 {
	itemized := f.ManagementFee + f.RepairFund + f.InternetFee + f.AssociationFee + f.BicycleParkingFee
	if itemized > 0 {
		return itemized
	}
	return f.Total
}

// Loan holds the mortgage terms.
type Loan struct {
	Principal      float64      `yaml:"principal" mapstructure:"principal"`
	TermYears      int          `yaml:"termYears,omitempty" mapstructure:"termYears"`
	TermMonths     int          `yaml:"termMonths,omitempty" mapstructure:"termMonths"`
	InitialRate    float64      `yaml:"initialRate" mapstructure:"initialRate"` // annual percent
	MonthlyPayment float64      `yaml:"monthlyPayment" mapstructure:"monthlyPayment"`
	BonusPayment   float64      `yaml:"bonusPayment,omitempty" mapstructure:"bonusPayment"`
	BonusMonths    []int        `yaml:"bonusMonths,omitempty" mapstructure:"bonusMonths"`
	RateChanges    []RateChange `yaml:"rateChanges,omitempty" mapstructure:"rateChanges"`
}

// Months returns the loan term in months; TermMonths wins over TermYears.
func (l Loan) Months() int {
	if l.TermMonths > 0 {
		return l.TermMonths
	}
	return l.TermYears * constants.MonthsPerYear
}

// RateChange moves the loan to Rate (annual percent) from Date onward.
type RateChange struct {
	Date string  `yaml:"date" mapstructure:"date"`
	Rate float64 `yaml:"rate" mapstructure:"rate"`
}

// Sale holds the hypothetical sale. Fields left unset in a scenario fall back
// to the common sale, then to defaults.
type Sale struct {
	SellingPrice *float64 `yaml:"sellingPrice,omitempty" mapstructure:"sellingPrice"`
	SellingDate  string   `yaml:"sellingDate,omitempty" mapstructure:"sellingDate"`
	CleaningCost *float64 `yaml:"cleaningCost,omitempty" mapstructure:"cleaningCost"`
	MovingCost   *float64 `yaml:"movingCost,omitempty" mapstructure:"movingCost"`
}

// ResolvedSale is a Sale with every field settled.
type ResolvedSale struct {
	SellingPrice float64
	SellingDate  string
	CleaningCost float64
	MovingCost   float64
}

// ResolveSale overlays the scenario's sale on the common one.
func (c Common) ResolveSale(scenario Scenario) ResolvedSale {
	resolved := ResolvedSale{
		SellingPrice: firstSet(0, scenario.Sale.SellingPrice, c.Sale.SellingPrice),
		SellingDate:  c.Sale.SellingDate,
		CleaningCost: firstSet(constants.DefaultCleaningCost, scenario.Sale.CleaningCost, c.Sale.CleaningCost),
		MovingCost:   firstSet(constants.DefaultMovingCost, scenario.Sale.MovingCost, c.Sale.MovingCost),
	}
	if scenario.Sale.SellingDate != "" {
		resolved.SellingDate = scenario.Sale.SellingDate
	}
	return resolved
}

func firstSet(fallback float64, values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return fallback
}
