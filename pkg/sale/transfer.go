package sale

import (
	"github.com/shopspring/decimal"
)

var (
	brokerageRate    = decimal.RequireFromString("0.03")
	brokerageAddend  = decimal.NewFromInt(60000)
	consumptionTaxUp = decimal.RequireFromString("1.1")
)

// Fixed selling-side fees.
var (
	RegistrationFee = decimal.NewFromInt(2000)
	ScrivenerFee    = decimal.NewFromInt(30000)
	CertificateFee  = decimal.NewFromInt(1100)
	LoanPayoffFee   = decimal.NewFromInt(33000)
)

// StampDutyBracket charges Duty for prices up to and including UpTo.
type StampDutyBracket struct {
	UpTo decimal.Decimal
	Duty decimal.Decimal
}

// StampDutyBrackets is ordered by UpTo. Prices above the last bracket pay
// StampDutyCeiling.
var StampDutyBrackets = []StampDutyBracket{
	{UpTo: decimal.NewFromInt(1000000), Duty: decimal.Zero},
	{UpTo: decimal.NewFromInt(5000000), Duty: decimal.NewFromInt(2000)},
	{UpTo: decimal.NewFromInt(10000000), Duty: decimal.NewFromInt(10000)},
	{UpTo: decimal.NewFromInt(50000000), Duty: decimal.NewFromInt(20000)},
	{UpTo: decimal.NewFromInt(100000000), Duty: decimal.NewFromInt(60000)},
}

// StampDutyCeiling applies to every price above the highest bracket.
var StampDutyCeiling = decimal.NewFromInt(60000)

// Terms describes the hypothetical sale.
type Terms struct {
	SellingPrice decimal.Decimal
	SellingDate  string
	CleaningCost decimal.Decimal
	MovingCost   decimal.Decimal
}

// BrokerageFee is (price × 3% + 60,000) plus 10% consumption tax.
func BrokerageFee(sellingPrice decimal.Decimal) decimal.Decimal {
	return sellingPrice.Mul(brokerageRate).Add(brokerageAddend).Mul(consumptionTaxUp)
}

// StampDuty looks the selling price up in StampDutyBrackets.
func StampDuty(sellingPrice decimal.Decimal) decimal.Decimal {
	for _, bracket := range StampDutyBrackets {
		if sellingPrice.LessThanOrEqual(bracket.UpTo) {
			return bracket.Duty
		}
	}
	return StampDutyCeiling
}

// TransferCost itemizes the selling-side costs.
type TransferCost struct {
	BrokerageFee    decimal.Decimal `json:"brokerageFee"`
	StampDuty       decimal.Decimal `json:"stampDuty"`
	RegistrationFee decimal.Decimal `json:"registrationFee"`
	ScrivenerFee    decimal.Decimal `json:"scrivenerFee"`
	CertificateFee  decimal.Decimal `json:"certificateFee"`
	LoanPayoffFee   decimal.Decimal `json:"loanPayoffFee"`
	CleaningCost    decimal.Decimal `json:"cleaningCost"`
	MovingCost      decimal.Decimal `json:"movingCost"`
	Total           decimal.Decimal `json:"total"`
}

// CalculateTransferCost totals the costs of selling. The loan payoff
// processing fee is only charged when outstandingLoan is positive.
func CalculateTransferCost(t Terms, outstandingLoan decimal.Decimal) TransferCost {
	cost := TransferCost{
		BrokerageFee:    BrokerageFee(t.SellingPrice),
		StampDuty:       StampDuty(t.SellingPrice),
		RegistrationFee: RegistrationFee,
		ScrivenerFee:    ScrivenerFee,
		CertificateFee:  CertificateFee,
		LoanPayoffFee:   decimal.Zero,
		CleaningCost:    t.CleaningCost,
		MovingCost:      t.MovingCost,
	}
	if outstandingLoan.IsPositive() {
		cost.LoanPayoffFee = LoanPayoffFee
	}
	cost.Total = decimal.Sum(
		cost.BrokerageFee,
		cost.StampDuty,
		cost.RegistrationFee,
		cost.ScrivenerFee,
		cost.CertificateFee,
		cost.LoanPayoffFee,
		cost.CleaningCost,
		cost.MovingCost,
	)
	return cost
}
