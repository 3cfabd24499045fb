package sale

import (
	"github.com/shopspring/decimal"
)

// Outcome is the cash position after selling and repaying the loan. Capital
// gains tax is reported by CapitalGain and deliberately not deducted here;
// combining the two is left to the caller.
type Outcome struct {
	NetSaleProceeds decimal.Decimal `json:"netSaleProceeds"`
	OutstandingLoan decimal.Decimal `json:"outstandingLoan"`
	FinalBalance    decimal.Decimal `json:"finalBalance"`
}

// CalculateOutcome nets selling costs and the outstanding loan off the price.
func CalculateOutcome(sellingPrice, transferCost, outstandingLoan decimal.Decimal) Outcome {
	net := sellingPrice.Sub(transferCost)
	return Outcome{
		NetSaleProceeds: net,
		OutstandingLoan: outstandingLoan,
		FinalBalance:    net.Sub(outstandingLoan),
	}
}
