package models

import "github.com/shopspring/decimal"

// CostBreakdown itemizes the charges applied to a single fill. All amounts
// are kept unrounded; use Rounded for display.
type CostBreakdown struct {
	Brokerage       decimal.Decimal
	STT             decimal.Decimal // securities transaction tax, sell side only
	ExchangeCharges decimal.Decimal
	GST             decimal.Decimal // levied on brokerage + exchange charges
	SEBICharges     decimal.Decimal
	Total           decimal.Decimal
}

// Rounded returns a copy with every component rounded to two decimal places
// for presentation. The unrounded breakdown stays authoritative for
// accounting so repeated trades do not accumulate rounding drift.
func (c CostBreakdown) Rounded() CostBreakdown {
	return CostBreakdown{
		Brokerage:       c.Brokerage.Round(2),
		STT:             c.STT.Round(2),
		ExchangeCharges: c.ExchangeCharges.Round(2),
		GST:             c.GST.Round(2),
		SEBICharges:     c.SEBICharges.Round(2),
		Total:           c.Total.Round(2),
	}
}
