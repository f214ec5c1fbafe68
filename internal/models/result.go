package models

import "github.com/shopspring/decimal"

// TradeResult reports the outcome of a buy or sell order. Validation and
// business-rule failures come back as Success=false with a human-readable
// Message; they are never raised as errors and never leave partial state
// behind.
type TradeResult struct {
	Success       bool
	Message       string
	Symbol        string
	Side          OrderSide
	ExecutedPrice decimal.Decimal
	Quantity      int

	// TotalCost is the cash deducted on a buy (notional + charges).
	// NetProceeds is the cash credited on a sell (notional - charges).
	TotalCost   decimal.Decimal
	NetProceeds decimal.Decimal

	// Commission is the sum of all charge components for this fill.
	Commission decimal.Decimal
	Breakdown  CostBreakdown

	// RealizedPnL is the average-cost realized delta added to the
	// portfolio by a sell. Zero for buys.
	RealizedPnL decimal.Decimal
}

// Failure creates a failed result. State is untouched whenever this is
// returned.
func Failure(message string) TradeResult {
	return TradeResult{Success: false, Message: message}
}
