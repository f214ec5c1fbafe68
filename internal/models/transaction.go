// Package models provides domain models for the brokerage simulator.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide represents the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Transaction is a single ledger entry for a position. Transactions are
// immutable once created: corrections are recorded as new entries, never as
// edits. Only the trade executor and the legacy-position migration create
// them.
type Transaction struct {
	Date       time.Time
	Quantity   int
	Price      decimal.Decimal
	Side       OrderSide
	Commission decimal.Decimal

	// Synthetic marks an opening lot fabricated while migrating a legacy
	// aggregate position. Its date is the migration day, not the real
	// purchase day, so time-weighted return figures built from it are
	// approximate.
	Synthetic bool
}

// NewTransaction creates a transaction with zero commission. Kept for
// callers that predate the full cost model.
func NewTransaction(date time.Time, quantity int, price decimal.Decimal, side OrderSide) Transaction {
	return Transaction{
		Date:     date,
		Quantity: quantity,
		Price:    price,
		Side:     side,
	}
}

// NewTransactionWithCommission creates a transaction carrying the total
// transaction cost charged for the fill.
func NewTransactionWithCommission(date time.Time, quantity int, price decimal.Decimal, side OrderSide, commission decimal.Decimal) Transaction {
	return Transaction{
		Date:       date,
		Quantity:   quantity,
		Price:      price,
		Side:       side,
		Commission: commission,
	}
}

// Value returns the trade notional (quantity x price), commission excluded.
func (t Transaction) Value() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// IsBuy reports whether the transaction is a purchase.
func (t Transaction) IsBuy() bool {
	return t.Side == OrderSideBuy
}
