package trading

import (
	"time"

	"github.com/shopspring/decimal"

	"artha-sim/internal/models"
)

// Ledger tracks a single symbol as an append-only list of transactions.
// Everything else about the position (quantity, cost basis, average buy
// price, P&L) is derived from that list plus the mutable current price, and
// recomputed on every mutation rather than stored independently.
type Ledger struct {
	symbol       string
	currentPrice decimal.Decimal
	transactions []models.Transaction

	// Derived on every mutation.
	quantity    int
	boughtQty   int
	costBasis   decimal.Decimal
	avgBuyPrice decimal.Decimal
}

// NewLedger creates an empty ledger for a symbol.
func NewLedger(symbol string, currentPrice decimal.Decimal) *Ledger {
	l := &Ledger{
		symbol:       symbol,
		currentPrice: currentPrice,
		costBasis:    decimal.Zero,
		avgBuyPrice:  decimal.Zero,
	}
	return l
}

// NewLedgerFromTransactions rebuilds a ledger from persisted transactions.
// The slice is copied; order is preserved.
func NewLedgerFromTransactions(symbol string, currentPrice decimal.Decimal, txs []models.Transaction) *Ledger {
	l := NewLedger(symbol, currentPrice)
	l.transactions = append(l.transactions, txs...)
	l.recalculate()
	return l
}

// NewLedgerFromLegacy converts an aggregate (quantity, average price)
// position into the ledger model by synthesizing one opening BUY dated at
// asOf. The fabricated date skews elapsed-time return figures, so the lot is
// flagged Synthetic for downstream consumers to discount.
func NewLedgerFromLegacy(symbol string, quantity int, avgPrice decimal.Decimal, asOf time.Time) *Ledger {
	l := NewLedger(symbol, avgPrice)
	opening := models.NewTransaction(asOf, quantity, avgPrice, models.OrderSideBuy)
	opening.Synthetic = true
	l.transactions = append(l.transactions, opening)
	l.recalculate()
	return l
}

// Append records a transaction and recomputes the derived state. The trade
// executor validates before calling, so quantity never goes negative here.
func (l *Ledger) Append(tx models.Transaction) {
	l.transactions = append(l.transactions, tx)
	l.recalculate()
}

// SetCurrentPrice updates the valuation price, typically once per simulated
// day.
func (l *Ledger) SetCurrentPrice(price decimal.Decimal) {
	l.currentPrice = price
}

func (l *Ledger) recalculate() {
	quantity := 0
	boughtQty := 0
	costBasis := decimal.Zero

	for _, tx := range l.transactions {
		if tx.IsBuy() {
			quantity += tx.Quantity
			boughtQty += tx.Quantity
			// Commission is part of what was paid for the shares.
			costBasis = costBasis.Add(tx.Value()).Add(tx.Commission)
		} else {
			quantity -= tx.Quantity
		}
	}

	l.quantity = quantity
	l.boughtQty = boughtQty
	l.costBasis = costBasis
	if boughtQty > 0 {
		l.avgBuyPrice = costBasis.Div(decimal.NewFromInt(int64(boughtQty)))
	} else {
		l.avgBuyPrice = decimal.Zero
	}
}

// Symbol returns the symbol this ledger tracks.
func (l *Ledger) Symbol() string { return l.symbol }

// CurrentPrice returns the latest valuation price.
func (l *Ledger) CurrentPrice() decimal.Decimal { return l.currentPrice }

// Quantity returns the net held quantity (buys minus sells).
func (l *Ledger) Quantity() int { return l.quantity }

// CostBasis returns the cumulative amount paid across all buys, commissions
// included.
func (l *Ledger) CostBasis() decimal.Decimal { return l.costBasis }

// AvgBuyPrice returns cost basis divided by total bought quantity, or zero
// when nothing was ever bought.
func (l *Ledger) AvgBuyPrice() decimal.Decimal { return l.avgBuyPrice }

// MarketValue returns |quantity| x current price.
func (l *Ledger) MarketValue() decimal.Decimal {
	qty := l.quantity
	if qty < 0 {
		qty = -qty
	}
	return l.currentPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// UnrealizedPnL returns the paper profit on the shares still held: market
// value minus the cost basis allocated proportionally to the remaining
// quantity. Zero when the position is flat.
func (l *Ledger) UnrealizedPnL() decimal.Decimal {
	if l.quantity <= 0 || l.boughtQty == 0 {
		return decimal.Zero
	}
	remainingBasis := l.costBasis.
		Div(decimal.NewFromInt(int64(l.boughtQty))).
		Mul(decimal.NewFromInt(int64(l.quantity)))
	return l.MarketValue().Sub(remainingBasis)
}

// UnrealizedPnLPct returns the unrealized P&L as a percentage of cost basis.
func (l *Ledger) UnrealizedPnLPct() decimal.Decimal {
	if !l.costBasis.IsPositive() {
		return decimal.Zero
	}
	return l.UnrealizedPnL().Div(l.costBasis).Mul(decimal.NewFromInt(100))
}

// Transactions returns a copy of the ordered transaction list.
func (l *Ledger) Transactions() []models.Transaction {
	out := make([]models.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// HasSyntheticLot reports whether any transaction was fabricated by legacy
// migration, meaning XIRR figures for this ledger are approximate.
func (l *Ledger) HasSyntheticLot() bool {
	for _, tx := range l.transactions {
		if tx.Synthetic {
			return true
		}
	}
	return false
}
