package trading

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Portfolio aggregates a cash balance, the per-symbol ledgers, and the
// cumulative realized P&L. It is owned by exactly one simulation session;
// the core does no locking, so callers embedding it in a server must
// serialize access per portfolio.
type Portfolio struct {
	cash        decimal.Decimal
	positions   map[string]*Ledger
	realizedPnL decimal.Decimal
}

// NewPortfolio creates a portfolio with the given opening cash balance.
func NewPortfolio(cash decimal.Decimal) *Portfolio {
	return &Portfolio{
		cash:        cash,
		positions:   make(map[string]*Ledger),
		realizedPnL: decimal.Zero,
	}
}

// Cash returns the available cash balance.
func (p *Portfolio) Cash() decimal.Decimal { return p.cash }

// RealizedPnL returns the cumulative average-cost realized P&L across the
// portfolio's lifetime. It goes down on losing closes.
func (p *Portfolio) RealizedPnL() decimal.Decimal { return p.realizedPnL }

// Position returns the ledger for a symbol, or nil if nothing is held.
func (p *Portfolio) Position(symbol string) *Ledger {
	return p.positions[symbol]
}

// Positions returns the open ledgers sorted by symbol.
func (p *Portfolio) Positions() []*Ledger {
	out := make([]*Ledger, 0, len(p.positions))
	for _, l := range p.positions {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol() < out[j].Symbol() })
	return out
}

// Symbols returns the sorted symbols with open positions.
func (p *Portfolio) Symbols() []string {
	out := make([]string, 0, len(p.positions))
	for s := range p.positions {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// MarketValue returns the summed market value of all open positions.
func (p *Portfolio) MarketValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.positions {
		total = total.Add(l.MarketValue())
	}
	return total
}

// TotalValue returns cash plus the market value of all positions.
func (p *Portfolio) TotalValue() decimal.Decimal {
	return p.cash.Add(p.MarketValue())
}

// UnrealizedPnL returns the summed paper P&L of all open positions.
func (p *Portfolio) UnrealizedPnL() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.positions {
		total = total.Add(l.UnrealizedPnL())
	}
	return total
}

// TotalPnL returns realized plus unrealized P&L.
func (p *Portfolio) TotalPnL() decimal.Decimal {
	return p.realizedPnL.Add(p.UnrealizedPnL())
}

// InvestedAmount returns the cost basis tied up in open positions,
// allocated proportionally to the shares still held.
func (p *Portfolio) InvestedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.positions {
		total = total.Add(l.MarketValue().Sub(l.UnrealizedPnL()))
	}
	return total
}

// ledger returns the ledger for symbol, creating it when absent. Only the
// trade executor and migration code call this.
func (p *Portfolio) ledger(symbol string, price decimal.Decimal) *Ledger {
	if l, ok := p.positions[symbol]; ok {
		return l
	}
	l := NewLedger(symbol, price)
	p.positions[symbol] = l
	return l
}

// removeIfFlat drops a ledger from the position map once its quantity hits
// zero; closed positions live on only in the realized P&L and any persisted
// transaction history.
func (p *Portfolio) removeIfFlat(symbol string) {
	if l, ok := p.positions[symbol]; ok && l.Quantity() == 0 {
		delete(p.positions, symbol)
	}
}

// AdoptLedger installs a rebuilt ledger (from persistence or legacy
// migration). Ledgers without a positive net quantity are ignored; a
// negative one can only come from a corrupt or truncated journal and must
// never become an open position.
func (p *Portfolio) AdoptLedger(l *Ledger) {
	if l.Quantity() <= 0 {
		return
	}
	p.positions[l.Symbol()] = l
}

// SetCash replaces the cash balance. Used when restoring a persisted
// portfolio, never during trade execution.
func (p *Portfolio) SetCash(cash decimal.Decimal) { p.cash = cash }

// SetRealizedPnL replaces the realized P&L accumulator. Used when restoring
// a persisted portfolio.
func (p *Portfolio) SetRealizedPnL(pnl decimal.Decimal) { p.realizedPnL = pnl }
