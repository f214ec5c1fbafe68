package trading

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"artha-sim/internal/models"
)

var testDay = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLedgerAverageBuyPrice(t *testing.T) {
	l := NewLedger("RELIANCE", d("100"))
	l.Append(models.NewTransaction(testDay, 100, d("100"), models.OrderSideBuy))
	l.Append(models.NewTransaction(testDay.AddDate(0, 0, 1), 50, d("120"), models.OrderSideBuy))

	if l.Quantity() != 150 {
		t.Fatalf("quantity: got %d, want 150", l.Quantity())
	}
	// (100x100 + 50x120) / 150
	want := d("16000").Div(d("150"))
	if !l.AvgBuyPrice().Equal(want) {
		t.Errorf("avg buy price: got %s, want %s", l.AvgBuyPrice(), want)
	}
}

func TestLedgerCostBasisIncludesCommission(t *testing.T) {
	l := NewLedger("TCS", d("3500"))
	l.Append(models.NewTransactionWithCommission(testDay, 100, d("100"), models.OrderSideBuy, d("10")))

	if !l.CostBasis().Equal(d("10010")) {
		t.Errorf("cost basis: got %s, want 10010", l.CostBasis())
	}
	if !l.AvgBuyPrice().Equal(d("100.1")) {
		t.Errorf("avg buy price: got %s, want 100.1", l.AvgBuyPrice())
	}
}

func TestLedgerSellsReduceQuantityNotAverage(t *testing.T) {
	l := NewLedger("INFY", d("1500"))
	l.Append(models.NewTransaction(testDay, 100, d("100"), models.OrderSideBuy))
	l.Append(models.NewTransaction(testDay.AddDate(0, 0, 2), 40, d("110"), models.OrderSideSell))

	if l.Quantity() != 60 {
		t.Fatalf("quantity: got %d, want 60", l.Quantity())
	}
	// Average buy price is computed over buys only; sells never move it.
	if !l.AvgBuyPrice().Equal(d("100")) {
		t.Errorf("avg buy price after sell: got %s, want 100", l.AvgBuyPrice())
	}
	if !l.CostBasis().Equal(d("10000")) {
		t.Errorf("cost basis after sell: got %s, want 10000", l.CostBasis())
	}
}

func TestLedgerUnrealizedPnLProportionalBasis(t *testing.T) {
	l := NewLedger("SBIN", d("100"))
	l.Append(models.NewTransaction(testDay, 100, d("100"), models.OrderSideBuy))
	l.Append(models.NewTransaction(testDay.AddDate(0, 0, 1), 50, d("105"), models.OrderSideSell))
	l.SetCurrentPrice(d("110"))

	// Remaining 50 shares carry half the 10,000 basis.
	want := d("110").Mul(d("50")).Sub(d("5000"))
	if !l.UnrealizedPnL().Equal(want) {
		t.Errorf("unrealized pnl: got %s, want %s", l.UnrealizedPnL(), want)
	}
}

func TestLedgerFlatPositionHasZeroUnrealized(t *testing.T) {
	l := NewLedger("ITC", d("400"))
	l.Append(models.NewTransaction(testDay, 10, d("400"), models.OrderSideBuy))
	l.Append(models.NewTransaction(testDay.AddDate(0, 0, 1), 10, d("450"), models.OrderSideSell))

	if l.Quantity() != 0 {
		t.Fatalf("quantity: got %d, want 0", l.Quantity())
	}
	if !l.UnrealizedPnL().IsZero() {
		t.Errorf("flat position unrealized pnl: got %s, want 0", l.UnrealizedPnL())
	}
	if !l.MarketValue().IsZero() {
		t.Errorf("flat position market value: got %s, want 0", l.MarketValue())
	}
}

func TestLedgerFromLegacyPosition(t *testing.T) {
	l := NewLedgerFromLegacy("HDFC", 25, d("1600"), testDay)

	if l.Quantity() != 25 {
		t.Fatalf("quantity: got %d, want 25", l.Quantity())
	}
	if !l.AvgBuyPrice().Equal(d("1600")) {
		t.Errorf("avg buy price: got %s, want 1600", l.AvgBuyPrice())
	}
	if !l.HasSyntheticLot() {
		t.Error("legacy migration should leave a synthetic opening lot")
	}
	txs := l.Transactions()
	if len(txs) != 1 || !txs[0].IsBuy() || !txs[0].Synthetic {
		t.Errorf("expected a single synthetic opening BUY, got %+v", txs)
	}
}

func TestLedgerTransactionsIsACopy(t *testing.T) {
	l := NewLedger("LT", d("3000"))
	l.Append(models.NewTransaction(testDay, 5, d("3000"), models.OrderSideBuy))

	txs := l.Transactions()
	txs[0].Quantity = 999

	if l.Transactions()[0].Quantity != 5 {
		t.Error("mutating the returned slice must not affect the ledger")
	}
}

func TestAdoptLedgerRejectsNonPositiveQuantity(t *testing.T) {
	p := NewPortfolio(d("100000"))

	// A journal truncated to the sell side alone nets out negative; the
	// portfolio must not turn it into an open position.
	sellOnly := NewLedgerFromTransactions("HDFC", d("1600"), []models.Transaction{
		models.NewTransaction(testDay, 10, d("1600"), models.OrderSideSell),
	})
	p.AdoptLedger(sellOnly)
	if p.Position("HDFC") != nil {
		t.Error("negative-quantity ledger must not be adopted")
	}

	flat := NewLedgerFromTransactions("TCS", d("3500"), []models.Transaction{
		models.NewTransaction(testDay, 10, d("3500"), models.OrderSideBuy),
		models.NewTransaction(testDay.AddDate(0, 0, 1), 10, d("3600"), models.OrderSideSell),
	})
	p.AdoptLedger(flat)
	if p.Position("TCS") != nil {
		t.Error("flat ledger must not be adopted")
	}
}
