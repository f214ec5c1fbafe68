package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"artha-sim/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "artha_test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTransactionJournalRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []models.TransactionRecord{
		{Symbol: "RELIANCE", Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Quantity: 10, Price: "2500.50", Side: "BUY", Commission: "3.9335"},
		{Symbol: "RELIANCE", Date: time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), Quantity: 4, Price: "2510", Side: "SELL", Commission: "13.92"},
		{Symbol: "TCS", Date: time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), Quantity: 5, Price: "3500", Side: "BUY", Commission: "0", Synthetic: true},
	}
	for _, r := range records {
		if err := s.SaveTransaction(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := s.Transactions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("count: got %d, want %d", len(got), len(records))
	}
	for i, r := range records {
		g := got[i]
		if g.Symbol != r.Symbol || g.Quantity != r.Quantity || g.Price != r.Price ||
			g.Side != r.Side || g.Commission != r.Commission || g.Synthetic != r.Synthetic {
			t.Errorf("record %d: got %+v, want %+v", i, g, r)
		}
		if !g.Date.Equal(r.Date) {
			t.Errorf("record %d date: got %v, want %v", i, g.Date, r.Date)
		}
	}
}

func TestMoneyStringsSurviveExactly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A value float64 cannot hold exactly.
	rec := models.TransactionRecord{
		Symbol: "INFY", Date: time.Now().UTC(), Quantity: 1,
		Price: "1234.56789012345678901234567890", Side: "BUY", Commission: "0.0000000001",
	}
	if err := s.SaveTransaction(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Transactions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got[0].Price != rec.Price || got[0].Commission != rec.Commission {
		t.Errorf("money strings changed: got %s / %s", got[0].Price, got[0].Commission)
	}
}

func TestPortfolioHeaderIsSingleRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SavePortfolio(ctx, models.PortfolioRecord{Cash: "1000000", RealizedPnL: "0", Day: 0, SavedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.SavePortfolio(ctx, models.PortfolioRecord{Cash: "987654.3210", RealizedPnL: "-123.45", Day: 7, SavedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.LoadPortfolio(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected a header row")
	}
	if got.Cash != "987654.3210" || got.RealizedPnL != "-123.45" || got.Day != 7 {
		t.Errorf("header: got %+v", got)
	}
}

func TestLoadPortfolioEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LoadPortfolio(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Errorf("fresh database should have no header, got %+v", got)
	}
}

func TestLegacyPositionsReadable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Simulate a row left behind by the pre-ledger schema.
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO legacy_positions (symbol, quantity, avg_price) VALUES (?, ?, ?)`,
		"HDFCBANK", 25, "1580.25"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := s.LegacyPositions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "HDFCBANK" || got[0].Quantity != 25 || got[0].AvgPrice != "1580.25" {
		t.Errorf("legacy rows: got %+v", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveTransaction(ctx, models.TransactionRecord{Symbol: "SBIN", Date: time.Now().UTC(), Quantity: 1, Price: "600", Side: "BUY", Commission: "0"})
	s.SavePortfolio(ctx, models.PortfolioRecord{Cash: "1", RealizedPnL: "0", SavedAt: time.Now().UTC()})

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	txs, err := s.Transactions(ctx)
	if err != nil {
		t.Fatalf("load transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("transactions after reset: got %d", len(txs))
	}
	header, err := s.LoadPortfolio(ctx)
	if err != nil {
		t.Fatalf("load portfolio: %v", err)
	}
	if header != nil {
		t.Errorf("header after reset: got %+v", header)
	}
}
