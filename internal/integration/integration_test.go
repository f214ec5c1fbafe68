// Package integration provides end-to-end tests for the simulator: config,
// session, trading, persistence and reporting wired together the way the
// CLI wires them.
package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"artha-sim/internal/config"
	"artha-sim/internal/marketdata"
	"artha-sim/internal/session"
	"artha-sim/internal/store"
	"artha-sim/internal/trading"
)

func newSimulation(t *testing.T, dbPath string) (*session.Session, store.Store) {
	t.Helper()

	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	sess := session.New(session.Config{
		InitialCapital: decimal.NewFromFloat(cfg.Simulation.InitialCapital),
		StartDate:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		TotalDays:      cfg.Simulation.TotalDays,
		Symbols:        cfg.Simulation.Symbols,
		Costs: trading.NewCostModelFromRates(
			cfg.Costs.BrokerageRate,
			cfg.Costs.BrokerageCap,
			cfg.Costs.STTRateSell,
			cfg.Costs.ExchangeRate,
			cfg.Costs.GSTRate,
			cfg.Costs.SEBIRate,
		),
	}, marketdata.NewSyntheticProvider().PriceFunc(), st, zerolog.Nop())

	return sess, st
}

// Drives a full simulated trading week end to end: defaults from config,
// synthetic prices, real costs, SQLite persistence, then a restart that
// must reproduce the same portfolio.
func TestSimulationEndToEnd(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "artha_e2e.db")

	sess, st := newSimulation(t, dbPath)

	if err := sess.Restore(ctx); err != nil {
		t.Fatalf("restore on fresh db: %v", err)
	}

	if result := sess.Buy(ctx, "RELIANCE", 100); !result.Success {
		t.Fatalf("buy RELIANCE: %s", result.Message)
	}
	if result := sess.Buy(ctx, "TCS", 50); !result.Success {
		t.Fatalf("buy TCS: %s", result.Message)
	}

	for i := 0; i < 3; i++ {
		if !sess.AdvanceDay() {
			t.Fatalf("unexpected horizon at day %d", sess.Day())
		}
	}

	if result := sess.Sell(ctx, "RELIANCE", 40); !result.Success {
		t.Fatalf("sell RELIANCE: %s", result.Message)
	}

	report := sess.Report()
	if !report.TotalValue.Equal(report.Cash.Add(report.MarketValue)) {
		t.Errorf("report identity broken: total=%s cash=%s market=%s",
			report.TotalValue, report.Cash, report.MarketValue)
	}
	for _, pos := range report.Positions {
		if pos.XIRR < -0.999 || pos.XIRR > 10 {
			t.Errorf("%s XIRR out of range: %f", pos.Symbol, pos.XIRR)
		}
	}

	lots := sess.LotReport()
	if len(lots) == 0 {
		t.Error("expected FIFO lots after a partial sell")
	}

	if err := sess.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	wantCash := sess.Portfolio().Cash()
	wantDay := sess.Day()
	wantRealized := sess.Portfolio().RealizedPnL()

	sess.Close()
	st.Close()

	// Restart against the same database.
	sess2, st2 := newSimulation(t, dbPath)
	defer sess2.Close()
	defer st2.Close()

	if err := sess2.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if sess2.Day() != wantDay {
		t.Errorf("day: got %d, want %d", sess2.Day(), wantDay)
	}
	if !sess2.Portfolio().Cash().Equal(wantCash) {
		t.Errorf("cash: got %s, want %s", sess2.Portfolio().Cash(), wantCash)
	}
	if !sess2.Portfolio().RealizedPnL().Equal(wantRealized) {
		t.Errorf("realized: got %s, want %s", sess2.Portfolio().RealizedPnL(), wantRealized)
	}

	rel := sess2.Portfolio().Position("RELIANCE")
	if rel == nil || rel.Quantity() != 60 {
		t.Fatalf("RELIANCE after restart: got %+v", rel)
	}

	// Trading continues seamlessly after the restart.
	if result := sess2.Sell(ctx, "RELIANCE", 60); !result.Success {
		t.Fatalf("sell after restart: %s", result.Message)
	}
	if sess2.Portfolio().Position("RELIANCE") != nil {
		t.Error("position should be closed after selling the rest")
	}
}

// A rejected trade mid-run must not corrupt persisted state.
func TestRejectionsAreNotPersisted(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "artha_rejects.db")

	sess, st := newSimulation(t, dbPath)
	defer sess.Close()
	defer st.Close()

	if result := sess.Buy(ctx, "INFY", 10); !result.Success {
		t.Fatalf("buy: %s", result.Message)
	}
	if result := sess.Sell(ctx, "INFY", 100); result.Success {
		t.Fatal("oversell should be rejected")
	}
	if result := sess.Buy(ctx, "", 10); result.Success {
		t.Fatal("empty symbol should be rejected")
	}

	records, err := st.Transactions(ctx)
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("journal rows: got %d, want 1", len(records))
	}
}
