// Package session drives a simulation run: one portfolio, one calendar, one
// trade at a time. It is the single owner of the portfolio; everything the
// accounting core needs (prices, persistence) is supplied from here.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"artha-sim/internal/marketdata"
	"artha-sim/internal/models"
	"artha-sim/internal/performance"
	"artha-sim/internal/returns"
	"artha-sim/internal/store"
	"artha-sim/internal/trading"
)

// Config holds the simulation parameters.
type Config struct {
	InitialCapital decimal.Decimal
	StartDate      time.Time
	TotalDays      int
	Symbols        []string

	// Costs overrides the default cost model when non-zero.
	Costs trading.CostModel
}

// Session holds the live state of one simulation. Trades execute
// sequentially; the worker pool is used only for read-only valuation
// fan-out, never for mutation.
type Session struct {
	cfg      Config
	prices   marketdata.PriceFunc
	executor *trading.TradeExecutor
	engine   *returns.Engine
	pool     *performance.WorkerPool
	store    store.Store // may be nil
	logger   zerolog.Logger

	portfolio *trading.Portfolio
	day       int
}

// New creates a session with a fresh portfolio. store may be nil when the
// run should not be persisted.
func New(cfg Config, prices marketdata.PriceFunc, st store.Store, logger zerolog.Logger) *Session {
	pool := performance.NewWorkerPool(0)
	pool.Start()

	costs := cfg.Costs
	if costs.BrokerageRate.IsZero() && costs.STTRateSell.IsZero() {
		costs = trading.NewCostModel()
	}

	return &Session{
		cfg:       cfg,
		prices:    prices,
		executor:  trading.NewTradeExecutor(costs, logger),
		engine:    returns.NewEngine(logger),
		pool:      pool,
		store:     st,
		logger:    logger,
		portfolio: trading.NewPortfolio(cfg.InitialCapital),
	}
}

// Close releases the valuation workers.
func (s *Session) Close() {
	s.pool.Stop()
}

// Portfolio exposes the session's portfolio for read access.
func (s *Session) Portfolio() *trading.Portfolio { return s.portfolio }

// Day returns the current simulated day, starting at 0.
func (s *Session) Day() int { return s.day }

// Date returns the calendar date of the current simulated day.
func (s *Session) Date() time.Time {
	return s.cfg.StartDate.AddDate(0, 0, s.day)
}

// CurrentPrice returns today's price for a symbol.
func (s *Session) CurrentPrice(symbol string) decimal.Decimal {
	return decimal.NewFromFloat(s.prices(symbol, s.day))
}

// PreviewCost returns the charge breakdown a trade would attract at today's
// price, without executing anything.
func (s *Session) PreviewCost(symbol string, quantity int, side models.OrderSide) models.CostBreakdown {
	value := s.CurrentPrice(symbol).Mul(decimal.NewFromInt(int64(quantity)))
	return s.executor.Costs().Cost(value, side)
}

// AdvanceDay moves the simulation forward one day and reprices every open
// position. Returns false once the configured horizon is exhausted.
func (s *Session) AdvanceDay() bool {
	if s.cfg.TotalDays > 0 && s.day >= s.cfg.TotalDays-1 {
		return false
	}
	s.day++
	for _, ledger := range s.portfolio.Positions() {
		ledger.SetCurrentPrice(s.CurrentPrice(ledger.Symbol()))
	}
	s.logger.Debug().Int("day", s.day).Msg("Advanced simulation day")
	return true
}

// Buy executes a buy at today's price and persists the transaction when a
// store is attached.
func (s *Session) Buy(ctx context.Context, symbol string, quantity int) models.TradeResult {
	price := s.CurrentPrice(symbol)
	result := s.executor.Buy(s.portfolio, symbol, quantity, price, s.Date())
	s.persistTrade(ctx, result)
	return result
}

// Sell executes a sell at today's price and persists the transaction when a
// store is attached.
func (s *Session) Sell(ctx context.Context, symbol string, quantity int) models.TradeResult {
	price := s.CurrentPrice(symbol)
	result := s.executor.Sell(s.portfolio, symbol, quantity, price, s.Date())
	s.persistTrade(ctx, result)
	return result
}

func (s *Session) persistTrade(ctx context.Context, result models.TradeResult) {
	if s.store == nil || !result.Success {
		return
	}
	record := models.TransactionRecord{
		Symbol:     result.Symbol,
		Date:       s.Date(),
		Quantity:   result.Quantity,
		Price:      result.ExecutedPrice.String(),
		Side:       string(result.Side),
		Commission: result.Commission.String(),
	}
	if err := s.store.SaveTransaction(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("symbol", result.Symbol).Msg("Failed to persist transaction")
	}
}

// PositionReport is the per-symbol view rendered by the UI layer. The two
// realized-P&L conventions are reported under separate names and never
// merged.
type PositionReport struct {
	Symbol           string
	Quantity         int
	AvgBuyPrice      decimal.Decimal
	CurrentPrice     decimal.Decimal
	CostBasis        decimal.Decimal
	MarketValue      decimal.Decimal
	UnrealizedPnL    decimal.Decimal
	UnrealizedPnLPct decimal.Decimal
	XIRR             float64
	Synthetic        bool
	FIFORealizedPnL  decimal.Decimal
}

// PortfolioReport is the aggregate view of the whole simulation.
type PortfolioReport struct {
	Day                    int
	Date                   time.Time
	Cash                   decimal.Decimal
	MarketValue            decimal.Decimal
	TotalValue             decimal.Decimal
	InvestedAmount         decimal.Decimal
	AverageCostRealizedPnL decimal.Decimal
	UnrealizedPnL          decimal.Decimal
	TotalPnL               decimal.Decimal
	Positions              []PositionReport
}

// Report values every open position, computing per-symbol XIRR on the
// worker pool. The ledgers are not mutated while the report runs; the
// session serializes trades against reporting.
func (s *Session) Report() PortfolioReport {
	ledgers := s.portfolio.Positions()
	positions := make([]PositionReport, len(ledgers))
	asOf := s.Date()

	var wg sync.WaitGroup
	for i, ledger := range ledgers {
		i, ledger := i, ledger
		fifoTotal := decimal.Zero
		for _, match := range trading.FIFORealized(ledger) {
			fifoTotal = fifoTotal.Add(match.PnL)
		}
		positions[i] = PositionReport{
			Symbol:           ledger.Symbol(),
			Quantity:         ledger.Quantity(),
			AvgBuyPrice:      ledger.AvgBuyPrice(),
			CurrentPrice:     ledger.CurrentPrice(),
			CostBasis:        ledger.CostBasis(),
			MarketValue:      ledger.MarketValue(),
			UnrealizedPnL:    ledger.UnrealizedPnL(),
			UnrealizedPnLPct: ledger.UnrealizedPnLPct(),
			Synthetic:        ledger.HasSyntheticLot(),
			FIFORealizedPnL:  fifoTotal,
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			positions[i].XIRR = s.engine.PositionXIRR(ledger, asOf)
		}
		if !s.pool.Submit(task) {
			task()
		}
	}
	wg.Wait()

	return PortfolioReport{
		Day:                    s.day,
		Date:                   asOf,
		Cash:                   s.portfolio.Cash(),
		MarketValue:            s.portfolio.MarketValue(),
		TotalValue:             s.portfolio.TotalValue(),
		InvestedAmount:         s.portfolio.InvestedAmount(),
		AverageCostRealizedPnL: s.portfolio.RealizedPnL(),
		UnrealizedPnL:          s.portfolio.UnrealizedPnL(),
		TotalPnL:               s.portfolio.TotalPnL(),
		Positions:              positions,
	}
}

// LotReport returns the FIFO lot-level realized P&L rows for every open
// position, for CSV export.
func (s *Session) LotReport() []models.LotMatchRecord {
	var records []models.LotMatchRecord
	for _, ledger := range s.portfolio.Positions() {
		records = append(records, trading.LotMatchRecords(ledger)...)
	}
	return records
}

// Save persists the portfolio header. Individual transactions are persisted
// as they execute.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.SavePortfolio(ctx, models.PortfolioRecord{
		Cash:        s.portfolio.Cash().String(),
		RealizedPnL: s.portfolio.RealizedPnL().String(),
		Day:         s.day,
		SavedAt:     time.Now(),
	})
}

// Restore rebuilds session state from the store: the portfolio header, the
// transaction ledgers, and any legacy aggregate positions left over from the
// pre-ledger schema. Legacy rows become single synthetic opening lots dated
// today, which makes their elapsed-time return figures approximate.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	header, err := s.store.LoadPortfolio(ctx)
	if err != nil {
		return err
	}
	if header != nil {
		cash, err := decimal.NewFromString(header.Cash)
		if err != nil {
			return err
		}
		pnl, err := decimal.NewFromString(header.RealizedPnL)
		if err != nil {
			return err
		}
		s.portfolio.SetCash(cash)
		s.portfolio.SetRealizedPnL(pnl)
		s.day = header.Day
	}

	records, err := s.store.Transactions(ctx)
	if err != nil {
		return err
	}
	bySymbol := make(map[string][]models.Transaction)
	order := make([]string, 0)
	for _, r := range records {
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return err
		}
		commission, err := decimal.NewFromString(r.Commission)
		if err != nil {
			return err
		}
		tx := models.NewTransactionWithCommission(r.Date, r.Quantity, price, models.OrderSide(r.Side), commission)
		tx.Synthetic = r.Synthetic
		if _, ok := bySymbol[r.Symbol]; !ok {
			order = append(order, r.Symbol)
		}
		bySymbol[r.Symbol] = append(bySymbol[r.Symbol], tx)
	}
	for _, symbol := range order {
		ledger := trading.NewLedgerFromTransactions(symbol, s.CurrentPrice(symbol), bySymbol[symbol])
		s.portfolio.AdoptLedger(ledger)
	}

	legacy, err := s.store.LegacyPositions(ctx)
	if err != nil {
		return err
	}
	for _, rec := range legacy {
		if _, ok := bySymbol[rec.Symbol]; ok {
			continue // already migrated to the ledger model
		}
		avgPrice, err := decimal.NewFromString(rec.AvgPrice)
		if err != nil {
			return err
		}
		ledger := trading.NewLedgerFromLegacy(rec.Symbol, rec.Quantity, avgPrice, s.Date())
		ledger.SetCurrentPrice(s.CurrentPrice(rec.Symbol))
		// The opening lot goes into the journal immediately; later
		// restores rebuild this symbol from the journal and skip the
		// legacy row, so the migration must not live only in memory.
		record := models.TransactionRecord{
			Symbol:     rec.Symbol,
			Date:       s.Date(),
			Quantity:   rec.Quantity,
			Price:      avgPrice.String(),
			Side:       string(models.OrderSideBuy),
			Commission: decimal.Zero.String(),
			Synthetic:  true,
		}
		if err := s.store.SaveTransaction(ctx, record); err != nil {
			return err
		}
		s.portfolio.AdoptLedger(ledger)
		s.logger.Warn().
			Str("symbol", rec.Symbol).
			Msg("Migrated legacy aggregate position as a synthetic opening lot")
	}

	return nil
}
