package trading

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "artha-sim/internal/errors"
	"artha-sim/internal/models"
)

// Order sanity ceilings. Orders beyond these are treated as input mistakes,
// not as large trades.
const (
	MaxOrderQuantity = 10000
	MaxOrderPrice    = 100000
)

// TradeExecutor validates orders, prices them through the cost model, and
// applies them to a portfolio. It holds no per-portfolio state: the same
// executor can serve any number of portfolios as long as each portfolio is
// accessed from one goroutine at a time.
//
// Every failure is returned inside the TradeResult. A failed call leaves the
// portfolio byte-for-byte unchanged: all checks run before the first
// mutation.
type TradeExecutor struct {
	costs  CostModel
	logger zerolog.Logger
}

// NewTradeExecutor creates an executor using the given cost model.
func NewTradeExecutor(costs CostModel, logger zerolog.Logger) *TradeExecutor {
	return &TradeExecutor{costs: costs, logger: logger}
}

// Costs returns the executor's cost model, for charge previews.
func (e *TradeExecutor) Costs() CostModel {
	return e.costs
}

// Validate checks order inputs without touching any state. Both Buy and
// Sell call it before anything else.
func (e *TradeExecutor) Validate(symbol string, quantity int, price decimal.Decimal) error {
	if symbol == "" {
		return apperrors.NewValidationError("symbol", symbol, "symbol cannot be empty")
	}
	if quantity <= 0 {
		return apperrors.NewValidationError("quantity", quantity, "quantity must be positive")
	}
	if quantity > MaxOrderQuantity {
		return apperrors.NewValidationError("quantity", quantity, fmt.Sprintf("quantity too large (max %d)", MaxOrderQuantity))
	}
	if !price.IsPositive() {
		return apperrors.NewValidationError("price", price.String(), "price must be positive")
	}
	if price.GreaterThan(decimal.NewFromInt(MaxOrderPrice)) {
		return apperrors.NewValidationError("price", price.String(), fmt.Sprintf("price unrealistic (max %d)", MaxOrderPrice))
	}
	return nil
}

// Buy executes a buy order against the portfolio: cash goes down by the
// notional plus all charges, and a BUY transaction carrying the charges as
// its commission is appended to the symbol's ledger (created on first buy).
func (e *TradeExecutor) Buy(p *Portfolio, symbol string, quantity int, price decimal.Decimal, date time.Time) models.TradeResult {
	if err := e.Validate(symbol, quantity, price); err != nil {
		return models.Failure(err.Error())
	}
	if date.IsZero() {
		date = time.Now()
	}

	tradeValue := price.Mul(decimal.NewFromInt(int64(quantity)))
	breakdown := e.costs.Cost(tradeValue, models.OrderSideBuy)
	totalCost := tradeValue.Add(breakdown.Total)

	if p.Cash().LessThan(totalCost) {
		shortfall := totalCost.Sub(p.Cash())
		return models.Failure(fmt.Sprintf(
			"insufficient funds: need %s, have %s (short %s)",
			totalCost.StringFixed(2), p.Cash().StringFixed(2), shortfall.StringFixed(2)))
	}

	p.cash = p.cash.Sub(totalCost)

	ledger := p.ledger(symbol, price)
	ledger.Append(models.NewTransactionWithCommission(date, quantity, price, models.OrderSideBuy, breakdown.Total))
	ledger.SetCurrentPrice(price)

	e.logger.Info().
		Str("event", "trade").
		Str("symbol", symbol).
		Str("side", string(models.OrderSideBuy)).
		Int("quantity", quantity).
		Str("price", price.StringFixed(2)).
		Str("total_cost", totalCost.StringFixed(2)).
		Str("commission", breakdown.Total.StringFixed(2)).
		Msg("Buy executed")

	return models.TradeResult{
		Success:       true,
		Message:       fmt.Sprintf("bought %d %s @ %s", quantity, symbol, price.StringFixed(2)),
		Symbol:        symbol,
		Side:          models.OrderSideBuy,
		ExecutedPrice: price,
		Quantity:      quantity,
		TotalCost:     totalCost,
		Commission:    breakdown.Total,
		Breakdown:     breakdown,
	}
}

// Sell executes a sell order: cash goes up by the notional minus charges,
// a SELL transaction is appended, and the portfolio's realized P&L moves by
// the average-cost delta
//
//	proceeds - charges - avgBuyPrice x quantity
//
// where the average buy price includes buy-side commissions. The FIFO lot
// report offers the alternative per-lot attribution of the same sells.
func (e *TradeExecutor) Sell(p *Portfolio, symbol string, quantity int, price decimal.Decimal, date time.Time) models.TradeResult {
	if err := e.Validate(symbol, quantity, price); err != nil {
		return models.Failure(err.Error())
	}
	if date.IsZero() {
		date = time.Now()
	}

	ledger := p.Position(symbol)
	if ledger == nil {
		return models.Failure(fmt.Sprintf("no position in %s", symbol))
	}
	if quantity > ledger.Quantity() {
		return models.Failure(fmt.Sprintf(
			"insufficient quantity: have %d, trying to sell %d", ledger.Quantity(), quantity))
	}

	tradeValue := price.Mul(decimal.NewFromInt(int64(quantity)))
	breakdown := e.costs.Cost(tradeValue, models.OrderSideSell)
	netProceeds := tradeValue.Sub(breakdown.Total)

	costBasisSold := ledger.AvgBuyPrice().Mul(decimal.NewFromInt(int64(quantity)))
	realizedDelta := netProceeds.Sub(costBasisSold)

	ledger.Append(models.NewTransactionWithCommission(date, quantity, price, models.OrderSideSell, breakdown.Total))
	ledger.SetCurrentPrice(price)

	p.cash = p.cash.Add(netProceeds)
	p.realizedPnL = p.realizedPnL.Add(realizedDelta)
	p.removeIfFlat(symbol)

	e.logger.Info().
		Str("event", "trade").
		Str("symbol", symbol).
		Str("side", string(models.OrderSideSell)).
		Int("quantity", quantity).
		Str("price", price.StringFixed(2)).
		Str("net_proceeds", netProceeds.StringFixed(2)).
		Str("commission", breakdown.Total.StringFixed(2)).
		Str("realized_pnl", realizedDelta.StringFixed(2)).
		Msg("Sell executed")

	return models.TradeResult{
		Success:       true,
		Message:       fmt.Sprintf("sold %d %s @ %s", quantity, symbol, price.StringFixed(2)),
		Symbol:        symbol,
		Side:          models.OrderSideSell,
		ExecutedPrice: price,
		Quantity:      quantity,
		NetProceeds:   netProceeds,
		Commission:    breakdown.Total,
		Breakdown:     breakdown,
		RealizedPnL:   realizedDelta,
	}
}
