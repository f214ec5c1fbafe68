// Package returns computes money-weighted annualized returns (XIRR) for
// irregular, dated cash-flow series.
package returns

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "artha-sim/internal/errors"
	"artha-sim/internal/trading"
)

// CashFlow pairs a date with a signed amount. Negative is an outflow (a
// buy), positive an inflow (a sell, or the terminal valuation of shares
// still held).
type CashFlow struct {
	Date   time.Time
	Amount float64
}

const (
	daysPerYear = 365.25

	maxIterations = 100
	newtonTol     = 1e-4
	fallbackTol   = 1e-3 // relaxed when the primary guess fails

	// MinRate caps losses at -99.9% to stay away from the (1+r) -> 0
	// singularity. MaxRate rejects absurd roots the solver sometimes
	// lands on with pathological flow series.
	MinRate = -0.999
	MaxRate = 10.0
)

// fallbackGuesses spans near-total-loss to 800% annual gain. The list is
// fixed and tried in order, so a failing primary guess still yields a
// deterministic result.
var fallbackGuesses = []float64{
	-0.995, -0.9, -0.75, -0.5, -0.25, -0.1,
	0.0, 0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.5,
	1.0, 2.0, 4.0, 8.0,
}

// Engine solves for annualized rates. It has no side effects beyond
// logging; it reads ledger-derived data and never touches a portfolio.
type Engine struct {
	logger zerolog.Logger
}

// NewEngine creates a returns engine.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger}
}

// XIRR solves for the rate r that zeroes
//
//	f(r) = sum_i amount_i / (1+r)^(days_i/365.25)
//
// using Newton-Raphson from guess, falling back to a fixed ordered list of
// guesses when that fails. Returns ErrNoConvergence when no guess produces
// a root within tolerance, and when the flows span fewer than two distinct
// dates (a same-day series has no defined rate).
func (e *Engine) XIRR(flows []CashFlow, guess float64) (float64, error) {
	if len(flows) < 2 {
		return 0, apperrors.ErrNoConvergence
	}

	sorted := make([]CashFlow, len(flows))
	copy(sorted, flows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	start := dateOnly(sorted[0].Date)
	days := make([]float64, len(sorted))
	amounts := make([]float64, len(sorted))
	distinct := false
	for i, cf := range sorted {
		days[i] = dateOnly(cf.Date).Sub(start).Hours() / 24
		amounts[i] = cf.Amount
		if days[i] != 0 {
			distinct = true
		}
	}
	if !distinct {
		return 0, apperrors.ErrNoConvergence
	}

	f := func(rate float64) float64 {
		sum := 0.0
		for i := range days {
			sum += amounts[i] / math.Pow(1+rate, days[i]/daysPerYear)
		}
		return sum
	}
	fprime := func(rate float64) float64 {
		sum := 0.0
		for i := range days {
			sum += -days[i] * amounts[i] / (daysPerYear * math.Pow(1+rate, days[i]/daysPerYear+1))
		}
		return sum
	}

	if root, ok := newton(f, fprime, guess); ok && math.Abs(f(root)) < newtonTol && root >= MinRate && root <= MaxRate {
		return clamp(root), nil
	}

	for _, g := range fallbackGuesses {
		root, ok := newton(f, fprime, g)
		if ok && math.Abs(f(root)) < fallbackTol && root >= MinRate && root <= MaxRate {
			return clamp(root), nil
		}
	}

	return 0, apperrors.ErrNoConvergence
}

// PositionXIRR builds the signed cash-flow series for a ledger (buys
// negative, sells positive, commission-exclusive notionals) plus one
// terminal flow valuing the remaining shares at the current price, and
// solves it. Non-convergence is surfaced as 0 rather than an error: this is
// a reporting figure, and callers label it as indeterminate, not as a true
// zero return.
func (e *Engine) PositionXIRR(ledger *trading.Ledger, asOf time.Time) float64 {
	txs := ledger.Transactions()
	if len(txs) == 0 {
		return 0
	}

	flows := make([]CashFlow, 0, len(txs)+1)
	for _, tx := range txs {
		amount := tx.Value().InexactFloat64()
		if tx.IsBuy() {
			amount = -amount
		}
		flows = append(flows, CashFlow{Date: tx.Date, Amount: amount})
	}

	terminal := ledger.CurrentPrice().
		Mul(decimal.NewFromInt(int64(ledger.Quantity()))).
		InexactFloat64()
	flows = append(flows, CashFlow{Date: asOf, Amount: terminal})

	rate, err := e.XIRR(flows, 0.1)
	if err != nil {
		e.logger.Warn().
			Str("symbol", ledger.Symbol()).
			Int("flows", len(flows)).
			Msg("XIRR did not converge, reporting 0")
		return 0
	}
	if ledger.HasSyntheticLot() {
		e.logger.Debug().
			Str("symbol", ledger.Symbol()).
			Msg("XIRR computed over a synthetic opening lot, treat as approximate")
	}
	return rate
}

// newton runs a bounded Newton-Raphson iteration. It reports failure when
// the derivative vanishes, the iterate leaves the (1+r) > 0 domain, or the
// iterate degenerates to NaN/Inf. Exhausting the iteration budget returns
// the last iterate as a success; the caller's residual check decides
// whether to keep it.
func newton(f, fprime func(float64) float64, guess float64) (float64, bool) {
	rate := guess
	for i := 0; i < maxIterations; i++ {
		if 1+rate <= 0 {
			return 0, false
		}
		derivative := fprime(rate)
		if math.Abs(derivative) < 1e-12 {
			return 0, false
		}
		step := f(rate) / derivative
		rate -= step
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return 0, false
		}
		if math.Abs(step) < 1e-9 {
			return rate, true
		}
	}
	return rate, true
}

func clamp(rate float64) float64 {
	if rate < MinRate {
		return MinRate
	}
	return rate
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
