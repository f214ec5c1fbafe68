// Package marketdata supplies daily prices to the simulation. The
// accounting core never reaches into a price cache itself; it only ever
// receives prices as plain arguments, and this package is the collaborator
// that produces them.
package marketdata

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// PriceFunc is the only market-data surface the core consumes: a price for
// a symbol on a given simulated day (day 0 is the first day).
type PriceFunc func(symbol string, day int) float64

// Base prices for the common NSE symbols the simulator ships with; unknown
// symbols start at 1000.
var basePrices = map[string]float64{
	"RELIANCE":   2500.0,
	"TCS":        3500.0,
	"INFY":       1500.0,
	"HDFCBANK":   1600.0,
	"ICICIBANK":  950.0,
	"HINDUNILVR": 2400.0,
	"ITC":        450.0,
	"SBIN":       600.0,
	"BHARTIARTL": 900.0,
	"BAJFINANCE": 7000.0,
}

const defaultBasePrice = 1000.0

// SyntheticProvider generates a deterministic random-walk price history per
// symbol: 0.1% daily drift, 2% daily volatility, seeded from the symbol name
// so the same symbol always gets the same series.
type SyntheticProvider struct {
	drift      float64
	volatility float64
	series     map[string][]float64
}

// NewSyntheticProvider creates a provider with the default drift and
// volatility.
func NewSyntheticProvider() *SyntheticProvider {
	return &SyntheticProvider{
		drift:      0.001,
		volatility: 0.02,
		series:     make(map[string][]float64),
	}
}

// Price returns the closing price for symbol on the given day, generating
// and caching the series on first use. Days before 0 are treated as day 0.
func (p *SyntheticProvider) Price(symbol string, day int) float64 {
	if day < 0 {
		day = 0
	}
	series := p.series[symbol]
	if day >= len(series) {
		series = p.extend(symbol, day+1)
		p.series[symbol] = series
	}
	return series[day]
}

// PriceFunc adapts the provider to the function type the session consumes.
func (p *SyntheticProvider) PriceFunc() PriceFunc {
	return p.Price
}

// extend regenerates the walk from day 0. The generator is seeded from the
// symbol, so extending a series never changes already-served prices.
func (p *SyntheticProvider) extend(symbol string, n int) []float64 {
	rng := rand.New(rand.NewSource(symbolSeed(symbol)))

	base, ok := basePrices[symbol]
	if !ok {
		base = defaultBasePrice
	}

	// Day 0 is the base price; the walk starts on day 1.
	out := make([]float64, 0, n)
	out = append(out, base)
	price := base
	for day := 1; day < n; day++ {
		ret := rng.NormFloat64()*p.volatility + p.drift
		price *= 1 + ret
		if price < 1 {
			price = 1
		}
		out = append(out, math.Round(price*100)/100)
	}
	return out
}

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}
