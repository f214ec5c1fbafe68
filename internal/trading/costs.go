// Package trading implements the accounting core of the simulator: the
// transaction cost model, per-symbol ledgers, the portfolio, and the trade
// executor that ties them together.
package trading

import (
	"github.com/shopspring/decimal"

	"artha-sim/internal/models"
)

// CostModel computes the per-trade charge breakdown for Indian delivery
// equity trades. It is pure arithmetic: no state, no errors. Amounts stay
// unrounded internally so a long sequence of trades does not drift; rounding
// to paise happens only at display time via CostBreakdown.Rounded.
type CostModel struct {
	BrokerageRate decimal.Decimal
	BrokerageCap  decimal.Decimal
	STTRateSell   decimal.Decimal // no STT on the buy leg of delivery trades
	ExchangeRate  decimal.Decimal
	GSTRate       decimal.Decimal // on brokerage + exchange charges, not notional
	SEBIRate      decimal.Decimal
}

// NewCostModel returns a cost model with the standard NSE delivery rates:
// brokerage 0.03% capped at Rs 20, STT 0.1% on sells, exchange charges
// 0.00325%, GST 18% on fees, SEBI fee Rs 10 per crore.
func NewCostModel() CostModel {
	return CostModel{
		BrokerageRate: decimal.NewFromFloat(0.0003),
		BrokerageCap:  decimal.NewFromInt(20),
		STTRateSell:   decimal.NewFromFloat(0.001),
		ExchangeRate:  decimal.NewFromFloat(0.0000325),
		GSTRate:       decimal.NewFromFloat(0.18),
		SEBIRate:      decimal.NewFromFloat(0.000001),
	}
}

// NewCostModelFromRates builds a cost model from configured rates, for
// callers that load charges from configuration instead of the defaults.
func NewCostModelFromRates(brokerageRate, brokerageCap, sttSell, exchange, gst, sebi float64) CostModel {
	return CostModel{
		BrokerageRate: decimal.NewFromFloat(brokerageRate),
		BrokerageCap:  decimal.NewFromFloat(brokerageCap),
		STTRateSell:   decimal.NewFromFloat(sttSell),
		ExchangeRate:  decimal.NewFromFloat(exchange),
		GSTRate:       decimal.NewFromFloat(gst),
		SEBIRate:      decimal.NewFromFloat(sebi),
	}
}

// Cost computes the full charge breakdown for a trade of the given notional
// value. The sell leg additionally attracts STT, which is what makes a
// round trip at the same price a guaranteed loss.
func (m CostModel) Cost(tradeValue decimal.Decimal, side models.OrderSide) models.CostBreakdown {
	brokerage := tradeValue.Mul(m.BrokerageRate)
	if brokerage.GreaterThan(m.BrokerageCap) {
		brokerage = m.BrokerageCap
	}

	stt := decimal.Zero
	if side == models.OrderSideSell {
		stt = tradeValue.Mul(m.STTRateSell)
	}

	exchange := tradeValue.Mul(m.ExchangeRate)
	gst := brokerage.Add(exchange).Mul(m.GSTRate)
	sebi := tradeValue.Mul(m.SEBIRate)

	return models.CostBreakdown{
		Brokerage:       brokerage,
		STT:             stt,
		ExchangeCharges: exchange,
		GST:             gst,
		SEBICharges:     sebi,
		Total:           brokerage.Add(stt).Add(exchange).Add(gst).Add(sebi),
	}
}
