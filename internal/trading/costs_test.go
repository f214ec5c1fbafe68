package trading

import (
	"testing"

	"github.com/shopspring/decimal"

	"artha-sim/internal/models"
)

func TestCostModelBuyBreakdown(t *testing.T) {
	m := NewCostModel()
	value := decimal.NewFromInt(10000)

	b := m.Cost(value, models.OrderSideBuy)

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"brokerage", b.Brokerage, "3"},
		{"stt", b.STT, "0"},
		{"exchange", b.ExchangeCharges, "0.325"},
		{"gst", b.GST, "0.5985"},
		{"sebi", b.SEBICharges, "0.01"},
		{"total", b.Total, "3.9335"},
	}
	for _, c := range checks {
		want := decimal.RequireFromString(c.want)
		if !c.got.Equal(want) {
			t.Errorf("%s: got %s, want %s", c.name, c.got, want)
		}
	}
}

func TestCostModelSellAddsSTT(t *testing.T) {
	m := NewCostModel()
	value := decimal.NewFromInt(10000)

	buy := m.Cost(value, models.OrderSideBuy)
	sell := m.Cost(value, models.OrderSideSell)

	wantSTT := decimal.NewFromInt(10) // 0.1% of 10,000
	if !sell.STT.Equal(wantSTT) {
		t.Errorf("sell STT: got %s, want %s", sell.STT, wantSTT)
	}
	if !sell.Total.Sub(buy.Total).Equal(wantSTT) {
		t.Errorf("sell total should exceed buy total by exactly STT: buy=%s sell=%s", buy.Total, sell.Total)
	}
}

func TestCostModelBrokerageCap(t *testing.T) {
	m := NewCostModel()

	// 0.03% of 100,000 is 30, above the 20 cap.
	b := m.Cost(decimal.NewFromInt(100000), models.OrderSideBuy)
	if !b.Brokerage.Equal(decimal.NewFromInt(20)) {
		t.Errorf("brokerage above cap: got %s, want 20", b.Brokerage)
	}

	// 0.03% of 50,000 is 15, below the cap.
	b = m.Cost(decimal.NewFromInt(50000), models.OrderSideBuy)
	if !b.Brokerage.Equal(decimal.NewFromInt(15)) {
		t.Errorf("brokerage below cap: got %s, want 15", b.Brokerage)
	}
}

func TestCostModelZeroValue(t *testing.T) {
	m := NewCostModel()
	b := m.Cost(decimal.Zero, models.OrderSideSell)
	if !b.Total.IsZero() {
		t.Errorf("zero trade value should have zero charges, got %s", b.Total)
	}
}

func TestCostBreakdownRounded(t *testing.T) {
	m := NewCostModel()
	b := m.Cost(decimal.NewFromInt(10000), models.OrderSideBuy)

	r := b.Rounded()
	if !r.GST.Equal(decimal.RequireFromString("0.60")) {
		t.Errorf("rounded GST: got %s, want 0.60", r.GST)
	}
	// Internal breakdown stays unrounded.
	if !b.GST.Equal(decimal.RequireFromString("0.5985")) {
		t.Errorf("Rounded must not mutate the original: got %s", b.GST)
	}
}

func TestCostModelFromRates(t *testing.T) {
	m := NewCostModelFromRates(0.001, 50, 0.002, 0.0001, 0.18, 0.000001)
	b := m.Cost(decimal.NewFromInt(10000), models.OrderSideSell)

	if !b.Brokerage.Equal(decimal.NewFromInt(10)) {
		t.Errorf("brokerage: got %s, want 10", b.Brokerage)
	}
	if !b.STT.Equal(decimal.NewFromInt(20)) {
		t.Errorf("stt: got %s, want 20", b.STT)
	}
}
