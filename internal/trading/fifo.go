package trading

import (
	"github.com/shopspring/decimal"

	"artha-sim/internal/models"
)

// LotMatch is one FIFO pairing of sold shares against a buy lot. BuyIndex
// and SellIndex point into the ledger's transaction list.
type LotMatch struct {
	Quantity  int
	PnL       decimal.Decimal
	BuyIndex  int
	SellIndex int
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

type openLot struct {
	index     int
	price     decimal.Decimal
	remaining int
}

// FIFORealized replays a ledger's transaction list, consuming buy lots
// oldest-first for every sell, and returns the per-lot realized P&L of each
// match. This is the tax/audit view of realized profit; it legitimately
// disagrees with the average-cost delta the executor books when buys happened
// at different prices, so the two must always be reported under distinct
// labels.
func FIFORealized(ledger *Ledger) []LotMatch {
	var queue []openLot
	var matches []LotMatch

	for i, tx := range ledger.Transactions() {
		if tx.IsBuy() {
			queue = append(queue, openLot{index: i, price: tx.Price, remaining: tx.Quantity})
			continue
		}

		toSell := tx.Quantity
		for toSell > 0 && len(queue) > 0 {
			lot := &queue[0]

			sold := lot.remaining
			if sold > toSell {
				sold = toSell
			}

			pnl := tx.Price.Sub(lot.price).Mul(decimal.NewFromInt(int64(sold)))
			matches = append(matches, LotMatch{
				Quantity:  sold,
				PnL:       pnl,
				BuyIndex:  lot.index,
				SellIndex: i,
				BuyPrice:  lot.price,
				SellPrice: tx.Price,
			})

			lot.remaining -= sold
			toSell -= sold
			if lot.remaining == 0 {
				queue = queue[1:]
			}
		}
	}

	return matches
}

// LotMatchRecords flattens the FIFO report into plain export rows.
func LotMatchRecords(ledger *Ledger) []models.LotMatchRecord {
	txs := ledger.Transactions()
	matches := FIFORealized(ledger)

	records := make([]models.LotMatchRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, models.LotMatchRecord{
			Symbol:    ledger.Symbol(),
			Quantity:  m.Quantity,
			BuyDate:   txs[m.BuyIndex].Date.Format("2006-01-02"),
			SellDate:  txs[m.SellIndex].Date.Format("2006-01-02"),
			BuyPrice:  m.BuyPrice.StringFixed(2),
			SellPrice: m.SellPrice.StringFixed(2),
			PnL:       m.PnL.StringFixed(2),
		})
	}
	return records
}
