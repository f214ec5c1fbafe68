package models

import "time"

// Plain serializable records exchanged with the persistence layer. The
// accounting core never sees SQL; the store never sees ledgers.

// TransactionRecord is the persisted form of a Transaction. Money fields are
// decimal strings so nothing is lost crossing the storage boundary.
type TransactionRecord struct {
	Symbol     string    `csv:"symbol"`
	Date       time.Time `csv:"date"`
	Quantity   int       `csv:"quantity"`
	Price      string    `csv:"price"`
	Side       string    `csv:"side"`
	Commission string    `csv:"commission"`
	Synthetic  bool      `csv:"synthetic"`
}

// PortfolioRecord is the persisted portfolio header.
type PortfolioRecord struct {
	Cash        string
	RealizedPnL string
	Day         int
	SavedAt     time.Time
}

// LegacyPositionRecord is an aggregate (quantity, average price) position row
// from the pre-ledger schema. Loading one synthesizes a single opening BUY
// dated at the current simulated day, flagged Synthetic.
type LegacyPositionRecord struct {
	Symbol   string
	Quantity int
	AvgPrice string
}

// LotMatchRecord is the CSV row shape for the FIFO lot report export.
type LotMatchRecord struct {
	Symbol    string `csv:"symbol"`
	Quantity  int    `csv:"quantity"`
	BuyDate   string `csv:"buy_date"`
	SellDate  string `csv:"sell_date"`
	BuyPrice  string `csv:"buy_price"`
	SellPrice string `csv:"sell_price"`
	PnL       string `csv:"pnl"`
}
