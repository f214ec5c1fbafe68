package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	apperrors "artha-sim/internal/errors"
	"artha-sim/internal/models"
)

// SQLiteStore implements Store using SQLite. Money columns are stored as
// decimal strings so amounts survive the round trip exactly.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Append-only transaction journal
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date DATETIME NOT NULL,
		quantity INTEGER NOT NULL,
		price TEXT NOT NULL,
		side TEXT NOT NULL,
		commission TEXT NOT NULL DEFAULT '0',
		synthetic INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_symbol ON transactions(symbol);

	-- Single-row portfolio header
	CREATE TABLE IF NOT EXISTS portfolio (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		cash TEXT NOT NULL,
		realized_pnl TEXT NOT NULL DEFAULT '0',
		day INTEGER NOT NULL DEFAULT 0,
		saved_at DATETIME NOT NULL
	);

	-- Aggregate positions from the pre-ledger schema; kept readable so old
	-- databases migrate, never written by this version.
	CREATE TABLE IF NOT EXISTS legacy_positions (
		symbol TEXT PRIMARY KEY,
		quantity INTEGER NOT NULL,
		avg_price TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveTransaction appends one transaction to the journal.
func (s *SQLiteStore) SaveTransaction(ctx context.Context, record models.TransactionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (symbol, date, quantity, price, side, commission, synthetic)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Symbol, record.Date, record.Quantity, record.Price,
		record.Side, record.Commission, record.Synthetic)
	if err != nil {
		return apperrors.NewStoreError("save_transaction", record.Symbol, err)
	}
	return nil
}

// Transactions returns the full journal in insertion order.
func (s *SQLiteStore) Transactions(ctx context.Context) ([]models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, date, quantity, price, side, commission, synthetic
		FROM transactions ORDER BY id`)
	if err != nil {
		return nil, apperrors.NewStoreError("load_transactions", "query failed", err)
	}
	defer rows.Close()

	var records []models.TransactionRecord
	for rows.Next() {
		var r models.TransactionRecord
		if err := rows.Scan(&r.Symbol, &r.Date, &r.Quantity, &r.Price, &r.Side, &r.Commission, &r.Synthetic); err != nil {
			return nil, apperrors.NewStoreError("load_transactions", "scan failed", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SavePortfolio upserts the single portfolio header row.
func (s *SQLiteStore) SavePortfolio(ctx context.Context, record models.PortfolioRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portfolio (id, cash, realized_pnl, day, saved_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			cash = excluded.cash,
			realized_pnl = excluded.realized_pnl,
			day = excluded.day,
			saved_at = excluded.saved_at`,
		record.Cash, record.RealizedPnL, record.Day, record.SavedAt)
	if err != nil {
		return apperrors.NewStoreError("save_portfolio", "upsert failed", err)
	}
	return nil
}

// LoadPortfolio returns the stored header, or nil when no simulation has
// been saved yet.
func (s *SQLiteStore) LoadPortfolio(ctx context.Context) (*models.PortfolioRecord, error) {
	var r models.PortfolioRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT cash, realized_pnl, day, saved_at FROM portfolio WHERE id = 1`).
		Scan(&r.Cash, &r.RealizedPnL, &r.Day, &r.SavedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("load_portfolio", "query failed", err)
	}
	return &r, nil
}

// LegacyPositions returns aggregate position rows from old databases.
func (s *SQLiteStore) LegacyPositions(ctx context.Context) ([]models.LegacyPositionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, quantity, avg_price FROM legacy_positions`)
	if err != nil {
		return nil, apperrors.NewStoreError("load_legacy_positions", "query failed", err)
	}
	defer rows.Close()

	var records []models.LegacyPositionRecord
	for rows.Next() {
		var r models.LegacyPositionRecord
		if err := rows.Scan(&r.Symbol, &r.Quantity, &r.AvgPrice); err != nil {
			return nil, apperrors.NewStoreError("load_legacy_positions", "scan failed", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Reset clears all simulation state.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	for _, table := range []string{"transactions", "portfolio", "legacy_positions"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return apperrors.NewStoreError("reset", table, err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
