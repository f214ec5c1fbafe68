// Package store provides data persistence interfaces and implementations.
// Only plain record structs cross this boundary; the accounting core never
// sees SQL and the store never sees ledgers.
package store

import (
	"context"

	"artha-sim/internal/models"
)

// Store defines the interface for simulation persistence.
type Store interface {
	// Transactions (append-only, in execution order)
	SaveTransaction(ctx context.Context, record models.TransactionRecord) error
	Transactions(ctx context.Context) ([]models.TransactionRecord, error)

	// Portfolio header
	SavePortfolio(ctx context.Context, record models.PortfolioRecord) error
	LoadPortfolio(ctx context.Context) (*models.PortfolioRecord, error)

	// Legacy aggregate positions from the pre-ledger schema, surfaced so
	// the session can migrate them into synthetic opening lots.
	LegacyPositions(ctx context.Context) ([]models.LegacyPositionRecord, error)

	// Reset clears all simulation state.
	Reset(ctx context.Context) error

	// Lifecycle
	Close() error
}
