package storage

import (
	"context"

	"hyperliquid-vault-lab/internal/domain"
)

// VaultMetricsStore holds the latest metrics record per vault address.
type VaultMetricsStore interface {
	// Upsert inserts the record or replaces the existing one for the same
	// vault address. Idempotent: repeating the same record is a no-op
	// beyond refreshing it.
	Upsert(ctx context.Context, m *domain.VaultMetrics) error

	// GetByAddress retrieves the record for one vault. Returns ErrNotFound
	// if the vault has never been stored.
	GetByAddress(ctx context.Context, vaultAddress string) (*domain.VaultMetrics, error)

	// List retrieves all stored records, ordered by vault address ASC.
	List(ctx context.Context) ([]*domain.VaultMetrics, error)
}

// MetricsHistoryStore keeps an append-only snapshot of every run, one row
// per vault per run, for trend inspection across collections.
type MetricsHistoryStore interface {
	// InsertBulk appends one run's records.
	InsertBulk(ctx context.Context, records []*domain.VaultMetrics) error

	// GetByAddress retrieves all snapshots for one vault, ordered by
	// computation time ASC.
	GetByAddress(ctx context.Context, vaultAddress string) ([]*domain.VaultMetrics, error)
}
