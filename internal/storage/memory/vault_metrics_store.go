// Package memory provides in-memory storage implementations for tests and
// database-free runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/storage"
)

// VaultMetricsStore is an in-memory implementation of
// storage.VaultMetricsStore.
type VaultMetricsStore struct {
	mu   sync.RWMutex
	data map[string]*domain.VaultMetrics // keyed by vault_address
}

// NewVaultMetricsStore creates a new in-memory vault metrics store.
func NewVaultMetricsStore() *VaultMetricsStore {
	return &VaultMetricsStore{
		data: make(map[string]*domain.VaultMetrics),
	}
}

// Compile-time interface check.
var _ storage.VaultMetricsStore = (*VaultMetricsStore)(nil)

// Upsert inserts or replaces the record for a vault address.
func (s *VaultMetricsStore) Upsert(_ context.Context, m *domain.VaultMetrics) error {
	if m == nil || m.VaultAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation.
	recordCopy := *m
	s.data[m.VaultAddress] = &recordCopy
	return nil
}

// GetByAddress retrieves the record for one vault.
func (s *VaultMetricsStore) GetByAddress(_ context.Context, vaultAddress string) (*domain.VaultMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.data[vaultAddress]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *m
	return &recordCopy, nil
}

// List retrieves all records ordered by vault address ASC.
func (s *VaultMetricsStore) List(_ context.Context) ([]*domain.VaultMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.VaultMetrics, 0, len(s.data))
	for _, m := range s.data {
		recordCopy := *m
		records = append(records, &recordCopy)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].VaultAddress < records[j].VaultAddress
	})
	return records, nil
}
