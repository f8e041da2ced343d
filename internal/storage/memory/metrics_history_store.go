package memory

import (
	"context"
	"sort"
	"sync"

	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/storage"
)

// MetricsHistoryStore is an in-memory implementation of
// storage.MetricsHistoryStore.
type MetricsHistoryStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.VaultMetrics // keyed by vault_address
}

// NewMetricsHistoryStore creates a new in-memory history store.
func NewMetricsHistoryStore() *MetricsHistoryStore {
	return &MetricsHistoryStore{
		data: make(map[string][]*domain.VaultMetrics),
	}
}

// Compile-time interface check.
var _ storage.MetricsHistoryStore = (*MetricsHistoryStore)(nil)

// InsertBulk appends one run's records.
func (s *MetricsHistoryStore) InsertBulk(_ context.Context, records []*domain.VaultMetrics) error {
	for _, m := range records {
		if m == nil || m.VaultAddress == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range records {
		recordCopy := *m
		s.data[m.VaultAddress] = append(s.data[m.VaultAddress], &recordCopy)
	}
	return nil
}

// GetByAddress retrieves all snapshots for one vault, oldest first.
func (s *MetricsHistoryStore) GetByAddress(_ context.Context, vaultAddress string) ([]*domain.VaultMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots := s.data[vaultAddress]
	records := make([]*domain.VaultMetrics, len(snapshots))
	for i, m := range snapshots {
		recordCopy := *m
		records[i] = &recordCopy
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastUpdatedMs < records[j].LastUpdatedMs
	})
	return records, nil
}
