package metrics

import (
	"fmt"
	"sort"
	"time"

	"hyperliquid-vault-lab/internal/domain"
)

// Aggregate derives all 30 metrics for one vault from its normalized detail
// record and fill history and merges them with the identity fields into one
// flat record. The output is a pure function of the arguments: identical
// inputs (including now) produce identical records, so callers may run
// vaults concurrently. Data insufficiency degrades to nil metric fields;
// an error is returned only for contract violations.
func Aggregate(now time.Time, address string, detail *domain.VaultDetail, fills []domain.Fill) (*domain.VaultMetrics, error) {
	if address == "" {
		return nil, fmt.Errorf("aggregate: empty vault address")
	}
	if detail == nil {
		return nil, fmt.Errorf("aggregate vault %s: nil detail", address)
	}

	// Fills arrive in arbitrary order; every extractor assumes ascending time.
	sorted := make([]domain.Fill, len(fills))
	copy(sorted, fills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimestampMs < sorted[j].TimestampMs
	})

	m := &domain.VaultMetrics{
		VaultAddress:  address,
		Name:          detail.Name,
		LastUpdatedMs: now.UnixMilli(),
	}

	accountValue := detail.Period(domain.PeriodAllTime).AccountValue

	computePerformance(m, detail)
	computeRisk(m, accountValue)
	computeTrading(m, sorted)
	computeTrend(m, detail, accountValue)
	computeCapital(m, detail, now)
	computeEfficiency(m, detail, sorted, accountValue)

	return m, nil
}
