package metrics

import (
	"time"

	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/normalize"
)

// computeCapital fills the capital group. TVL and vault age resolve through
// the normalizer's fallback chains: summary value first, then the all-time
// history, then undefined.
func computeCapital(m *domain.VaultMetrics, d *domain.VaultDetail, now time.Time) {
	m.TVL = normalize.ResolveTVL(d)
	m.FollowerCount = d.FollowerCount

	if m.TVL != nil && m.FollowerCount != nil && *m.FollowerCount > 0 {
		m.AverageInvestmentPerFollower = finite(*m.TVL / float64(*m.FollowerCount))
	}

	if inception := normalize.ResolveInceptionMs(d); inception != nil {
		age := (now.UnixMilli() - *inception) / msPerDay
		if age >= 0 {
			m.VaultAgeDays = intPtr(age)
		}
	}

	if d.LeaderCommission != nil {
		m.LeaderCommissionRate = finite(*d.LeaderCommission)
	}
}
