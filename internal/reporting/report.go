// Package reporting renders stored vault metrics as CSV and Markdown.
package reporting

import (
	"sort"
	"time"

	"hyperliquid-vault-lab/internal/domain"
)

// Report is a snapshot of vault metrics prepared for rendering.
type Report struct {
	GeneratedAt time.Time
	TotalVaults int
	Records     []*domain.VaultMetrics
}

// BuildReport sorts records into leaderboard order: Sharpe ratio
// descending, undefined Sharpe last, address as tiebreaker.
func BuildReport(generatedAt time.Time, records []*domain.VaultMetrics) *Report {
	sorted := make([]*domain.VaultMetrics, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].SharpeRatio, sorted[j].SharpeRatio
		switch {
		case a != nil && b != nil:
			if *a != *b {
				return *a > *b
			}
		case a != nil:
			return true
		case b != nil:
			return false
		}
		return sorted[i].VaultAddress < sorted[j].VaultAddress
	})

	return &Report{
		GeneratedAt: generatedAt.UTC(),
		TotalVaults: len(sorted),
		Records:     sorted,
	}
}

// Top returns the first n records, or all of them when n <= 0 or
// exceeds the record count.
func (r *Report) Top(n int) []*domain.VaultMetrics {
	if n <= 0 || n > len(r.Records) {
		return r.Records
	}
	return r.Records[:n]
}
