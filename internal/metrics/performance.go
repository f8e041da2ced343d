package metrics

import "hyperliquid-vault-lab/internal/domain"

// computePerformance fills the performance group: APR, total PnL in USD and
// percent, and the monthly/weekly account value changes from the API's own
// period buckets.
func computePerformance(m *domain.VaultMetrics, d *domain.VaultDetail) {
	if d.APR != nil {
		m.APR = finite(*d.APR * 100)
	}

	allTime := d.Period(domain.PeriodAllTime)
	if len(allTime.PnL) > 0 {
		lastPnl := allTime.PnL[len(allTime.PnL)-1].Value
		m.TotalPnlUSD = finite(lastPnl)

		// Relative to the starting account value.
		if len(allTime.AccountValue) > 0 {
			start := allTime.AccountValue[0].Value
			if start != 0 {
				m.TotalPnlPercent = finite(lastPnl / start * 100)
			}
		}
	}

	m.MonthlyAccountValueChange = pctChange(d.Period(domain.PeriodMonth).AccountValue)
	m.WeeklyAccountValueChange = pctChange(d.Period(domain.PeriodWeek).AccountValue)
}

// pctChange returns the percent change from the first to the last sample of
// a series, or nil with fewer than two samples or a zero base.
func pctChange(samples []domain.ValuePoint) *float64 {
	if len(samples) < 2 {
		return nil
	}
	first := samples[0].Value
	if first == 0 {
		return nil
	}
	last := samples[len(samples)-1].Value
	return finite((last - first) / first * 100)
}
