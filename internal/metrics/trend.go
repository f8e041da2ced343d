package metrics

import (
	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/timeseries"
)

// computeTrend fills the trend group: trailing 7 and 30 day returns over the
// all-time series, a volatility-scaled momentum score, days since the
// all-time high and the current streak of positive PnL days.
func computeTrend(m *domain.VaultMetrics, d *domain.VaultDetail, accountValue []domain.ValuePoint) {
	var sevenDay *float64
	if r := timeseries.WindowReturn(accountValue, 7*msPerDay); r != nil {
		sevenDay = r
		m.SevenDayChange = finite(*r * 100)
	}
	if r := timeseries.WindowReturn(accountValue, 30*msPerDay); r != nil {
		m.ThirtyDayChange = finite(*r * 100)
	}

	// Momentum: the 7-day return scaled by the volatility of the most recent
	// daily returns, so a quiet grind and a wild swing score differently.
	if sevenDay != nil {
		returns := timeseries.DailyReturns(accountValue)
		if len(returns) > 7 {
			returns = returns[len(returns)-7:]
		}
		if len(returns) >= 2 {
			if vol := popStddev(returns); vol > 0 {
				m.MomentumScore = finite(*sevenDay / vol)
			}
		}
	}

	if len(accountValue) > 0 {
		athIdx := 0
		for i, s := range accountValue {
			if s.Value > accountValue[athIdx].Value {
				athIdx = i
			}
		}
		lastMs := accountValue[len(accountValue)-1].TimestampMs
		m.DaysSinceATH = intPtr((lastMs - accountValue[athIdx].TimestampMs) / msPerDay)
	}

	// Streak of consecutive positive PnL increments counted from the end.
	pnl := d.Period(domain.PeriodAllTime).PnL
	if len(pnl) > 0 {
		streak := int64(0)
		for i := len(pnl) - 1; i > 0; i-- {
			if pnl[i].Value-pnl[i-1].Value <= 0 {
				break
			}
			streak++
		}
		m.ConsecutivePositiveDays = intPtr(streak)
	}
}
