package metrics

import (
	"math"

	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/timeseries"
)

// computeRisk fills the risk group from the all-time account value series:
// max and current drawdown, daily volatility, Sharpe ratio and average
// recovery days.
func computeRisk(m *domain.VaultMetrics, accountValue []domain.ValuePoint) {
	if dd := timeseries.MaxDrawdown(accountValue); dd != nil {
		m.MaxDrawdown = finite(*dd * 100)
	}
	if dd := timeseries.CurrentDrawdown(accountValue); dd != nil {
		m.CurrentDrawdown = finite(*dd * 100)
	}

	returns := timeseries.DailyReturns(accountValue)
	if len(returns) >= 2 {
		vol := sampleStddev(returns)
		m.DailyVolatility = finite(vol)

		if vol > 0 {
			excess := mean(returns) - dailyRiskFree
			m.SharpeRatio = finite(excess / vol * math.Sqrt(daysPerYear))
		}
	}

	durations := timeseries.RecoveryDurations(accountValue, timeseries.RecoveryOptions{
		MinDrawdown: recoveryMinDrawdown,
	})
	if len(durations) > 0 {
		m.AverageRecoveryDays = finite(mean(durations))
	}
}
