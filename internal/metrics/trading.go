package metrics

import (
	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/timeseries"
)

// computeTrading fills the trading group from the sorted fill list. With no
// fills every trading metric is undefined, not zero: an idle vault did not
// trade with a 0% win rate.
func computeTrading(m *domain.VaultMetrics, fills []domain.Fill) {
	if len(fills) == 0 {
		return
	}

	activeDays := make(map[int64]struct{})
	totalNotional := 0.0
	for _, f := range fills {
		activeDays[timeseries.DayIndex(f.TimestampMs)] = struct{}{}
		totalNotional += f.Notional()
	}

	days := float64(len(activeDays))
	trades := float64(len(fills))
	m.DailyVolume = finite(totalNotional / days)
	m.TradesPerDay = finite(trades / days)
	m.AverageTradeSize = finite(totalNotional / trades)

	// Win rate over closing fills only: fills without a closed PnL opened a
	// position and carry no outcome. Zero PnL counts as a non-win.
	wins := 0
	eligible := 0
	for _, f := range fills {
		if f.ClosedPnl == nil {
			continue
		}
		eligible++
		if *f.ClosedPnl > 0 {
			wins++
		}
	}
	if eligible > 0 {
		m.WinRate = finite(float64(wins) / float64(eligible) * 100)
	}

	positions := timeseries.ClosedPositions(fills)
	if len(positions) > 0 {
		hours := make([]float64, len(positions))
		for i, p := range positions {
			hours[i] = p.HoldingHours()
		}
		m.AveragePositionHoldingTime = finite(mean(hours))
	}
}
