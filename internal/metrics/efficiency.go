package metrics

import (
	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/timeseries"
)

// computeEfficiency fills the efficiency group: fee ratio, average PnL per
// closing fill, profit factor, return-to-drawdown and capital efficiency.
// Every ratio guards its denominator; a zero or absent denominator leaves
// the metric undefined rather than producing infinity.
func computeEfficiency(m *domain.VaultMetrics, d *domain.VaultDetail, fills []domain.Fill, accountValue []domain.ValuePoint) {
	totalNotional := 0.0
	totalFees := 0.0
	feesReported := 0
	for _, f := range fills {
		totalNotional += f.Notional()
		if f.Fee != nil {
			totalFees += *f.Fee
			feesReported++
		}
	}
	if feesReported > 0 && totalNotional > 0 {
		m.FeeRatio = finite(totalFees / totalNotional)
	}

	pnls := timeseries.TradePnLs(fills)
	totalPnl := 0.0
	grossProfit := 0.0
	grossLoss := 0.0
	for _, p := range pnls {
		totalPnl += p
		if p > 0 {
			grossProfit += p
		} else if p < 0 {
			grossLoss += -p
		}
	}

	if len(pnls) > 0 {
		m.AveragePnlPerTrade = finite(totalPnl / float64(len(pnls)))
	}
	if grossLoss > 0 {
		m.ProfitFactor = finite(grossProfit / grossLoss)
	}

	if d.APR != nil {
		if dd := timeseries.MaxDrawdown(accountValue); dd != nil && *dd > 0 {
			m.ReturnToDrawdownRatio = finite(*d.APR / *dd)
		}
	}

	if len(pnls) > 0 && len(accountValue) > 0 {
		avgValue := 0.0
		for _, s := range accountValue {
			avgValue += s.Value
		}
		avgValue /= float64(len(accountValue))
		if avgValue > 0 {
			m.CapitalEfficiency = finite(totalPnl / avgValue * 100)
		}
	}
}
