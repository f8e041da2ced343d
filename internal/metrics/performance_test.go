package metrics

import (
	"math"
	"testing"

	"hyperliquid-vault-lab/internal/domain"
)

func TestComputePerformance(t *testing.T) {
	d := detailWith(series(1000, 1100, 1200), series(0, 100, 200))
	d.APR = fptr(0.15)
	d.Portfolio[domain.PeriodMonth] = domain.PeriodHistory{AccountValue: series(1000, 1200)}
	d.Portfolio[domain.PeriodWeek] = domain.PeriodHistory{AccountValue: series(1100, 1200)}

	m := &domain.VaultMetrics{}
	computePerformance(m, d)

	if m.APR == nil || *m.APR != 15 {
		t.Errorf("APR = %v, want 15", m.APR)
	}
	if m.TotalPnlUSD == nil || *m.TotalPnlUSD != 200 {
		t.Errorf("TotalPnlUSD = %v, want 200", m.TotalPnlUSD)
	}
	if m.TotalPnlPercent == nil || *m.TotalPnlPercent != 20 {
		t.Errorf("TotalPnlPercent = %v, want 20", m.TotalPnlPercent)
	}
	if m.MonthlyAccountValueChange == nil || *m.MonthlyAccountValueChange != 20 {
		t.Errorf("MonthlyAccountValueChange = %v, want 20", m.MonthlyAccountValueChange)
	}
	if m.WeeklyAccountValueChange == nil || math.Abs(*m.WeeklyAccountValueChange-100.0/11.0) > 1e-9 {
		t.Errorf("WeeklyAccountValueChange = %v, want %v", m.WeeklyAccountValueChange, 100.0/11.0)
	}
}

func TestComputePerformance_Undefined(t *testing.T) {
	d := &domain.VaultDetail{Address: "0xabc"}
	m := &domain.VaultMetrics{}
	computePerformance(m, d)

	if m.APR != nil || m.TotalPnlUSD != nil || m.TotalPnlPercent != nil ||
		m.MonthlyAccountValueChange != nil || m.WeeklyAccountValueChange != nil {
		t.Errorf("expected all performance metrics undefined: %+v", m)
	}
}

func TestComputePerformance_ZeroStartValue(t *testing.T) {
	d := detailWith(series(0, 1000), series(0, 100))
	m := &domain.VaultMetrics{}
	computePerformance(m, d)

	if m.TotalPnlUSD == nil || *m.TotalPnlUSD != 100 {
		t.Errorf("TotalPnlUSD = %v, want 100", m.TotalPnlUSD)
	}
	if m.TotalPnlPercent != nil {
		t.Errorf("TotalPnlPercent = %v, want nil on zero base", *m.TotalPnlPercent)
	}
}
