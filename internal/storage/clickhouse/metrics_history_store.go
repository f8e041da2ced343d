package clickhouse

import (
	"context"
	"fmt"

	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/storage"
)

// MetricsHistoryStore implements storage.MetricsHistoryStore using
// ClickHouse. Rows are append-only snapshots: one per vault per run, ordered
// by (vault_address, last_updated_ms). MergeTree enforces no uniqueness,
// which is fine here — reruns with the same computation time are identical
// records.
type MetricsHistoryStore struct {
	conn *Conn
}

// NewMetricsHistoryStore creates a new MetricsHistoryStore.
func NewMetricsHistoryStore(conn *Conn) *MetricsHistoryStore {
	return &MetricsHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MetricsHistoryStore = (*MetricsHistoryStore)(nil)

const historyColumns = `
	vault_address, name,
	apr, total_pnl_usd, total_pnl_percent, monthly_account_value_change, weekly_account_value_change,
	max_drawdown, current_drawdown, daily_volatility, sharpe_ratio, average_recovery_days,
	win_rate, daily_volume, trades_per_day, average_trade_size, average_position_holding_time,
	seven_day_change, thirty_day_change, momentum_score, days_since_ath, consecutive_positive_days,
	tvl, follower_count, average_investment_per_follower, vault_age_days, leader_commission_rate,
	fee_ratio, average_pnl_per_trade, profit_factor, return_to_drawdown_ratio, capital_efficiency,
	last_updated_ms`

// InsertBulk appends one run's records as a single batch.
func (s *MetricsHistoryStore) InsertBulk(ctx context.Context, records []*domain.VaultMetrics) error {
	if len(records) == 0 {
		return nil
	}
	for _, m := range records {
		if m == nil || m.VaultAddress == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO vault_metrics_history (`+historyColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare history batch: %w", err)
	}

	for _, m := range records {
		err := batch.Append(
			m.VaultAddress, m.Name,
			m.APR, m.TotalPnlUSD, m.TotalPnlPercent, m.MonthlyAccountValueChange, m.WeeklyAccountValueChange,
			m.MaxDrawdown, m.CurrentDrawdown, m.DailyVolatility, m.SharpeRatio, m.AverageRecoveryDays,
			m.WinRate, m.DailyVolume, m.TradesPerDay, m.AverageTradeSize, m.AveragePositionHoldingTime,
			m.SevenDayChange, m.ThirtyDayChange, m.MomentumScore, m.DaysSinceATH, m.ConsecutivePositiveDays,
			m.TVL, m.FollowerCount, m.AverageInvestmentPerFollower, m.VaultAgeDays, m.LeaderCommissionRate,
			m.FeeRatio, m.AveragePnlPerTrade, m.ProfitFactor, m.ReturnToDrawdownRatio, m.CapitalEfficiency,
			m.LastUpdatedMs,
		)
		if err != nil {
			return fmt.Errorf("append history row %s: %w", m.VaultAddress, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send history batch: %w", err)
	}
	return nil
}

// GetByAddress retrieves all snapshots for one vault, oldest first.
func (s *MetricsHistoryStore) GetByAddress(ctx context.Context, vaultAddress string) ([]*domain.VaultMetrics, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM vault_metrics_history
		WHERE vault_address = ?
		ORDER BY last_updated_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, vaultAddress)
	if err != nil {
		return nil, fmt.Errorf("query metrics history: %w", err)
	}
	defer rows.Close()

	var records []*domain.VaultMetrics
	for rows.Next() {
		var m domain.VaultMetrics
		err := rows.Scan(
			&m.VaultAddress, &m.Name,
			&m.APR, &m.TotalPnlUSD, &m.TotalPnlPercent, &m.MonthlyAccountValueChange, &m.WeeklyAccountValueChange,
			&m.MaxDrawdown, &m.CurrentDrawdown, &m.DailyVolatility, &m.SharpeRatio, &m.AverageRecoveryDays,
			&m.WinRate, &m.DailyVolume, &m.TradesPerDay, &m.AverageTradeSize, &m.AveragePositionHoldingTime,
			&m.SevenDayChange, &m.ThirtyDayChange, &m.MomentumScore, &m.DaysSinceATH, &m.ConsecutivePositiveDays,
			&m.TVL, &m.FollowerCount, &m.AverageInvestmentPerFollower, &m.VaultAgeDays, &m.LeaderCommissionRate,
			&m.FeeRatio, &m.AveragePnlPerTrade, &m.ProfitFactor, &m.ReturnToDrawdownRatio, &m.CapitalEfficiency,
			&m.LastUpdatedMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan metrics history row: %w", err)
		}
		records = append(records, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics history rows: %w", err)
	}
	return records, nil
}
