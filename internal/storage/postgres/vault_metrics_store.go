package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/storage"
)

// VaultMetricsStore implements storage.VaultMetricsStore using PostgreSQL.
// The vault_metrics table holds one row per vault; Upsert resolves conflicts
// on vault_address so repeated runs are idempotent.
type VaultMetricsStore struct {
	pool *Pool
}

// NewVaultMetricsStore creates a new VaultMetricsStore.
func NewVaultMetricsStore(pool *Pool) *VaultMetricsStore {
	return &VaultMetricsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.VaultMetricsStore = (*VaultMetricsStore)(nil)

// metricsColumns lists every column in scan order.
const metricsColumns = `
	vault_address, name,
	apr, total_pnl_usd, total_pnl_percent, monthly_account_value_change, weekly_account_value_change,
	max_drawdown, current_drawdown, daily_volatility, sharpe_ratio, average_recovery_days,
	win_rate, daily_volume, trades_per_day, average_trade_size, average_position_holding_time,
	seven_day_change, thirty_day_change, momentum_score, days_since_ath, consecutive_positive_days,
	tvl, follower_count, average_investment_per_follower, vault_age_days, leader_commission_rate,
	fee_ratio, average_pnl_per_trade, profit_factor, return_to_drawdown_ratio, capital_efficiency,
	last_updated_ms`

// Upsert inserts or replaces the metrics record for a vault.
func (s *VaultMetricsStore) Upsert(ctx context.Context, m *domain.VaultMetrics) error {
	if m == nil || m.VaultAddress == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO vault_metrics (` + metricsColumns + `
		) VALUES (
			$1, $2,
			$3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22,
			$23, $24, $25, $26, $27,
			$28, $29, $30, $31, $32,
			$33
		)
		ON CONFLICT (vault_address) DO UPDATE SET
			name = EXCLUDED.name,
			apr = EXCLUDED.apr,
			total_pnl_usd = EXCLUDED.total_pnl_usd,
			total_pnl_percent = EXCLUDED.total_pnl_percent,
			monthly_account_value_change = EXCLUDED.monthly_account_value_change,
			weekly_account_value_change = EXCLUDED.weekly_account_value_change,
			max_drawdown = EXCLUDED.max_drawdown,
			current_drawdown = EXCLUDED.current_drawdown,
			daily_volatility = EXCLUDED.daily_volatility,
			sharpe_ratio = EXCLUDED.sharpe_ratio,
			average_recovery_days = EXCLUDED.average_recovery_days,
			win_rate = EXCLUDED.win_rate,
			daily_volume = EXCLUDED.daily_volume,
			trades_per_day = EXCLUDED.trades_per_day,
			average_trade_size = EXCLUDED.average_trade_size,
			average_position_holding_time = EXCLUDED.average_position_holding_time,
			seven_day_change = EXCLUDED.seven_day_change,
			thirty_day_change = EXCLUDED.thirty_day_change,
			momentum_score = EXCLUDED.momentum_score,
			days_since_ath = EXCLUDED.days_since_ath,
			consecutive_positive_days = EXCLUDED.consecutive_positive_days,
			tvl = EXCLUDED.tvl,
			follower_count = EXCLUDED.follower_count,
			average_investment_per_follower = EXCLUDED.average_investment_per_follower,
			vault_age_days = EXCLUDED.vault_age_days,
			leader_commission_rate = EXCLUDED.leader_commission_rate,
			fee_ratio = EXCLUDED.fee_ratio,
			average_pnl_per_trade = EXCLUDED.average_pnl_per_trade,
			profit_factor = EXCLUDED.profit_factor,
			return_to_drawdown_ratio = EXCLUDED.return_to_drawdown_ratio,
			capital_efficiency = EXCLUDED.capital_efficiency,
			last_updated_ms = EXCLUDED.last_updated_ms
	`

	_, err := s.pool.Exec(ctx, query, upsertArgs(m)...)
	if err != nil {
		return fmt.Errorf("upsert vault metrics %s: %w", m.VaultAddress, err)
	}
	return nil
}

// GetByAddress retrieves the record for one vault.
func (s *VaultMetricsStore) GetByAddress(ctx context.Context, vaultAddress string) (*domain.VaultMetrics, error) {
	query := `SELECT ` + metricsColumns + ` FROM vault_metrics WHERE vault_address = $1`

	row := s.pool.QueryRow(ctx, query, vaultAddress)
	m, err := scanMetrics(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get vault metrics by address: %w", err)
	}
	return m, nil
}

// List retrieves all stored records, ordered by vault address ASC.
func (s *VaultMetricsStore) List(ctx context.Context) ([]*domain.VaultMetrics, error) {
	query := `SELECT ` + metricsColumns + ` FROM vault_metrics ORDER BY vault_address ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vault metrics: %w", err)
	}
	defer rows.Close()

	var records []*domain.VaultMetrics
	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vault metrics row: %w", err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vault metrics rows: %w", err)
	}
	return records, nil
}

// upsertArgs flattens a record into query arguments in metricsColumns order.
func upsertArgs(m *domain.VaultMetrics) []any {
	return []any{
		m.VaultAddress, m.Name,
		m.APR, m.TotalPnlUSD, m.TotalPnlPercent, m.MonthlyAccountValueChange, m.WeeklyAccountValueChange,
		m.MaxDrawdown, m.CurrentDrawdown, m.DailyVolatility, m.SharpeRatio, m.AverageRecoveryDays,
		m.WinRate, m.DailyVolume, m.TradesPerDay, m.AverageTradeSize, m.AveragePositionHoldingTime,
		m.SevenDayChange, m.ThirtyDayChange, m.MomentumScore, m.DaysSinceATH, m.ConsecutivePositiveDays,
		m.TVL, m.FollowerCount, m.AverageInvestmentPerFollower, m.VaultAgeDays, m.LeaderCommissionRate,
		m.FeeRatio, m.AveragePnlPerTrade, m.ProfitFactor, m.ReturnToDrawdownRatio, m.CapitalEfficiency,
		m.LastUpdatedMs,
	}
}

// scanMetrics scans a single row into a VaultMetrics.
func scanMetrics(row pgx.Row) (*domain.VaultMetrics, error) {
	var m domain.VaultMetrics
	err := row.Scan(
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
		return nil, err
	}
	return &m, nil
}
