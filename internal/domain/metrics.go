package domain

// VaultMetrics is the flat output record of one aggregation run for one
// vault: identity fields plus the 30 derived metrics, grouped as in the
// vault_metrics table. Nil means the metric could not be computed from the
// available inputs (the undefined sentinel); stored values are always finite.
type VaultMetrics struct {
	VaultAddress string // upsert conflict key, never empty
	Name         string

	// Performance
	APR                       *float64 // percent
	TotalPnlUSD               *float64
	TotalPnlPercent           *float64
	MonthlyAccountValueChange *float64 // percent
	WeeklyAccountValueChange  *float64 // percent

	// Risk
	MaxDrawdown         *float64 // percent of peak
	CurrentDrawdown     *float64 // percent of peak
	DailyVolatility     *float64 // stdev of daily returns, fraction
	SharpeRatio         *float64 // annualized
	AverageRecoveryDays *float64

	// Trading
	WinRate                    *float64 // percent of closing fills with positive PnL
	DailyVolume                *float64 // USD per active day
	TradesPerDay               *float64
	AverageTradeSize           *float64 // USD
	AveragePositionHoldingTime *float64 // hours

	// Trend
	SevenDayChange          *float64 // percent
	ThirtyDayChange         *float64 // percent
	MomentumScore           *float64
	DaysSinceATH            *int64
	ConsecutivePositiveDays *int64

	// Capital
	TVL                          *float64 // USD
	FollowerCount                *int64
	AverageInvestmentPerFollower *float64 // USD
	VaultAgeDays                 *int64
	LeaderCommissionRate         *float64 // fraction

	// Efficiency
	FeeRatio              *float64 // fees / notional, fraction
	AveragePnlPerTrade    *float64 // USD
	ProfitFactor          *float64
	ReturnToDrawdownRatio *float64
	CapitalEfficiency     *float64 // percent

	LastUpdatedMs int64 // when this record was computed
}
