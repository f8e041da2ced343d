package reporting

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderCSV renders the full metric set as a CSV string. Undefined
// metrics render as empty cells.
func RenderCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("vault_address,name,apr,total_pnl_usd,total_pnl_percent,monthly_account_value_change,weekly_account_value_change,")
	sb.WriteString("max_drawdown,current_drawdown,daily_volatility,sharpe_ratio,average_recovery_days,")
	sb.WriteString("win_rate,daily_volume,trades_per_day,average_trade_size,average_position_holding_time,")
	sb.WriteString("seven_day_change,thirty_day_change,momentum_score,days_since_ath,consecutive_positive_days,")
	sb.WriteString("tvl,follower_count,average_investment_per_follower,vault_age_days,leader_commission_rate,")
	sb.WriteString("fee_ratio,average_pnl_per_trade,profit_factor,return_to_drawdown_ratio,capital_efficiency,last_updated_ms\n")

	for _, m := range r.Records {
		cells := []string{
			m.VaultAddress,
			csvEscape(m.Name),
			csvFloat(m.APR),
			csvFloat(m.TotalPnlUSD),
			csvFloat(m.TotalPnlPercent),
			csvFloat(m.MonthlyAccountValueChange),
			csvFloat(m.WeeklyAccountValueChange),
			csvFloat(m.MaxDrawdown),
			csvFloat(m.CurrentDrawdown),
			csvFloat(m.DailyVolatility),
			csvFloat(m.SharpeRatio),
			csvFloat(m.AverageRecoveryDays),
			csvFloat(m.WinRate),
			csvFloat(m.DailyVolume),
			csvFloat(m.TradesPerDay),
			csvFloat(m.AverageTradeSize),
			csvFloat(m.AveragePositionHoldingTime),
			csvFloat(m.SevenDayChange),
			csvFloat(m.ThirtyDayChange),
			csvFloat(m.MomentumScore),
			csvInt(m.DaysSinceATH),
			csvInt(m.ConsecutivePositiveDays),
			csvFloat(m.TVL),
			csvInt(m.FollowerCount),
			csvFloat(m.AverageInvestmentPerFollower),
			csvInt(m.VaultAgeDays),
			csvFloat(m.LeaderCommissionRate),
			csvFloat(m.FeeRatio),
			csvFloat(m.AveragePnlPerTrade),
			csvFloat(m.ProfitFactor),
			csvFloat(m.ReturnToDrawdownRatio),
			csvFloat(m.CapitalEfficiency),
			strconv.FormatInt(m.LastUpdatedMs, 10),
		}
		sb.WriteString(strings.Join(cells, ","))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func csvInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return fmt.Sprintf("%q", strings.ReplaceAll(s, "\n", " "))
	}
	return s
}
