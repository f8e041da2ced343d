package domain

// Portfolio period names as reported by the Hyperliquid info API.
const (
	PeriodAllTime = "allTime"
	PeriodMonth   = "month"
	PeriodWeek    = "week"
	PeriodDay     = "day"
)

// ValuePoint is one (timestamp, value) checkpoint of a vault time series.
// Timestamps are Unix milliseconds UTC throughout the engine.
type ValuePoint struct {
	TimestampMs int64
	Value       float64
}

// PeriodHistory holds the sampled series for one portfolio period.
// Samples are chronologically ordered (non-decreasing timestamps); gaps and
// duplicate timestamps are allowed.
type PeriodHistory struct {
	AccountValue []ValuePoint
	PnL          []ValuePoint
}

// VaultDetail is a normalized, point-in-time view of one vault.
// Nil pointer fields mean the source did not report the value; zero is a
// valid reported value and is never used to encode absence.
type VaultDetail struct {
	Address string // vault address, 0x-prefixed hex
	Name    string
	Leader  string // leader address, owns the fill history

	APR              *float64 // annualized return as a fraction (0.15 = 15%)
	LeaderCommission *float64 // leader commission as a fraction
	TVL              *float64 // current capital under management, USD
	CreateTimeMs     *int64   // vault creation time
	FollowerCount    *int64   // number of depositors

	Portfolio map[string]PeriodHistory // keyed by period name
}

// Period returns the history for the named portfolio period, or an empty
// history when the period is absent.
func (d *VaultDetail) Period(name string) PeriodHistory {
	if d == nil || d.Portfolio == nil {
		return PeriodHistory{}
	}
	return d.Portfolio[name]
}
