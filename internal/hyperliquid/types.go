// Package hyperliquid provides clients for the Hyperliquid info API:
// vault summaries, vault details and user fill histories over HTTP, and a
// WebSocket stream for live fill events.
package hyperliquid

import (
	"encoding/json"
	"fmt"
)

// RawPoint is one wire-format history sample: a [timestamp, value] pair
// where the value is a string-encoded decimal.
type RawPoint struct {
	TimeMs int64
	Value  string
}

// UnmarshalJSON decodes the two-element array form.
func (p *RawPoint) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("history point is not a pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &p.TimeMs); err != nil {
		return fmt.Errorf("history point timestamp: %w", err)
	}
	if err := json.Unmarshal(pair[1], &p.Value); err != nil {
		return fmt.Errorf("history point value: %w", err)
	}
	return nil
}

// RawPeriod holds the sampled series the API reports for one portfolio
// period bucket.
type RawPeriod struct {
	AccountValueHistory []RawPoint `json:"accountValueHistory"`
	PnlHistory          []RawPoint `json:"pnlHistory"`
	Vlm                 string     `json:"vlm"`
}

// PortfolioEntry is one [periodName, periodData] pair of the portfolio list.
type PortfolioEntry struct {
	Period string
	Data   RawPeriod
}

// UnmarshalJSON decodes the two-element array form.
func (e *PortfolioEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("portfolio entry is not a pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &e.Period); err != nil {
		return fmt.Errorf("portfolio period name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Data); err != nil {
		return fmt.Errorf("portfolio period %q data: %w", e.Period, err)
	}
	return nil
}

// Follower is one depositor entry of a vault details response.
type Follower struct {
	User        string `json:"user"`
	VaultEquity string `json:"vaultEquity"`
	PnL         string `json:"pnl"`
	DaysVested  int64  `json:"daysFollowing"`
}

// VaultDetails is the response to an info request of type "vaultDetails".
// Numeric series arrive as string-encoded decimals; apr and commission as
// JSON numbers. Pointer fields distinguish absent from zero.
type VaultDetails struct {
	Name             string           `json:"name"`
	VaultAddress     string           `json:"vaultAddress"`
	Leader           string           `json:"leader"`
	Description      string           `json:"description"`
	APR              *float64         `json:"apr"`
	LeaderCommission *float64         `json:"leaderCommission"`
	Followers        []Follower       `json:"followers"`
	Portfolio        []PortfolioEntry `json:"portfolio"`
	IsClosed         bool             `json:"isClosed"`
	AllowDeposits    bool             `json:"allowDeposits"`
}

// VaultSummary is the per-vault summary object of the stats endpoint.
type VaultSummary struct {
	Name             string `json:"name"`
	VaultAddress     string `json:"vaultAddress"`
	Leader           string `json:"leader"`
	TVL              string `json:"tvl"`
	CreateTimeMillis *int64 `json:"createTimeMillis"`
	IsClosed         bool   `json:"isClosed"`
}

// VaultEntry is one element of the stats endpoint payload.
type VaultEntry struct {
	Summary VaultSummary `json:"summary"`
	APR     *float64     `json:"apr"`
}

// Fill is one wire-format fill of a "userFills" response. Prices, sizes,
// PnL and fees are string-encoded decimals.
type Fill struct {
	Coin          string `json:"coin"`
	Px            string `json:"px"`
	Sz            string `json:"sz"`
	Side          string `json:"side"`
	TimeMs        int64  `json:"time"`
	StartPosition string `json:"startPosition"`
	Dir           string `json:"dir"`
	ClosedPnl     string `json:"closedPnl"`
	Hash          string `json:"hash"`
	Oid           int64  `json:"oid"`
	Tid           int64  `json:"tid"`
	Crossed       bool   `json:"crossed"`
	Fee           string `json:"fee"`
	FeeToken      string `json:"feeToken"`
}
