// Package normalize converts raw Hyperliquid wire records into typed,
// null-safe domain values. Absent or empty fields become nil pointers, never
// zero: zero is a valid reported value. Malformed values (non-numeric where a
// number is expected) are contract violations and surface as errors.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/hyperliquid"
)

// parseOptFloat parses a string-encoded decimal. Empty means absent.
func parseOptFloat(field, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("field %s: cannot parse %q as number", field, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("field %s: non-finite value %q", field, s)
	}
	return &v, nil
}

// parseFloat parses a required string-encoded decimal.
func parseFloat(field, s string) (float64, error) {
	v, err := parseOptFloat(field, s)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("field %s: missing required value", field)
	}
	return *v, nil
}

// Detail converts a raw vault details response, merged with the vault's
// stats-endpoint summary when available, into a domain VaultDetail.
// summary may be nil; TVL and creation time then stay unset and downstream
// calculators fall back to the performance history.
func Detail(raw *hyperliquid.VaultDetails, summary *hyperliquid.VaultSummary) (*domain.VaultDetail, error) {
	if raw == nil {
		return nil, fmt.Errorf("vault details: nil record")
	}

	address := raw.VaultAddress
	if address == "" && summary != nil {
		address = summary.VaultAddress
	}
	if address == "" {
		return nil, fmt.Errorf("vault details: missing vault address")
	}

	d := &domain.VaultDetail{
		Address:          address,
		Name:             raw.Name,
		Leader:           raw.Leader,
		APR:              copyFinite(raw.APR),
		LeaderCommission: copyFinite(raw.LeaderCommission),
		Portfolio:        make(map[string]domain.PeriodHistory, len(raw.Portfolio)),
	}

	if raw.Followers != nil {
		n := int64(len(raw.Followers))
		d.FollowerCount = &n
	}

	for _, entry := range raw.Portfolio {
		account, err := points(entry.Period+".accountValueHistory", entry.Data.AccountValueHistory)
		if err != nil {
			return nil, err
		}
		pnl, err := points(entry.Period+".pnlHistory", entry.Data.PnlHistory)
		if err != nil {
			return nil, err
		}
		d.Portfolio[entry.Period] = domain.PeriodHistory{AccountValue: account, PnL: pnl}
	}

	if summary != nil {
		tvl, err := parseOptFloat("summary.tvl", summary.TVL)
		if err != nil {
			return nil, err
		}
		if tvl != nil && *tvl > 0 {
			d.TVL = tvl
		}
		if summary.CreateTimeMillis != nil && *summary.CreateTimeMillis > 0 {
			ms := *summary.CreateTimeMillis
			d.CreateTimeMs = &ms
		}
	}

	return d, nil
}

// points converts a raw history series, keeping the wire order.
func points(field string, raw []hyperliquid.RawPoint) ([]domain.ValuePoint, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]domain.ValuePoint, len(raw))
	for i, p := range raw {
		v, err := parseFloat(field, p.Value)
		if err != nil {
			return nil, err
		}
		out[i] = domain.ValuePoint{TimestampMs: p.TimeMs, Value: v}
	}
	return out, nil
}

// Fills converts raw fill events, sorted ascending by timestamp. Fills with
// an unknown side or unparsable price/size are contract violations.
func Fills(raw []hyperliquid.Fill) ([]domain.Fill, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]domain.Fill, len(raw))
	for i, f := range raw {
		side := domain.Side(f.Side)
		if side != domain.SideBuy && side != domain.SideSell {
			return nil, fmt.Errorf("fill %d: unknown side %q", i, f.Side)
		}
		px, err := parseFloat("px", f.Px)
		if err != nil {
			return nil, fmt.Errorf("fill %d: %w", i, err)
		}
		sz, err := parseFloat("sz", f.Sz)
		if err != nil {
			return nil, fmt.Errorf("fill %d: %w", i, err)
		}
		closedPnl, err := parseOptFloat("closedPnl", f.ClosedPnl)
		if err != nil {
			return nil, fmt.Errorf("fill %d: %w", i, err)
		}
		fee, err := parseOptFloat("fee", f.Fee)
		if err != nil {
			return nil, fmt.Errorf("fill %d: %w", i, err)
		}

		out[i] = domain.Fill{
			TimestampMs: f.TimeMs,
			Side:        side,
			Size:        sz,
			Price:       px,
			ClosedPnl:   closedPnl,
			Fee:         fee,
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimestampMs < out[j].TimestampMs
	})
	return out, nil
}

// copyFinite copies an optional float, treating non-finite values as absent.
func copyFinite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	out := *v
	return &out
}
