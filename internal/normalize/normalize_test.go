package normalize

import (
	"math"
	"testing"

	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/hyperliquid"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }

func rawDetails() *hyperliquid.VaultDetails {
	return &hyperliquid.VaultDetails{
		Name:             "Test Vault",
		VaultAddress:     "0xabc",
		Leader:           "0xdef",
		APR:              fptr(0.15),
		LeaderCommission: fptr(0.1),
		Followers: []hyperliquid.Follower{
			{User: "0x1"}, {User: "0x2"},
		},
		Portfolio: []hyperliquid.PortfolioEntry{
			{
				Period: "allTime",
				Data: hyperliquid.RawPeriod{
					AccountValueHistory: []hyperliquid.RawPoint{
						{TimeMs: 1000, Value: "100.5"},
						{TimeMs: 2000, Value: "110"},
					},
					PnlHistory: []hyperliquid.RawPoint{
						{TimeMs: 1000, Value: "0"},
						{TimeMs: 2000, Value: "9.5"},
					},
				},
			},
		},
	}
}

func TestDetail(t *testing.T) {
	summary := &hyperliquid.VaultSummary{
		VaultAddress:     "0xabc",
		TVL:              "50000.25",
		CreateTimeMillis: iptr(1700000000000),
	}

	d, err := Detail(rawDetails(), summary)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}

	if d.Address != "0xabc" || d.Name != "Test Vault" || d.Leader != "0xdef" {
		t.Errorf("identity fields = %+v", d)
	}
	if d.APR == nil || *d.APR != 0.15 {
		t.Errorf("APR = %v, want 0.15", d.APR)
	}
	if d.TVL == nil || *d.TVL != 50000.25 {
		t.Errorf("TVL = %v, want 50000.25", d.TVL)
	}
	if d.CreateTimeMs == nil || *d.CreateTimeMs != 1700000000000 {
		t.Errorf("CreateTimeMs = %v", d.CreateTimeMs)
	}
	if d.FollowerCount == nil || *d.FollowerCount != 2 {
		t.Errorf("FollowerCount = %v, want 2", d.FollowerCount)
	}

	allTime := d.Period(domain.PeriodAllTime)
	if len(allTime.AccountValue) != 2 || allTime.AccountValue[0].Value != 100.5 {
		t.Errorf("account value history = %+v", allTime.AccountValue)
	}
	if len(allTime.PnL) != 2 || allTime.PnL[1].Value != 9.5 {
		t.Errorf("pnl history = %+v", allTime.PnL)
	}
}

func TestDetail_NilSummaryLeavesTVLUnset(t *testing.T) {
	d, err := Detail(rawDetails(), nil)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.TVL != nil {
		t.Errorf("TVL = %v, want nil", *d.TVL)
	}
	if d.CreateTimeMs != nil {
		t.Errorf("CreateTimeMs = %v, want nil", *d.CreateTimeMs)
	}
}

func TestDetail_EmptyTVLIsAbsentNotZero(t *testing.T) {
	summary := &hyperliquid.VaultSummary{VaultAddress: "0xabc", TVL: ""}
	d, err := Detail(rawDetails(), summary)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.TVL != nil {
		t.Errorf("TVL = %v, want nil for empty string", *d.TVL)
	}
}

func TestDetail_MalformedHistoryValue(t *testing.T) {
	raw := rawDetails()
	raw.Portfolio[0].Data.AccountValueHistory[0].Value = "not-a-number"

	if _, err := Detail(raw, nil); err == nil {
		t.Error("expected error for malformed history value")
	}
}

func TestDetail_NonFiniteAPRDropped(t *testing.T) {
	raw := rawDetails()
	raw.APR = fptr(math.Inf(1))

	d, err := Detail(raw, nil)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.APR != nil {
		t.Errorf("APR = %v, want nil for non-finite input", *d.APR)
	}
}

func TestDetail_MissingAddress(t *testing.T) {
	if _, err := Detail(&hyperliquid.VaultDetails{Name: "x"}, nil); err == nil {
		t.Error("expected error for missing address")
	}
}

func TestFills_SortsAndParses(t *testing.T) {
	raw := []hyperliquid.Fill{
		{TimeMs: 2000, Side: "A", Px: "101", Sz: "1.5", ClosedPnl: "2.5", Fee: "0.1"},
		{TimeMs: 1000, Side: "B", Px: "100", Sz: "1.5"},
	}

	fills, err := Fills(raw)
	if err != nil {
		t.Fatalf("Fills: %v", err)
	}
	if len(fills) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(fills))
	}

	if fills[0].TimestampMs != 1000 || fills[1].TimestampMs != 2000 {
		t.Errorf("fills not sorted: %+v", fills)
	}
	if fills[0].Side != domain.SideBuy || fills[0].ClosedPnl != nil || fills[0].Fee != nil {
		t.Errorf("opening fill = %+v", fills[0])
	}
	if fills[1].ClosedPnl == nil || *fills[1].ClosedPnl != 2.5 {
		t.Errorf("closing fill pnl = %v", fills[1].ClosedPnl)
	}
}

func TestFills_UnknownSide(t *testing.T) {
	raw := []hyperliquid.Fill{{TimeMs: 1000, Side: "X", Px: "100", Sz: "1"}}
	if _, err := Fills(raw); err == nil {
		t.Error("expected error for unknown side")
	}
}

func TestFills_MissingPrice(t *testing.T) {
	raw := []hyperliquid.Fill{{TimeMs: 1000, Side: "B", Px: "", Sz: "1"}}
	if _, err := Fills(raw); err == nil {
		t.Error("expected error for missing price")
	}
}

func TestResolveTVL(t *testing.T) {
	withTVL := &domain.VaultDetail{TVL: fptr(1000)}
	if v := ResolveTVL(withTVL); v == nil || *v != 1000 {
		t.Errorf("ResolveTVL = %v, want 1000", v)
	}

	fromHistory := &domain.VaultDetail{
		Portfolio: map[string]domain.PeriodHistory{
			domain.PeriodAllTime: {AccountValue: []domain.ValuePoint{
				{TimestampMs: 0, Value: 500},
				{TimestampMs: 1, Value: 900},
				{TimestampMs: 2, Value: 700},
			}},
		},
	}
	if v := ResolveTVL(fromHistory); v == nil || *v != 900 {
		t.Errorf("ResolveTVL fallback = %v, want 900", v)
	}

	if v := ResolveTVL(&domain.VaultDetail{}); v != nil {
		t.Errorf("ResolveTVL empty = %v, want nil", *v)
	}
}

func TestResolveAPR(t *testing.T) {
	if v := ResolveAPR(fptr(0.2), fptr(0.3)); v == nil || *v != 0.2 {
		t.Errorf("detail APR should win: %v", v)
	}
	if v := ResolveAPR(nil, fptr(0.3)); v == nil || *v != 0.3 {
		t.Errorf("entry APR fallback: %v", v)
	}
	if v := ResolveAPR(nil, nil); v != nil {
		t.Errorf("both absent: %v", *v)
	}
	if v := ResolveAPR(fptr(math.NaN()), nil); v != nil {
		t.Errorf("NaN treated as absent: %v", *v)
	}
}
