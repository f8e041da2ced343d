package hyperliquid

import (
	"encoding/json"
	"testing"
)

func TestRawPointUnmarshal(t *testing.T) {
	var p RawPoint
	if err := json.Unmarshal([]byte(`[1700000000000, "123.45"]`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.TimeMs != 1700000000000 || p.Value != "123.45" {
		t.Errorf("point = %+v", p)
	}
}

func TestRawPointUnmarshal_Malformed(t *testing.T) {
	cases := []string{
		`{"time": 1, "value": "2"}`,
		`["not-a-ts", "2"]`,
		`[1, 2.5]`,
	}
	for _, raw := range cases {
		var p RawPoint
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}

func TestPortfolioEntryUnmarshal(t *testing.T) {
	raw := `["allTime", {
		"accountValueHistory": [[1000, "100.5"], [2000, "110"]],
		"pnlHistory": [[1000, "0"]],
		"vlm": "12345.6"
	}]`

	var e PortfolioEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Period != "allTime" {
		t.Errorf("period = %q", e.Period)
	}
	if len(e.Data.AccountValueHistory) != 2 || e.Data.AccountValueHistory[1].Value != "110" {
		t.Errorf("account value history = %+v", e.Data.AccountValueHistory)
	}
	if len(e.Data.PnlHistory) != 1 {
		t.Errorf("pnl history = %+v", e.Data.PnlHistory)
	}
	if e.Data.Vlm != "12345.6" {
		t.Errorf("vlm = %q", e.Data.Vlm)
	}
}

func TestVaultDetailsUnmarshal(t *testing.T) {
	raw := `{
		"name": "Test Vault",
		"vaultAddress": "0xabc",
		"leader": "0xdef",
		"apr": 0.37,
		"leaderCommission": 0.1,
		"followers": [{"user": "0x1", "vaultEquity": "100.0", "pnl": "5.5", "daysFollowing": 30}],
		"portfolio": [["day", {"accountValueHistory": [[1000, "50"]], "pnlHistory": [], "vlm": "0"}]],
		"isClosed": false,
		"allowDeposits": true
	}`

	var d VaultDetails
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.APR == nil || *d.APR != 0.37 {
		t.Errorf("apr = %v", d.APR)
	}
	if len(d.Followers) != 1 || d.Followers[0].DaysVested != 30 {
		t.Errorf("followers = %+v", d.Followers)
	}
	if len(d.Portfolio) != 1 || d.Portfolio[0].Period != "day" {
		t.Errorf("portfolio = %+v", d.Portfolio)
	}
}

func TestVaultDetailsUnmarshal_AbsentAPRStaysNil(t *testing.T) {
	var d VaultDetails
	if err := json.Unmarshal([]byte(`{"name": "x", "vaultAddress": "0xabc"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.APR != nil {
		t.Errorf("apr = %v, want nil", *d.APR)
	}
	if d.LeaderCommission != nil {
		t.Errorf("leaderCommission = %v, want nil", *d.LeaderCommission)
	}
}

func TestVaultEntryUnmarshal(t *testing.T) {
	raw := `{
		"summary": {
			"name": "Test",
			"vaultAddress": "0xabc",
			"leader": "0xdef",
			"tvl": "100000.5",
			"createTimeMillis": 1700000000000,
			"isClosed": false
		},
		"apr": 0.12
	}`

	var e VaultEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Summary.TVL != "100000.5" {
		t.Errorf("tvl = %q", e.Summary.TVL)
	}
	if e.Summary.CreateTimeMillis == nil || *e.Summary.CreateTimeMillis != 1700000000000 {
		t.Errorf("createTimeMillis = %v", e.Summary.CreateTimeMillis)
	}
	if e.APR == nil || *e.APR != 0.12 {
		t.Errorf("apr = %v", e.APR)
	}
}

func TestFillUnmarshal(t *testing.T) {
	raw := `{
		"coin": "ETH",
		"px": "3010.5",
		"sz": "0.25",
		"side": "B",
		"time": 1700000000000,
		"closedPnl": "12.5",
		"fee": "0.75"
	}`

	var f Fill
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Px != "3010.5" || f.Sz != "0.25" || f.Side != "B" || f.TimeMs != 1700000000000 {
		t.Errorf("fill = %+v", f)
	}
	if f.ClosedPnl != "12.5" || f.Fee != "0.75" {
		t.Errorf("pnl/fee = %q, %q", f.ClosedPnl, f.Fee)
	}
}
