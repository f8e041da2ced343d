package reporting

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RenderMarkdown renders a vault leaderboard as Markdown. topN limits
// the leaderboard table; the summary counts always cover every record.
func RenderMarkdown(r *Report, topN int) string {
	var sb strings.Builder

	sb.WriteString("# Vault Metrics Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Vaults: %d\n\n", r.TotalVaults))

	sb.WriteString("## Leaderboard\n\n")
	top := r.Top(topN)
	if len(top) == 0 {
		sb.WriteString("No vault metrics available.\n")
		return sb.String()
	}

	sb.WriteString("| # | Vault | Name | Sharpe | APR % | Max DD % | Win Rate % | TVL | Followers | Age (days) |\n")
	sb.WriteString("|---|-------|------|--------|-------|----------|------------|-----|-----------|------------|\n")
	for i, m := range top {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			i+1,
			shortAddress(m.VaultAddress),
			m.Name,
			mdFloat(m.SharpeRatio, 2),
			mdFloat(m.APR, 2),
			mdFloat(m.MaxDrawdown, 2),
			mdFloat(m.WinRate, 1),
			mdFloat(m.TVL, 0),
			mdInt(m.FollowerCount),
			mdInt(m.VaultAgeDays),
		))
	}
	sb.WriteString("\n")

	sb.WriteString("## Coverage\n\n")
	sb.WriteString("| Metric | Defined |\n")
	sb.WriteString("|--------|---------|\n")
	defined := map[string]int{}
	for _, m := range r.Records {
		if m.SharpeRatio != nil {
			defined["sharpe_ratio"]++
		}
		if m.WinRate != nil {
			defined["win_rate"]++
		}
		if m.TVL != nil {
			defined["tvl"]++
		}
		if m.MaxDrawdown != nil {
			defined["max_drawdown"]++
		}
	}
	for _, name := range []string{"sharpe_ratio", "max_drawdown", "win_rate", "tvl"} {
		sb.WriteString(fmt.Sprintf("| %s | %d/%d |\n", name, defined[name], r.TotalVaults))
	}
	sb.WriteString("\n")

	return sb.String()
}

// mdFloat formats an optional float with the given precision, "n/a"
// when undefined.
func mdFloat(v *float64, prec int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func mdInt(v *int64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatInt(*v, 10)
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + ".." + addr[len(addr)-4:]
}
