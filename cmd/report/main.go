// Package main renders stored vault metrics as a CSV export or a
// Markdown leaderboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"hyperliquid-vault-lab/internal/config"
	"hyperliquid-vault-lab/internal/reporting"
	pgstore "hyperliquid-vault-lab/internal/storage/postgres"
)

func main() {
	format := flag.String("format", "markdown", "Output format: markdown or csv")
	top := flag.Int("top", 20, "Leaderboard size for markdown output (0 = all)")
	output := flag.String("output", "", "Output file (default stdout)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "POSTGRES_DSN is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connect postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	records, err := pgstore.NewVaultMetricsStore(pool).List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List vault metrics: %v\n", err)
		os.Exit(1)
	}

	report := reporting.BuildReport(time.Now(), records)

	var rendered string
	switch *format {
	case "csv":
		rendered = reporting.RenderCSV(report)
	case "markdown", "md":
		rendered = reporting.RenderMarkdown(report, *top)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format %q\n", *format)
		os.Exit(1)
	}

	if *output == "" {
		fmt.Print(rendered)
		return
	}
	if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Write %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d vaults)\n", *output, report.TotalVaults)
}
