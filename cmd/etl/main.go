// Package main provides a one-shot ETL run: fetch all vaults, compute
// their metrics and upsert the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hyperliquid-vault-lab/internal/config"
	"hyperliquid-vault-lab/internal/hyperliquid"
	"hyperliquid-vault-lab/internal/orchestrator"
	"hyperliquid-vault-lab/internal/storage"
	chstore "hyperliquid-vault-lab/internal/storage/clickhouse"
	"hyperliquid-vault-lab/internal/storage/memory"
	"hyperliquid-vault-lab/internal/storage/migrations"
	pgstore "hyperliquid-vault-lab/internal/storage/postgres"
)

func main() {
	useMemory := flag.Bool("use-memory", false, "Use in-memory stores instead of databases")
	vaultLimit := flag.Int("vault-limit", -1, "Max vaults to process (-1 uses VAULT_LIMIT)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	if *vaultLimit >= 0 {
		cfg.VaultLimit = *vaultLimit
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig).Info("shutting down")
		cancel()
	}()

	metricsStore, historyStore, cleanup, err := buildStores(ctx, cfg, *useMemory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Store setup error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	client := hyperliquid.NewHTTPClient(
		hyperliquid.WithStatsURL(cfg.StatsURL),
		hyperliquid.WithInfoURL(cfg.InfoURL),
		hyperliquid.WithRateLimit(cfg.RateLimit),
	)

	orch, err := orchestrator.New(orchestrator.Options{
		Client:       client,
		MetricsStore: metricsStore,
		HistoryStore: historyStore,
		Logger:       logger,
		Workers:      cfg.FetchWorkers,
		VaultLimit:   cfg.VaultLimit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Orchestrator error: %v\n", err)
		os.Exit(1)
	}

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ETL run completed in %s:\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("  Discovered: %d\n", result.VaultsDiscovered)
	fmt.Printf("  Processed:  %d\n", result.VaultsProcessed)
	fmt.Printf("  Stored:     %d\n", result.VaultsStored)
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors:     %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
}

// buildStores wires the metrics and history stores. The history store is
// nil when no ClickHouse DSN is configured.
func buildStores(ctx context.Context, cfg config.Config, useMemory bool) (storage.VaultMetricsStore, storage.MetricsHistoryStore, func(), error) {
	if useMemory {
		return memory.NewVaultMetricsStore(), memory.NewMetricsHistoryStore(), func() {}, nil
	}
	if cfg.PostgresDSN == "" {
		return nil, nil, nil, fmt.Errorf("POSTGRES_DSN is required (or pass -use-memory)")
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}
	metricsStore := pgstore.NewVaultMetricsStore(pool)
	cleanup := pool.Close

	var historyStore storage.MetricsHistoryStore
	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		historyStore = chstore.NewMetricsHistoryStore(conn)
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	}
	return metricsStore, historyStore, cleanup, nil
}
