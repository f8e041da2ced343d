// Package main runs the vault metrics service: a cron-scheduled ETL
// pass, a Prometheus metrics endpoint and an optional websocket fill
// stream that marks active vaults for refresh.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"hyperliquid-vault-lab/internal/config"
	"hyperliquid-vault-lab/internal/hyperliquid"
	"hyperliquid-vault-lab/internal/ingestion"
	"hyperliquid-vault-lab/internal/observability"
	"hyperliquid-vault-lab/internal/orchestrator"
	"hyperliquid-vault-lab/internal/storage"
	chstore "hyperliquid-vault-lab/internal/storage/clickhouse"
	"hyperliquid-vault-lab/internal/storage/memory"
	"hyperliquid-vault-lab/internal/storage/migrations"
	pgstore "hyperliquid-vault-lab/internal/storage/postgres"
)

type server struct {
	orch   *orchestrator.Orchestrator
	obs    *observability.Metrics
	logger *logrus.Logger
	dirty  *ingestion.DirtySet

	stream     *hyperliquid.FillStream
	subscribed map[string]struct{}

	mu         sync.Mutex
	running    bool
	lastResult *orchestrator.RunResult
	lastRunAt  time.Time
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig).Info("shutting down")
		cancel()
	}()

	metricsStore, historyStore, cleanup, err := buildStores(ctx, cfg, logger)
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

	obs := observability.NewMetrics("")
	orch, err := orchestrator.New(orchestrator.Options{
		Client:        client,
		MetricsStore:  metricsStore,
		HistoryStore:  historyStore,
		Observability: obs,
		Logger:        logger,
		Workers:       cfg.FetchWorkers,
		VaultLimit:    cfg.VaultLimit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Orchestrator error: %v\n", err)
		os.Exit(1)
	}

	srv := &server{
		orch:       orch,
		obs:        obs,
		logger:     logger,
		dirty:      ingestion.NewDirtySet(),
		subscribed: make(map[string]struct{}),
	}

	if cfg.StreamEnable {
		if err := srv.startStream(ctx, cfg); err != nil {
			logger.WithError(err).Warn("fill stream disabled")
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() { srv.runOnce(ctx) }); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid schedule %q: %v\n", cfg.Schedule, err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	go srv.serveHTTP(ctx, cfg.MetricsAddr)

	// First pass immediately so the service is useful before the first
	// cron tick.
	srv.runOnce(ctx)

	<-ctx.Done()
	logger.Info("server stopped")
}

// runOnce executes one ETL pass, skipping if a pass is already running.
func (s *server) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("etl run still in progress, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if dirty := s.dirty.Drain(); len(dirty) > 0 {
		s.logger.WithField("vaults", len(dirty)).Info("vaults active since last run")
	}
	s.obs.DirtyVaults.Set(0)

	result, err := s.orch.Run(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.WithError(err).Error("etl run failed")
		}
		return
	}

	s.mu.Lock()
	s.lastResult = result
	s.lastRunAt = time.Now().UTC()
	s.mu.Unlock()

	s.syncSubscriptions(result.Leaders)
}

// syncSubscriptions subscribes the fill stream to any leader that
// appeared since the previous pass. Fills are published per leader
// account, not per vault address.
func (s *server) syncSubscriptions(leaders []string) {
	if s.stream == nil {
		return
	}

	for _, leader := range leaders {
		if _, ok := s.subscribed[leader]; ok {
			continue
		}
		if err := s.stream.Subscribe(leader); err != nil {
			s.logger.WithError(err).WithField("leader", leader).
				Warn("fill stream subscribe failed")
			continue
		}
		s.subscribed[leader] = struct{}{}
	}
}

func (s *server) startStream(ctx context.Context, cfg config.Config) error {
	streamCfg := hyperliquid.DefaultFillStreamConfig()
	streamCfg.OnReconnect = func() { s.obs.WSReconnects.Inc() }

	stream, err := hyperliquid.NewFillStream(ctx, cfg.WSURL, &streamCfg, s.logger)
	if err != nil {
		return fmt.Errorf("connect fill stream: %w", err)
	}
	s.stream = stream

	watcher := ingestion.NewStreamWatcher(stream, s.dirty, s.logger)
	watcher.SetEventHook(func(ev hyperliquid.UserFillsEvent) {
		s.obs.WSFillEvents.Inc()
		s.obs.DirtyVaults.Set(float64(s.dirty.Len()))
	})

	go watcher.Run(ctx)
	go func() {
		<-ctx.Done()
		stream.Close()
	}()
	return nil
}

func (s *server) serveHTTP(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		last := s.lastRunAt
		s.mu.Unlock()
		if last.IsZero() {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintln(w, "no successful run yet")
			return
		}
		fmt.Fprintf(w, "ok, last run %s\n", last.Format(time.RFC3339))
	})

	httpSrv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	s.logger.WithField("addr", addr).Info("metrics endpoint listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.WithError(err).Error("metrics endpoint failed")
	}
}

func buildStores(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.VaultMetricsStore, storage.MetricsHistoryStore, func(), error) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory stores")
		return memory.NewVaultMetricsStore(), memory.NewMetricsHistoryStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}
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
	return pgstore.NewVaultMetricsStore(pool), historyStore, cleanup, nil
}
