// Package orchestrator runs the full fetch -> normalize -> aggregate ->
// store pass over all vaults.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"hyperliquid-vault-lab/internal/domain"
	"hyperliquid-vault-lab/internal/hyperliquid"
	"hyperliquid-vault-lab/internal/ingestion"
	"hyperliquid-vault-lab/internal/metrics"
	"hyperliquid-vault-lab/internal/normalize"
	"hyperliquid-vault-lab/internal/observability"
	"hyperliquid-vault-lab/internal/storage"
)

// Options configures an Orchestrator. Client, MetricsStore and Logger
// are required; HistoryStore and Observability are optional.
type Options struct {
	Client        hyperliquid.Client
	MetricsStore  storage.VaultMetricsStore
	HistoryStore  storage.MetricsHistoryStore
	Observability *observability.Metrics
	Logger        *logrus.Logger

	Workers    int
	VaultLimit int

	// Now supplies the aggregation timestamp. Defaults to time.Now.
	Now func() time.Time
}

// RunResult summarizes one ETL pass.
type RunResult struct {
	VaultsDiscovered int
	VaultsProcessed  int
	VaultsStored     int
	HistoryRows      int
	Duration         time.Duration
	Errors           []string

	// Leaders are the distinct leader addresses of the processed vaults,
	// sorted. Fill streams subscribe per leader, not per vault.
	Leaders []string
}

type Orchestrator struct {
	fetcher      *ingestion.Fetcher
	metricsStore storage.VaultMetricsStore
	historyStore storage.MetricsHistoryStore
	obs          *observability.Metrics
	logger       *logrus.Entry
	vaultLimit   int
	now          func() time.Time
}

func New(opts Options) (*Orchestrator, error) {
	if opts.Client == nil {
		return nil, errors.New("orchestrator: client is required")
	}
	if opts.MetricsStore == nil {
		return nil, errors.New("orchestrator: metrics store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		fetcher:      ingestion.NewFetcher(opts.Client, opts.Workers, logger),
		metricsStore: opts.MetricsStore,
		historyStore: opts.HistoryStore,
		obs:          opts.Observability,
		logger:       logger.WithField("component", "orchestrator"),
		vaultLimit:   opts.VaultLimit,
		now:          now,
	}, nil
}

// Run executes one full pass. Per-vault failures are collected in
// RunResult.Errors; Run itself fails only when the vault listing or a
// bulk store write fails.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	result := &RunResult{}

	data, err := o.fetcher.FetchAll(ctx, o.vaultLimit)
	if err != nil {
		o.observeRun("error", 0)
		return nil, err
	}
	result.VaultsDiscovered = len(data)
	if o.obs != nil {
		o.obs.VaultsDiscovered.Set(float64(len(data)))
	}

	records := o.process(data, result)
	result.VaultsProcessed = len(records)

	for _, rec := range records {
		if err := o.metricsStore.Upsert(ctx, rec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("upsert %s: %v", rec.VaultAddress, err))
			if o.obs != nil {
				o.obs.DBQueryErrors.WithLabelValues("postgres", "upsert").Inc()
			}
			continue
		}
		result.VaultsStored++
		if o.obs != nil {
			o.obs.VaultsUpserted.Inc()
		}
	}

	if o.historyStore != nil && len(records) > 0 {
		if err := o.historyStore.InsertBulk(ctx, records); err != nil {
			if o.obs != nil {
				o.obs.DBQueryErrors.WithLabelValues("clickhouse", "insert_bulk").Inc()
			}
			o.observeRun("error", time.Since(started).Seconds())
			return result, fmt.Errorf("write history: %w", err)
		}
		result.HistoryRows = len(records)
		if o.obs != nil {
			o.obs.HistoryRowsWritten.Add(float64(len(records)))
		}
	}

	result.Duration = time.Since(started)
	status := "ok"
	if len(result.Errors) > 0 {
		status = "partial"
	}
	o.observeRun(status, result.Duration.Seconds())
	if o.obs != nil && result.VaultsStored > 0 {
		o.obs.LastSuccessfulRun.SetToCurrentTime()
	}

	o.logger.WithFields(logrus.Fields{
		"discovered": result.VaultsDiscovered,
		"processed":  result.VaultsProcessed,
		"stored":     result.VaultsStored,
		"errors":     len(result.Errors),
		"duration":   result.Duration.Round(time.Millisecond),
	}).Info("etl run finished")
	return result, nil
}

// process normalizes and aggregates each fetched vault, skipping the
// ones that fail and recording their errors.
func (o *Orchestrator) process(data []ingestion.VaultData, result *RunResult) []*domain.VaultMetrics {
	now := o.now()
	records := make([]*domain.VaultMetrics, 0, len(data))
	leaders := make(map[string]struct{})
	for i := range data {
		vd := &data[i]
		if vd.Err != nil {
			result.Errors = append(result.Errors, vd.Err.Error())
			if o.obs != nil {
				o.obs.FetchErrors.WithLabelValues("fetch").Inc()
			}
			continue
		}
		if o.obs != nil {
			o.obs.VaultsFetched.Inc()
		}

		rec, err := o.aggregateOne(now, vd)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("vault %s: %v", vd.Address, err))
			if o.obs != nil {
				o.obs.AggregationFailures.Inc()
			}
			o.logger.WithError(err).WithField("vault", vd.Address).Warn("vault aggregation failed")
			continue
		}
		records = append(records, rec)
		if vd.Detail != nil && vd.Detail.Leader != "" {
			leaders[vd.Detail.Leader] = struct{}{}
		}
		if o.obs != nil {
			o.obs.VaultsAggregated.Inc()
		}
	}

	result.Leaders = make([]string, 0, len(leaders))
	for l := range leaders {
		result.Leaders = append(result.Leaders, l)
	}
	sort.Strings(result.Leaders)
	return records
}

func (o *Orchestrator) aggregateOne(now time.Time, vd *ingestion.VaultData) (*domain.VaultMetrics, error) {
	detail, err := normalize.Detail(vd.Detail, &vd.Entry.Summary)
	if err != nil {
		return nil, fmt.Errorf("normalize detail: %w", err)
	}
	detail.APR = normalize.ResolveAPR(detail.APR, vd.Entry.APR)
	fills, err := normalize.Fills(vd.Fills)
	if err != nil {
		return nil, fmt.Errorf("normalize fills: %w", err)
	}
	return metrics.Aggregate(now, vd.Address, detail, fills)
}

func (o *Orchestrator) observeRun(status string, seconds float64) {
	if o.obs == nil {
		return
	}
	o.obs.RunsTotal.WithLabelValues(status).Inc()
	if seconds > 0 {
		o.obs.RunDuration.Observe(seconds)
	}
}
