// Package ingestion pulls vault data from the exchange API in bulk.
package ingestion

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"hyperliquid-vault-lab/internal/hyperliquid"
)

const defaultWorkers = 2

// VaultData is everything fetched for a single vault. Err is set when
// any of the per-vault requests failed; the other fields may then be
// partially populated.
type VaultData struct {
	Address string
	Entry   hyperliquid.VaultEntry
	Detail  *hyperliquid.VaultDetails
	Fills   []hyperliquid.Fill
	Err     error
}

// Fetcher fans per-vault requests out over a bounded worker pool.
type Fetcher struct {
	client  hyperliquid.Client
	workers int
	logger  *logrus.Entry
}

func NewFetcher(client hyperliquid.Client, workers int, logger *logrus.Logger) *Fetcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Fetcher{
		client:  client,
		workers: workers,
		logger:  logger.WithField("component", "ingestion"),
	}
}

// FetchAll lists every vault and fetches details and fills for each.
// limit > 0 caps the number of vaults fetched after listing.
func (f *Fetcher) FetchAll(ctx context.Context, limit int) ([]VaultData, error) {
	entries, err := f.client.VaultEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vaults: %w", err)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	f.logger.WithField("vaults", len(entries)).Info("fetching vault data")
	return f.FetchVaults(ctx, entries), nil
}

// FetchVaults fetches details and fills for the given entries. Results
// keep the order of entries; per-vault failures are recorded in
// VaultData.Err and never abort the rest of the batch.
func (f *Fetcher) FetchVaults(ctx context.Context, entries []hyperliquid.VaultEntry) []VaultData {
	results := make([]VaultData, len(entries))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < f.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = f.fetchOne(ctx, entries[i])
			}
		}()
	}

	for i := range entries {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(entries); j++ {
				results[j] = VaultData{
					Address: entries[j].Summary.VaultAddress,
					Entry:   entries[j],
					Err:     ctx.Err(),
				}
			}
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, entry hyperliquid.VaultEntry) VaultData {
	vd := VaultData{
		Address: entry.Summary.VaultAddress,
		Entry:   entry,
	}

	detail, err := f.client.VaultDetails(ctx, vd.Address)
	if err != nil {
		vd.Err = fmt.Errorf("vault details %s: %w", vd.Address, err)
		f.logger.WithError(err).WithField("vault", vd.Address).Warn("vault details fetch failed")
		return vd
	}
	vd.Detail = detail

	// The fill history lives under the leader account, not the vault
	// address. Fall back to the vault address when the leader is absent.
	user := detail.Leader
	if user == "" {
		user = vd.Address
	}
	fills, err := f.client.UserFills(ctx, user)
	if err != nil {
		vd.Err = fmt.Errorf("user fills %s: %w", user, err)
		f.logger.WithError(err).WithField("vault", vd.Address).Warn("user fills fetch failed")
		return vd
	}
	vd.Fills = fills
	return vd
}
