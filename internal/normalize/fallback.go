package normalize

import "hyperliquid-vault-lab/internal/domain"

// ResolveTVL returns the vault's capital under management. When the summary
// TVL is absent or non-positive it falls back to the maximum account value
// observed in the all-time history; with neither available the metric is
// undefined.
func ResolveTVL(d *domain.VaultDetail) *float64 {
	if d == nil {
		return nil
	}
	if d.TVL != nil && *d.TVL > 0 {
		v := *d.TVL
		return &v
	}

	history := d.Period(domain.PeriodAllTime).AccountValue
	if len(history) == 0 {
		return nil
	}
	max := history[0].Value
	for _, p := range history[1:] {
		if p.Value > max {
			max = p.Value
		}
	}
	return &max
}

// ResolveAPR prefers the detail-level APR and falls back to the listing
// entry's APR. Non-finite values are treated as absent.
func ResolveAPR(detailAPR, entryAPR *float64) *float64 {
	if v := copyFinite(detailAPR); v != nil {
		return v
	}
	return copyFinite(entryAPR)
}

// ResolveInceptionMs returns the vault's creation time. When the summary
// creation timestamp is absent it falls back to the first all-time history
// sample; with neither available the age is undefined.
func ResolveInceptionMs(d *domain.VaultDetail) *int64 {
	if d == nil {
		return nil
	}
	if d.CreateTimeMs != nil && *d.CreateTimeMs > 0 {
		ms := *d.CreateTimeMs
		return &ms
	}

	history := d.Period(domain.PeriodAllTime).AccountValue
	if len(history) == 0 {
		return nil
	}
	ms := history[0].TimestampMs
	return &ms
}
