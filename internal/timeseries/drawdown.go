package timeseries

import "hyperliquid-vault-lab/internal/domain"

// MaxDrawdown returns the worst fractional decline from a running peak over
// the series. Points reached while the running peak is non-positive are
// undefined and skipped; with no defined point the result is nil.
func MaxDrawdown(samples []domain.ValuePoint) *float64 {
	if len(samples) == 0 {
		return nil
	}

	peak := samples[0].Value
	maxDD := -1.0
	for _, s := range samples {
		if s.Value > peak {
			peak = s.Value
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - s.Value) / peak
		if dd > maxDD {
			maxDD = dd
		}
	}

	if maxDD < 0 {
		return nil
	}
	return &maxDD
}

// CurrentDrawdown returns the fractional decline of the last sample from the
// all-time peak, or nil when the peak is non-positive or the series empty.
func CurrentDrawdown(samples []domain.ValuePoint) *float64 {
	if len(samples) == 0 {
		return nil
	}

	peak := samples[0].Value
	for _, s := range samples[1:] {
		if s.Value > peak {
			peak = s.Value
		}
	}
	if peak <= 0 {
		return nil
	}

	dd := (peak - samples[len(samples)-1].Value) / peak
	return &dd
}

// RecoveryOptions parameterizes drawdown episode detection.
type RecoveryOptions struct {
	// MinDrawdown is the fractional decline from the running peak at which
	// an episode opens (0.10 = 10%).
	MinDrawdown float64
}

// RecoveryDurations returns the duration in days of every drawdown episode
// that completed recovery within the observed window. An episode opens when
// the drawdown from the running peak reaches MinDrawdown and completes when
// a new peak is set. Episodes still underwater at the end of the series are
// excluded; they are neither zero-duration nor infinite.
func RecoveryDurations(samples []domain.ValuePoint, opts RecoveryOptions) []float64 {
	var durations []float64

	peak := -1.0
	var episodeStartMs int64
	inEpisode := false

	for _, s := range samples {
		if s.Value > peak {
			if inEpisode {
				days := float64(s.TimestampMs-episodeStartMs) / msPerDay
				if days > 0 {
					durations = append(durations, days)
				}
				inEpisode = false
			}
			peak = s.Value
			continue
		}
		if inEpisode || peak <= 0 {
			continue
		}
		if (peak-s.Value)/peak >= opts.MinDrawdown {
			episodeStartMs = s.TimestampMs
			inEpisode = true
		}
	}

	return durations
}
