// Package timeseries derives ordered intermediate sequences from a vault's
// account-value history and fill history: daily returns, the drawdown curve,
// recovery intervals and position holding intervals. All functions are pure;
// inputs are expected chronologically ordered (non-decreasing timestamps,
// gaps and duplicates allowed).
package timeseries

import "hyperliquid-vault-lab/internal/domain"

const msPerDay = 24 * 60 * 60 * 1000

// DayIndex maps a millisecond timestamp to its UTC calendar day ordinal.
func DayIndex(ms int64) int64 {
	if ms < 0 {
		return (ms - msPerDay + 1) / msPerDay
	}
	return ms / msPerDay
}

// DailyReturns resamples the account-value series to one value per UTC
// calendar day, keeping the last sample of each day, and returns the simple
// return between consecutive observed days. Days without samples are
// skipped, so the result may be shorter than the day span. Pairs whose base
// value is zero produce no return.
func DailyReturns(samples []domain.ValuePoint) []float64 {
	if len(samples) < 2 {
		return nil
	}

	// Last sample of each observed day, in order.
	var daily []float64
	curDay := DayIndex(samples[0].TimestampMs)
	curVal := samples[0].Value
	for _, s := range samples[1:] {
		d := DayIndex(s.TimestampMs)
		if d != curDay {
			daily = append(daily, curVal)
			curDay = d
		}
		curVal = s.Value
	}
	daily = append(daily, curVal)

	if len(daily) < 2 {
		return nil
	}

	var returns []float64
	for i := 1; i < len(daily); i++ {
		if daily[i-1] == 0 {
			continue
		}
		returns = append(returns, (daily[i]-daily[i-1])/daily[i-1])
	}
	return returns
}

// WindowReturn computes the simple return over a trailing window ending at
// the last sample: the first sample at or after lastTimestamp-windowMs
// against the last sample. Returns nil when fewer than two samples fall
// inside the window or the base value is zero.
func WindowReturn(samples []domain.ValuePoint, windowMs int64) *float64 {
	if len(samples) < 2 {
		return nil
	}

	last := samples[len(samples)-1]
	threshold := last.TimestampMs - windowMs

	base := -1
	for i, s := range samples {
		if s.TimestampMs >= threshold {
			base = i
			break
		}
	}
	if base < 0 || base == len(samples)-1 {
		return nil
	}
	if samples[base].Value == 0 {
		return nil
	}

	r := (last.Value - samples[base].Value) / samples[base].Value
	return &r
}
