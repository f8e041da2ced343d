// Package metrics derives the 30 per-vault metrics from a normalized vault
// detail record and its fill history. Every calculator is a pure function;
// a metric that cannot be computed from the available inputs stays nil (the
// undefined sentinel), never zero and never NaN or infinity.
package metrics

import "math"

// Annualization constants shared by the risk calculators.
const (
	riskFreeRateAnnual = 0.05 // 5% annual
	daysPerYear        = 365
	dailyRiskFree      = riskFreeRateAnnual / daysPerYear
	msPerDay           = 24 * 60 * 60 * 1000
)

// recoveryMinDrawdown is the episode-opening threshold for the average
// recovery days metric: declines shallower than this never open an episode.
const recoveryMinDrawdown = 0.10

// finite returns a pointer to v, or nil when v is NaN or infinite. Every
// metric assignment goes through it so arithmetic edge cases degrade to the
// undefined sentinel instead of leaking non-finite values.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func intPtr(v int64) *int64 {
	return &v
}

// mean computes the arithmetic mean. Callers guard against empty input.
func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStddev computes the sample standard deviation (n-1 denominator).
// Returns 0 for fewer than 2 values; callers treat that as undefined.
func sampleStddev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// popStddev computes the population standard deviation (n denominator).
func popStddev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n))
}
