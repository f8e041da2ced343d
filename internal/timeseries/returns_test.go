package timeseries

import (
	"math"
	"testing"

	"hyperliquid-vault-lab/internal/domain"
)

func pt(dayMs int64, value float64) domain.ValuePoint {
	return domain.ValuePoint{TimestampMs: dayMs, Value: value}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDayIndex(t *testing.T) {
	tests := []struct {
		ms   int64
		want int64
	}{
		{0, 0},
		{msPerDay - 1, 0},
		{msPerDay, 1},
		{3*msPerDay + 1000, 3},
		{-1, -1},
		{-msPerDay, -1},
	}
	for _, tt := range tests {
		if got := DayIndex(tt.ms); got != tt.want {
			t.Errorf("DayIndex(%d) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}

func TestDailyReturns_KeepsLastSamplePerDay(t *testing.T) {
	// Two samples on day 0; only the later one should count.
	samples := []domain.ValuePoint{
		pt(10*60*60*1000, 100),   // day 0, 10:00
		pt(18*60*60*1000, 110),   // day 0, 18:00
		pt(msPerDay+1000, 121),   // day 1
		pt(2*msPerDay+500, 133.1), // day 2
	}

	returns := DailyReturns(samples)
	if len(returns) != 2 {
		t.Fatalf("expected 2 returns, got %d: %v", len(returns), returns)
	}
	if !almostEqual(returns[0], 0.1) {
		t.Errorf("returns[0] = %v, want 0.1", returns[0])
	}
	if !almostEqual(returns[1], 0.1) {
		t.Errorf("returns[1] = %v, want 0.1", returns[1])
	}
}

func TestDailyReturns_SkipsZeroBase(t *testing.T) {
	samples := []domain.ValuePoint{
		pt(0, 0),
		pt(msPerDay, 100),
		pt(2*msPerDay, 110),
	}

	returns := DailyReturns(samples)
	if len(returns) != 1 {
		t.Fatalf("expected 1 return, got %d: %v", len(returns), returns)
	}
	if !almostEqual(returns[0], 0.1) {
		t.Errorf("returns[0] = %v, want 0.1", returns[0])
	}
}

func TestDailyReturns_InsufficientData(t *testing.T) {
	if got := DailyReturns(nil); got != nil {
		t.Errorf("DailyReturns(nil) = %v, want nil", got)
	}
	if got := DailyReturns([]domain.ValuePoint{pt(0, 100)}); got != nil {
		t.Errorf("single sample = %v, want nil", got)
	}
	// Two samples on the same day resample to one value.
	same := []domain.ValuePoint{pt(0, 100), pt(1000, 105)}
	if got := DailyReturns(same); got != nil {
		t.Errorf("same-day samples = %v, want nil", got)
	}
}

func TestWindowReturn(t *testing.T) {
	var samples []domain.ValuePoint
	for i := int64(0); i <= 10; i++ {
		samples = append(samples, pt(i*msPerDay, 100+float64(i)))
	}

	// 7-day window from day 10: base is day 3 (value 103), last is day 10
	// (value 110).
	r := WindowReturn(samples, 7*msPerDay)
	if r == nil {
		t.Fatal("expected defined return")
	}
	want := (110.0 - 103.0) / 103.0
	if !almostEqual(*r, want) {
		t.Errorf("WindowReturn = %v, want %v", *r, want)
	}
}

func TestWindowReturn_Undefined(t *testing.T) {
	if r := WindowReturn(nil, 7*msPerDay); r != nil {
		t.Errorf("empty series: got %v, want nil", *r)
	}
	if r := WindowReturn([]domain.ValuePoint{pt(0, 100)}, 7*msPerDay); r != nil {
		t.Errorf("single sample: got %v, want nil", *r)
	}

	// The only sample inside the window is the last one itself.
	sparse := []domain.ValuePoint{pt(0, 100), pt(40*msPerDay, 150)}
	if r := WindowReturn(sparse, 7*msPerDay); r != nil {
		t.Errorf("sparse series: got %v, want nil", *r)
	}

	// Zero base value.
	zeroBase := []domain.ValuePoint{pt(0, 0), pt(msPerDay, 100)}
	if r := WindowReturn(zeroBase, 7*msPerDay); r != nil {
		t.Errorf("zero base: got %v, want nil", *r)
	}
}
