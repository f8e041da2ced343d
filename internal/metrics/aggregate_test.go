package metrics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"hyperliquid-vault-lab/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

// series builds one value point per day starting at day 0 UTC.
func series(values ...float64) []domain.ValuePoint {
	out := make([]domain.ValuePoint, len(values))
	for i, v := range values {
		out[i] = domain.ValuePoint{TimestampMs: int64(i) * msPerDay, Value: v}
	}
	return out
}

func detailWith(accountValue, pnl []domain.ValuePoint) *domain.VaultDetail {
	return &domain.VaultDetail{
		Address: "0xabc",
		Name:    "Test Vault",
		Portfolio: map[string]domain.PeriodHistory{
			domain.PeriodAllTime: {AccountValue: accountValue, PnL: pnl},
		},
	}
}

func TestAggregate_ContractViolations(t *testing.T) {
	if _, err := Aggregate(testNow, "", detailWith(nil, nil), nil); err == nil {
		t.Error("expected error for empty address")
	}
	if _, err := Aggregate(testNow, "0xabc", nil, nil); err == nil {
		t.Error("expected error for nil detail")
	}
}

func TestAggregate_NoDataYieldsAllUndefined(t *testing.T) {
	detail := &domain.VaultDetail{Address: "0xabc", Name: "Empty Vault"}

	m, err := Aggregate(testNow, "0xabc", detail, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if m.VaultAddress != "0xabc" || m.Name != "Empty Vault" {
		t.Errorf("identity fields = %q, %q", m.VaultAddress, m.Name)
	}
	if m.LastUpdatedMs != testNow.UnixMilli() {
		t.Errorf("LastUpdatedMs = %d, want %d", m.LastUpdatedMs, testNow.UnixMilli())
	}

	// Every metric pointer must be nil: missing data is undefined, not zero.
	v := reflect.ValueOf(*m)
	typ := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).Kind() != reflect.Ptr {
			continue
		}
		if !v.Field(i).IsNil() {
			t.Errorf("field %s = %v, want nil", typ.Field(i).Name, v.Field(i).Elem())
		}
	}
}

func TestAggregate_NoFiniteValuesEverStored(t *testing.T) {
	// A single-point history with zero values pushes several calculators
	// toward division by zero; all of them must degrade to nil.
	detail := detailWith(series(0, 0), series(0, 0))
	detail.APR = fptr(0.5)

	m, err := Aggregate(testNow, "0xabc", detail, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	v := reflect.ValueOf(*m)
	typ := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() {
			continue
		}
		if f.Type().Elem().Kind() != reflect.Float64 {
			continue
		}
		val := f.Elem().Float()
		if math.IsNaN(val) || math.IsInf(val, 0) {
			t.Errorf("field %s = %v, non-finite value stored", typ.Field(i).Name, val)
		}
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	detail := detailWith(series(100, 110, 99, 105, 120), series(0, 10, -1, 5, 20))
	detail.APR = fptr(0.25)
	detail.TVL = fptr(50000)
	detail.FollowerCount = func() *int64 { n := int64(10); return &n }()

	fills := []domain.Fill{
		{TimestampMs: 2 * msPerDay, Side: domain.SideBuy, Size: 2, Price: 100},
		{TimestampMs: 3 * msPerDay, Side: domain.SideSell, Size: 2, Price: 105, ClosedPnl: fptr(10), Fee: fptr(0.4)},
	}

	a, err := Aggregate(testNow, "0xabc", detail, fills)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Aggregate(testNow, "0xabc", detail, fills)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("runs differ:\n%+v\n%+v", a, b)
	}
}

func TestAggregate_FillOrderIrrelevant(t *testing.T) {
	detail := detailWith(series(100, 110, 120), nil)

	fills := []domain.Fill{
		{TimestampMs: 0, Side: domain.SideBuy, Size: 1, Price: 100},
		{TimestampMs: 1000, Side: domain.SideSell, Size: 1, Price: 110, ClosedPnl: fptr(10)},
	}
	shuffled := []domain.Fill{fills[1], fills[0]}

	a, err := Aggregate(testNow, "0xabc", detail, fills)
	if err != nil {
		t.Fatalf("sorted run: %v", err)
	}
	b, err := Aggregate(testNow, "0xabc", detail, shuffled)
	if err != nil {
		t.Fatalf("shuffled run: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("fill order changed the result:\n%+v\n%+v", a, b)
	}
}
