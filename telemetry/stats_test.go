package telemetry

import (
	"math"
	"testing"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"constant", []float64{7, 7, 7, 7}, 0.9, 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Quantile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistanceStats(t *testing.T) {
	values := []float64{900, 100, 500, 300, 700}
	mean, std, p10, p50, p90 := ComputeDistanceStats(values)

	if math.Abs(mean-500) > 0.001 {
		t.Errorf("mean = %v, want 500", mean)
	}
	if std <= 0 {
		t.Errorf("std = %v, want > 0", std)
	}
	if !(p10 <= p50 && p50 <= p90) {
		t.Errorf("quantiles out of order: p10=%v p50=%v p90=%v", p10, p50, p90)
	}
	if p50 != 500 {
		t.Errorf("p50 = %v, want 500", p50)
	}

	// Input must not be reordered.
	if values[0] != 900 || values[1] != 100 {
		t.Errorf("input was modified: %v", values)
	}
}

func TestComputeDistanceStatsSmall(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeDistanceStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}

	mean, std, p10, p50, p90 = ComputeDistanceStats([]float64{42})
	if mean != 42 || std != 0 || p10 != 42 || p50 != 42 || p90 != 42 {
		t.Errorf("single value stats = %v %v %v %v %v", mean, std, p10, p50, p90)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.5) // two ticks per window

	if c.WindowDurationTicks() != 2 {
		t.Fatalf("window ticks = %d, want 2", c.WindowDurationTicks())
	}
	if c.ShouldFlush(1) {
		t.Error("should not flush after one tick")
	}

	c.RecordTargeting(TargetingCounts{Claims: 2, Delivered: 1, Expansions: 3})
	c.RecordTargeting(TargetingCounts{Claims: 1, Misses: 4})
	c.RecordSpawn(5)
	c.RecordRemoval(2)
	c.RecordPurchase()

	if !c.ShouldFlush(2) {
		t.Fatal("expected flush after two ticks")
	}
	s := c.Flush(2, SwarmSnapshot{Ships: 3, Resources: 10, Sorted: 4, ZoneDistances: []float64{10, 20}})

	if s.Claims != 3 || s.Delivered != 1 || s.Misses != 4 || s.Expansions != 3 {
		t.Errorf("unexpected targeting counts: %+v", s)
	}
	if s.Spawned != 5 || s.Removed != 2 || s.Purchases != 1 {
		t.Errorf("unexpected churn counts: %+v", s)
	}
	if math.Abs(s.SortedFrac-0.4) > 1e-9 {
		t.Errorf("sorted frac = %v, want 0.4", s.SortedFrac)
	}
	if math.Abs(s.ExpansionsPerFind-1) > 1e-9 {
		t.Errorf("expansions per find = %v, want 1", s.ExpansionsPerFind)
	}
	if math.Abs(s.DeliveriesPerSec-1) > 1e-9 {
		t.Errorf("deliveries per sec = %v, want 1", s.DeliveriesPerSec)
	}
	if math.Abs(s.DistMean-15) > 1e-9 {
		t.Errorf("dist mean = %v, want 15", s.DistMean)
	}

	// Counters reset for the next window.
	s = c.Flush(4, SwarmSnapshot{})
	if s.Claims != 0 || s.Spawned != 0 || s.WindowStartTick != 2 {
		t.Errorf("counters not reset: %+v", s)
	}
}
