package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Ships      int     `csv:"ships"`
	Resources  int     `csv:"resources"`
	Sorted     int     `csv:"sorted"`
	SortedFrac float64 `csv:"sorted_frac"`
	Money      int     `csv:"money"`

	// Ship states at window end
	Approaching int `csv:"approaching"`
	Pushing     int `csv:"pushing"`
	Idle        int `csv:"idle"`

	// Targeting events during window
	Claims            int     `csv:"claims"`
	Conflicts         int     `csv:"conflicts"`
	Delivered         int     `csv:"delivered"`
	ReleasedRemoved   int     `csv:"released_removed"`
	Misses            int     `csv:"misses"`
	Expansions        int     `csv:"expansions"`
	ExpansionsPerFind float64 `csv:"expansions_per_find"`
	DeliveriesPerSec  float64 `csv:"deliveries_per_sec"`

	// Pool churn during window
	Spawned   int `csv:"spawned"`
	Removed   int `csv:"removed"`
	Purchases int `csv:"purchases"`

	// Distance of unsorted resources to their zones (sampled at window end)
	DistMean float64 `csv:"dist_mean"`
	DistStd  float64 `csv:"dist_std"`
	DistP10  float64 `csv:"dist_p10"`
	DistP50  float64 `csv:"dist_p50"`
	DistP90  float64 `csv:"dist_p90"`
}

// Quantile returns the p-quantile of sorted values using the empirical CDF.
// p should be in [0, 1]. Returns 0 if the slice is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeDistanceStats calculates mean, std and quantiles of distances.
// values is not modified.
func ComputeDistanceStats(values []float64) (mean, std, p10, p50, p90 float64) {
	switch len(values) {
	case 0:
		return 0, 0, 0, 0, 0
	case 1:
		return values[0], 0, values[0], values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	p10 = Quantile(sorted, 0.10)
	p50 = Quantile(sorted, 0.50)
	p90 = Quantile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("ships", s.Ships),
		slog.Int("resources", s.Resources),
		slog.Int("sorted", s.Sorted),
		slog.Float64("sorted_frac", s.SortedFrac),
		slog.Int("money", s.Money),
		slog.Int("approaching", s.Approaching),
		slog.Int("pushing", s.Pushing),
		slog.Int("idle", s.Idle),
		slog.Int("claims", s.Claims),
		slog.Int("conflicts", s.Conflicts),
		slog.Int("delivered", s.Delivered),
		slog.Int("released_removed", s.ReleasedRemoved),
		slog.Int("misses", s.Misses),
		slog.Float64("expansions_per_find", s.ExpansionsPerFind),
		slog.Float64("deliveries_per_sec", s.DeliveriesPerSec),
		slog.Int("spawned", s.Spawned),
		slog.Int("removed", s.Removed),
		slog.Float64("dist_mean", s.DistMean),
		slog.Float64("dist_p50", s.DistP50),
		slog.Float64("dist_p90", s.DistP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"ships", s.Ships,
		"resources", s.Resources,
		"sorted", s.Sorted,
		"sorted_frac", s.SortedFrac,
		"money", s.Money,
		"approaching", s.Approaching,
		"pushing", s.Pushing,
		"idle", s.Idle,
		"claims", s.Claims,
		"conflicts", s.Conflicts,
		"delivered", s.Delivered,
		"released_removed", s.ReleasedRemoved,
		"misses", s.Misses,
		"expansions", s.Expansions,
		"deliveries_per_sec", s.DeliveriesPerSec,
		"spawned", s.Spawned,
		"removed", s.Removed,
		"purchases", s.Purchases,
		"dist_mean", s.DistMean,
		"dist_std", s.DistStd,
		"dist_p10", s.DistP10,
		"dist_p50", s.DistP50,
		"dist_p90", s.DistP90,
	)
}
