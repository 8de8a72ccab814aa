// Package telemetry provides run statistics, bookmarks and CSV output.
package telemetry

// TargetingCounts carries the per-tick counters of the targeting pass.
type TargetingCounts struct {
	Claims          int
	Conflicts       int
	Delivered       int
	ReleasedRemoved int
	Misses          int
	Expansions      int
}

// SwarmSnapshot describes the swarm at the moment a window is flushed.
type SwarmSnapshot struct {
	Ships       int
	Resources   int
	Sorted      int
	Money       int
	Approaching int
	Pushing     int
	Idle        int

	// Distances of unsorted resources to their zones.
	ZoneDistances []float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	targeting TargetingCounts
	spawned   int
	removed   int
	purchases int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordTargeting adds one tick of targeting counters.
func (c *Collector) RecordTargeting(tc TargetingCounts) {
	c.targeting.Claims += tc.Claims
	c.targeting.Conflicts += tc.Conflicts
	c.targeting.Delivered += tc.Delivered
	c.targeting.ReleasedRemoved += tc.ReleasedRemoved
	c.targeting.Misses += tc.Misses
	c.targeting.Expansions += tc.Expansions
}

// RecordSpawn records spawned resources.
func (c *Collector) RecordSpawn(n int) {
	c.spawned += n
}

// RecordRemoval records resources removed from the pool.
func (c *Collector) RecordRemoval(n int) {
	c.removed += n
}

// RecordPurchase records an economy purchase.
func (c *Collector) RecordPurchase() {
	c.purchases++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap SwarmSnapshot) WindowStats {
	var sortedFrac, expansionsPerFind, deliveriesPerSec float64
	if snap.Resources > 0 {
		sortedFrac = float64(snap.Sorted) / float64(snap.Resources)
	}
	if c.targeting.Claims > 0 {
		expansionsPerFind = float64(c.targeting.Expansions) / float64(c.targeting.Claims)
	}
	if elapsed := float64(currentTick-c.windowStartTick) * float64(c.dt); elapsed > 0 {
		deliveriesPerSec = float64(c.targeting.Delivered) / elapsed
	}

	distMean, distStd, distP10, distP50, distP90 := ComputeDistanceStats(snap.ZoneDistances)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Ships:      snap.Ships,
		Resources:  snap.Resources,
		Sorted:     snap.Sorted,
		SortedFrac: sortedFrac,
		Money:      snap.Money,

		Approaching: snap.Approaching,
		Pushing:     snap.Pushing,
		Idle:        snap.Idle,

		Claims:            c.targeting.Claims,
		Conflicts:         c.targeting.Conflicts,
		Delivered:         c.targeting.Delivered,
		ReleasedRemoved:   c.targeting.ReleasedRemoved,
		Misses:            c.targeting.Misses,
		Expansions:        c.targeting.Expansions,
		ExpansionsPerFind: expansionsPerFind,
		DeliveriesPerSec:  deliveriesPerSec,

		Spawned:   c.spawned,
		Removed:   c.removed,
		Purchases: c.purchases,

		DistMean: distMean,
		DistStd:  distStd,
		DistP10:  distP10,
		DistP50:  distP50,
		DistP90:  distP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.targeting = TargetingCounts{}
	c.spawned = 0
	c.removed = 0
	c.purchases = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
