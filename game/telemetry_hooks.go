package game

import (
	"log/slog"

	"github.com/pthm-cable/swarmsort/components"
	"github.com/pthm-cable/swarmsort/systems"
	"github.com/pthm-cable/swarmsort/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	// Flush the stats window
	stats := g.collector.Flush(g.tick, g.swarmSnapshot())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
			snap := g.Snapshot()
			snap.Bookmark = &bm
			if _, err := g.outputManager.WriteSnapshot(snap); err != nil {
				slog.Error("failed to save snapshot", "error", err)
			}
		}
	}
}

// swarmSnapshot samples ship states and the distance of every undelivered
// resource to its zone.
func (g *Game) swarmSnapshot() telemetry.SwarmSnapshot {
	snap := telemetry.SwarmSnapshot{
		Ships:     len(g.ships),
		Resources: len(g.resources),
		Sorted:    g.sorted,
		Money:     g.sorted,
	}

	for _, e := range g.ships {
		switch g.shipMap.Get(e).State {
		case components.ShipApproaching:
			snap.Approaching++
		case components.ShipPushing:
			snap.Pushing++
		default:
			snap.Idle++
		}
	}

	snap.ZoneDistances = make([]float64, 0, max(len(g.resources)-g.sorted, 0))
	for _, e := range g.resources {
		res := g.resMap.Get(e)
		if res.InCorrectArea || res.Removed {
			continue
		}
		snap.ZoneDistances = append(snap.ZoneDistances, systems.ZoneDistance(res.Material, *g.posMap.Get(e), g.zones))
	}

	return snap
}

// Snapshot captures the full swarm state at the current tick.
func (g *Game) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		RNGSeed:   g.rngSeed,
		Tick:      g.tick,
		Mode:      g.mode.String(),
		Money:     g.sorted,
		Zones:     make([]telemetry.ZoneState, len(g.zones)),
		Ships:     make([]telemetry.ShipState, len(g.ships)),
		Resources: make([]telemetry.ResourceState, 0, len(g.resources)),
	}

	for m, z := range g.zones {
		snap.Zones[m] = telemetry.ZoneState{Material: components.Material(m), X: z.X(), Y: z.Y()}
	}

	claims := g.targeting.Claims()
	for i, e := range g.ships {
		ship := g.shipMap.Get(e)
		pos := g.posMap.Get(e)
		vel := g.velMap.Get(e)
		st := telemetry.ShipState{
			ID:      ship.ID,
			State:   ship.State,
			X:       pos.X,
			Y:       pos.Y,
			VelX:    vel.X,
			VelY:    vel.Y,
			Heading: g.rotMap.Get(e).Heading,
		}
		if target, ok := claims.Target(i); ok && g.world.Alive(target) {
			st.Target = g.resMap.Get(target).ID
		}
		snap.Ships[i] = st
	}

	for _, e := range g.resources {
		res := g.resMap.Get(e)
		if res.Removed {
			continue
		}
		pos := g.posMap.Get(e)
		snap.Resources = append(snap.Resources, telemetry.ResourceState{
			ID:            res.ID,
			Material:      res.Material,
			X:             pos.X,
			Y:             pos.Y,
			Targeted:      res.Targeted,
			InCorrectArea: res.InCorrectArea,
		})
	}

	return snap
}
