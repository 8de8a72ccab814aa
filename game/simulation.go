package game

import (
	"github.com/pthm-cable/swarmsort/telemetry"
)

// Update runs StepsPerUpdate ticks unless paused.
func (g *Game) Update() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// UpdateHeadless runs StepsPerUpdate ticks, ignoring pause.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Step runs a single tick of the simulation.
func (g *Game) Step() {
	dt := g.cfg.Derived.DT32
	g.perfCollector.StartTick(len(g.ships))

	// 1. Swarm movement. Both branches refresh the in-area cache exactly once.
	if g.mode == ModeSort {
		g.perfCollector.StartPhase(telemetry.PhaseTargeting)
		g.targeting.AdvanceTick(g.ships, g.resources, g.zones, g.speed)
		g.recordTargeting()
	} else {
		g.perfCollector.StartPhase(telemetry.PhaseFormation)
		g.targeting.RefreshDelivery(g.resources, g.zones)
		g.updateFormation(dt)
		g.replenishIfLow()
	}

	// 2. Balance, delivered speed cap, auto delivery
	g.perfCollector.StartPhase(telemetry.PhaseEconomy)
	g.updateEconomy()

	// 3. Zone attraction
	g.perfCollector.StartPhase(telemetry.PhaseGravity)
	g.gravity.Apply(g.resources, g.zones)

	// 4. Integrate
	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.physics.Update(dt)

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// updateFormation steers the swarm around the player.
func (g *Game) updateFormation(dt float32) {
	cfg := g.cfg
	anchor := g.posMap.Get(g.player)

	switch g.mode {
	case ModeCircle:
		g.formation.Advance(float32(cfg.Patrol.Spin), dt)
		g.formation.RunPatrol(g.ships, anchor.X, anchor.Y,
			float32(cfg.Patrol.Radius), g.speed,
			float32(cfg.Patrol.StationThreshold), float32(cfg.Patrol.StationFactor))
	case ModeFollow:
		g.formation.RunColumn(g.ships, anchor.X, anchor.Y, float32(cfg.Column.Spacing), g.speed)
	}
}

// replenishIfLow keeps the pool topped up while targeting is not running.
func (g *Game) replenishIfLow() {
	if len(g.resources) < g.cfg.Resources.LowWater {
		g.SpawnResources(g.cfg.Resources.ReplenishCount, nil)
	}
}

// recordTargeting forwards the tick counters to the stats collector.
func (g *Game) recordTargeting() {
	st := g.targeting.Stats()
	g.collector.RecordTargeting(telemetry.TargetingCounts{
		Claims:          st.Claims,
		Conflicts:       st.Conflicts,
		Delivered:       st.ReleasedDelivered,
		ReleasedRemoved: st.ReleasedRemoved,
		Misses:          st.Misses,
		Expansions:      st.Expansions,
	})
}
