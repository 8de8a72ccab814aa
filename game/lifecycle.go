package game

import (
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"github.com/paulmach/orb"

	"github.com/pthm-cable/swarmsort/components"
)

// spawnInitial creates the player, the starting swarm and the starting resources.
func (g *Game) spawnInitial() {
	cfg := g.cfg
	center := g.worldCenter()

	g.player = g.createPlayer(float32(center.X())-100, float32(center.Y())-100)

	for i := 0; i < cfg.Ships.Initial; i++ {
		g.SpawnShip()
	}
	g.SpawnResources(cfg.Resources.Initial, nil)
}

// SpawnShip adds a ship near the world center and reports whether it was
// added. It refuses once the swarm reaches ships.max.
func (g *Game) SpawnShip() bool {
	if len(g.ships) >= g.cfg.Ships.Max {
		return false
	}
	center := g.worldCenter()
	// Jitter within one body radius so new ships do not coincide.
	r := g.cfg.Ships.Radius
	x := center.X() + (g.rng.Float64()*2-1)*r
	y := center.Y() + (g.rng.Float64()*2-1)*r

	g.ships = append(g.ships, g.createShip(float32(x), float32(y)))
	return true
}

// SpawnResources adds count resources of random material on a ring of
// resources.spawn_offset around near, or around the player when near is nil.
// It returns the number spawned.
func (g *Game) SpawnResources(count int, near *orb.Point) int {
	if count <= 0 {
		return 0
	}
	origin := toPoint(g.PlayerPosition())
	if near != nil {
		origin = *near
	}

	offset := g.cfg.Resources.SpawnOffset
	materials := len(g.cfg.Materials)
	for i := 0; i < count; i++ {
		angle := g.rng.Float64() * 2 * math.Pi
		x := origin.X() + math.Cos(angle)*offset
		y := origin.Y() + math.Sin(angle)*offset
		m := components.Material(g.rng.Intn(materials))
		g.resources = append(g.resources, g.createResource(float32(x), float32(y), m))
	}

	g.collector.RecordSpawn(count)
	return count
}

// RemoveResource takes e out of play: it is tombstoned, detached from any
// claim, evicted from the live slice and removed from the world, in that order.
// It reports false if e is not a live resource.
func (g *Game) RemoveResource(e ecs.Entity) bool {
	idx := slices.Index(g.resources, e)
	if idx < 0 {
		return false
	}
	g.removeAt(idx)
	g.collector.RecordRemoval(1)
	return true
}

// RemoveDelivered removes up to n resources that sit in their zone, newest
// first, and returns how many were removed.
func (g *Game) RemoveDelivered(n int) int {
	if n <= 0 {
		return 0
	}

	// Collect first, then remove, so indices stay valid while scanning.
	g.removeScratch = g.removeScratch[:0]
	for i := len(g.resources) - 1; i >= 0 && len(g.removeScratch) < n; i-- {
		e := g.resources[i]
		res := g.resMap.Get(e)
		if res.InCorrectArea && !res.Removed {
			g.removeScratch = append(g.removeScratch, e)
		}
	}

	for _, e := range g.removeScratch {
		g.removeAt(slices.Index(g.resources, e))
	}
	removed := len(g.removeScratch)
	g.collector.RecordRemoval(removed)
	return removed
}

// removeAt performs the removal sequence for g.resources[idx].
func (g *Game) removeAt(idx int) {
	e := g.resources[idx]
	g.resMap.Get(e).Removed = true
	g.targeting.ReleaseResource(g.ships, e)
	g.resources = slices.Delete(g.resources, idx, idx+1)
	g.world.RemoveEntity(e)
}
