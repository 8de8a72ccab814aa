package systems

import (
	"github.com/mlange-42/ark/ecs"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/pthm-cable/swarmsort/components"
)

// GravityCollector pulls undelivered resources toward their zones.
// Strength is the purchased level; zero disables the collector.
type GravityCollector struct {
	Force     float32 // force per level
	Tolerance float64 // no pull inside this radius of the zone
	Strength  int

	posMap   *ecs.Map1[components.Position]
	forceMap *ecs.Map1[components.Force]
	resMap   *ecs.Map1[components.Resource]
}

// NewGravityCollector creates an inactive collector.
func NewGravityCollector(w *ecs.World, force float32, tolerance float64) *GravityCollector {
	return &GravityCollector{
		Force:     force,
		Tolerance: tolerance,
		posMap:    ecs.NewMap1[components.Position](w),
		forceMap:  ecs.NewMap1[components.Force](w),
		resMap:    ecs.NewMap1[components.Resource](w),
	}
}

// Active reports whether the collector has been bought.
func (g *GravityCollector) Active() bool {
	return g.Strength > 0
}

// Upgrade raises the collector by one level.
func (g *GravityCollector) Upgrade() {
	g.Strength++
}

// Apply adds the pull toward each resource's zone to its force accumulator.
// It returns the number of resources pulled.
func (g *GravityCollector) Apply(resources []ecs.Entity, zones ZoneMap) int {
	if !g.Active() {
		return 0
	}
	magnitude := g.Force * float32(g.Strength)
	tolSq := g.Tolerance * g.Tolerance
	pulled := 0
	for _, e := range resources {
		res := g.resMap.Get(e)
		if res.Removed {
			continue
		}
		zone, ok := zones.Zone(res.Material)
		if !ok {
			continue
		}
		pos := g.posMap.Get(e)
		if planar.DistanceSquared(orb.Point{float64(pos.X), float64(pos.Y)}, zone) <= tolSq {
			continue
		}
		dir, _, ok := MoveTowards(*pos, components.Position{X: float32(zone.X()), Y: float32(zone.Y())}, magnitude)
		if !ok {
			continue
		}
		f := g.forceMap.Get(e)
		f.X += dir.X
		f.Y += dir.Y
		pulled++
	}
	return pulled
}
