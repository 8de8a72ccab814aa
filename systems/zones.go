package systems

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/pthm-cable/swarmsort/components"
	"github.com/pthm-cable/swarmsort/config"
)

// ZoneMap maps each material to the world point its resources are delivered to.
// It is read-only during play.
type ZoneMap []orb.Point

// ZonesFromConfig builds the zone map in material order.
func ZonesFromConfig(cfg *config.Config) ZoneMap {
	zones := make(ZoneMap, len(cfg.Materials))
	for i, m := range cfg.Materials {
		zones[i] = orb.Point{m.ZoneX, m.ZoneY}
	}
	return zones
}

// Zone returns the target point of material m.
func (z ZoneMap) Zone(m components.Material) (orb.Point, bool) {
	if int(m) >= len(z) {
		return orb.Point{}, false
	}
	return z[m], true
}

// Position returns the zone of m as a component position.
func (z ZoneMap) Position(m components.Material) (components.Position, bool) {
	p, ok := z.Zone(m)
	if !ok {
		return components.Position{}, false
	}
	return components.Position{X: float32(p.X()), Y: float32(p.Y())}, true
}

// IsDelivered reports whether a resource at pos lies within tolerance of its
// zone. Tombstoned resources and unknown materials are never delivered.
// The predicate is pure and may be called any number of times.
func IsDelivered(res *components.Resource, pos components.Position, zones ZoneMap, tolerance float64) bool {
	if res == nil || res.Removed {
		return false
	}
	zone, ok := zones.Zone(res.Material)
	if !ok {
		return false
	}
	p := orb.Point{float64(pos.X), float64(pos.Y)}
	return planar.DistanceSquared(p, zone) <= tolerance*tolerance
}

// ZoneDistance returns the distance from pos to the zone of m.
func ZoneDistance(m components.Material, pos components.Position, zones ZoneMap) float64 {
	zone, ok := zones.Zone(m)
	if !ok {
		return 0
	}
	return planar.Distance(orb.Point{float64(pos.X), float64(pos.Y)}, zone)
}
