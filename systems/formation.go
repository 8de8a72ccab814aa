package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarmsort/components"
)

// FormationSystem moves the whole swarm as a group, bypassing targeting.
type FormationSystem struct {
	posMap *ecs.Map1[components.Position]
	velMap *ecs.Map1[components.Velocity]
	rotMap *ecs.Map1[components.Rotation]

	// Phase rotates the patrol stations around the center (radians).
	Phase float32
}

// NewFormationSystem creates a formation mover over the world's components.
func NewFormationSystem(w *ecs.World) *FormationSystem {
	return &FormationSystem{
		posMap: ecs.NewMap1[components.Position](w),
		velMap: ecs.NewMap1[components.Velocity](w),
		rotMap: ecs.NewMap1[components.Rotation](w),
	}
}

// Advance rotates the patrol stations by spin*dt.
func (f *FormationSystem) Advance(spin, dt float32) {
	f.Phase = normalizeAngle(f.Phase + spin*dt)
}

// PatrolStation returns the station of ship i out of n on a circle of the
// given radius around (cx, cy), rotated by phase.
func PatrolStation(i, n int, cx, cy, radius, phase float32) components.Position {
	if n <= 0 {
		return components.Position{X: cx, Y: cy}
	}
	angle := float64(phase) + 2*math.Pi*float64(i)/float64(n)
	return components.Position{
		X: cx + radius*float32(math.Cos(angle)),
		Y: cy + radius*float32(math.Sin(angle)),
	}
}

// RunPatrol spreads the ships at equal angles around (cx, cy) and steers each
// to its station. Inside stationThreshold a ship slows to speed*stationFactor
// so it holds the station instead of overshooting it.
func (f *FormationSystem) RunPatrol(ships []ecs.Entity, cx, cy, radius, speed, stationThreshold, stationFactor float32) {
	n := len(ships)
	deadband := stationThreshold * stationThreshold
	for i, ship := range ships {
		pos := f.posMap.Get(ship)
		station := PatrolStation(i, n, cx, cy, radius, f.Phase)

		s := speed
		if DistSq(*pos, station) < deadband {
			s = speed * stationFactor
		}
		Steer(*pos, f.velMap.Get(ship), f.rotMap.Get(ship), station, s)
	}
}

// ColumnSlot returns the point spacing units behind lead on the line from
// follower to lead.
func ColumnSlot(lead, follower components.Position, spacing float32) components.Position {
	angle := math.Atan2(float64(lead.Y-follower.Y), float64(lead.X-follower.X))
	return components.Position{
		X: lead.X - spacing*float32(math.Cos(angle)),
		Y: lead.Y - spacing*float32(math.Sin(angle)),
	}
}

// RunColumn steers the first ship to (tx, ty) and every other ship to the
// slot behind the ship ahead of it, forming a trailing line.
func (f *FormationSystem) RunColumn(ships []ecs.Entity, tx, ty, spacing, speed float32) {
	if len(ships) == 0 {
		return
	}
	leader := ships[0]
	Steer(*f.posMap.Get(leader), f.velMap.Get(leader), f.rotMap.Get(leader), components.Position{X: tx, Y: ty}, speed)

	for i := 1; i < len(ships); i++ {
		lead := *f.posMap.Get(ships[i-1])
		pos := *f.posMap.Get(ships[i])
		slot := ColumnSlot(lead, pos, spacing)
		Steer(pos, f.velMap.Get(ships[i]), f.rotMap.Get(ships[i]), slot, speed)
	}
}
