package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarmsort/components"
)

// PhysicsSystem integrates commanded velocities and accumulated forces.
// It stands in for a rigid-body engine: no collisions, linear damping only.
type PhysicsSystem struct {
	filter *ecs.Filter4[components.Position, components.Velocity, components.Body, components.Force]
	resMap *ecs.Map1[components.Resource]
	velMap *ecs.Map1[components.Velocity]
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		filter: ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Force](w),
		resMap: ecs.NewMap1[components.Resource](w),
		velMap: ecs.NewMap1[components.Velocity](w),
	}
}

// Update advances every body by dt.
// Velocity picks up force/mass, then damping scales it by 1/(1+dt*damping),
// then position moves by the damped velocity. Forces are cleared afterwards.
func (s *PhysicsSystem) Update(dt float32) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, force := query.Get()
		Integrate(pos, vel, body, force, dt)
	}
}

// Integrate advances a single body by dt.
func Integrate(pos *components.Position, vel *components.Velocity, body *components.Body, force *components.Force, dt float32) {
	if body.Mass > 0 {
		vel.X += force.X / body.Mass * dt
		vel.Y += force.Y / body.Mass * dt
	}
	if body.Damping > 0 {
		scale := 1 / (1 + dt*body.Damping)
		vel.X *= scale
		vel.Y *= scale
	}
	pos.X += vel.X * dt
	pos.Y += vel.Y * dt
	force.X = 0
	force.Y = 0
}

// LimitDelivered caps the speed of resources sitting in their zone so they
// settle instead of drifting back out.
func (s *PhysicsSystem) LimitDelivered(resources []ecs.Entity, limit float32) {
	if limit <= 0 {
		return
	}
	for _, e := range resources {
		if !s.resMap.Get(e).InCorrectArea {
			continue
		}
		ClampSpeed(s.velMap.Get(e), limit)
	}
}

// ClampSpeed scales vel down to at most limit, keeping its direction.
func ClampSpeed(vel *components.Velocity, limit float32) {
	speedSq := vel.X*vel.X + vel.Y*vel.Y
	if speedSq <= limit*limit {
		return
	}
	scale := limit / float32(math.Sqrt(float64(speedSq)))
	vel.X *= scale
	vel.Y *= scale
}
