package systems

import (
	"testing"

	"github.com/pthm-cable/swarmsort/components"
)

func TestIntegrate(t *testing.T) {
	tests := []struct {
		name    string
		vel     components.Velocity
		body    components.Body
		force   components.Force
		dt      float32
		wantVel components.Velocity
		wantPos components.Position
	}{
		{
			name:    "free flight",
			vel:     components.Velocity{X: 10, Y: -5},
			body:    components.Body{Mass: 1},
			dt:      1,
			wantVel: components.Velocity{X: 10, Y: -5},
			wantPos: components.Position{X: 10, Y: -5},
		},
		{
			name:    "damping",
			vel:     components.Velocity{X: 10},
			body:    components.Body{Mass: 1, Damping: 1},
			dt:      1,
			wantVel: components.Velocity{X: 5},
			wantPos: components.Position{X: 5},
		},
		{
			name:    "force over mass",
			body:    components.Body{Mass: 2},
			force:   components.Force{X: 4, Y: 8},
			dt:      0.5,
			wantVel: components.Velocity{X: 1, Y: 2},
			wantPos: components.Position{X: 0.5, Y: 1},
		},
		{
			name:    "massless ignores force",
			body:    components.Body{},
			force:   components.Force{X: 100},
			dt:      1,
			wantVel: components.Velocity{},
			wantPos: components.Position{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := components.Position{}
			vel := tt.vel
			force := tt.force

			Integrate(&pos, &vel, &tt.body, &force, tt.dt)

			if !approx(vel.X, tt.wantVel.X, 1e-5) || !approx(vel.Y, tt.wantVel.Y, 1e-5) {
				t.Errorf("vel = %+v, want %+v", vel, tt.wantVel)
			}
			if !approx(pos.X, tt.wantPos.X, 1e-5) || !approx(pos.Y, tt.wantPos.Y, 1e-5) {
				t.Errorf("pos = %+v, want %+v", pos, tt.wantPos)
			}
			if force != (components.Force{}) {
				t.Errorf("force not cleared: %+v", force)
			}
		})
	}
}

func TestPhysicsSystemUpdate(t *testing.T) {
	tw := newTestWorld()
	ship := tw.addShip(0, 0)
	res := tw.addResource(100, 100, matWater)
	*tw.vel.Get(ship) = components.Velocity{X: 60}
	*tw.vel.Get(res) = components.Velocity{Y: -60}

	phys := NewPhysicsSystem(tw.w)
	phys.Update(0.5)

	if p := tw.pos.Get(ship); p.X <= 0 || p.Y != 0 {
		t.Errorf("ship did not move along x: %+v", *p)
	}
	if p := tw.pos.Get(res); p.X != 100 || p.Y >= 100 {
		t.Errorf("resource did not move along -y: %+v", *p)
	}
}

func TestClampSpeed(t *testing.T) {
	vel := components.Velocity{X: 300, Y: 400}
	ClampSpeed(&vel, 100)
	if !approx(vel.X, 60, 1e-3) || !approx(vel.Y, 80, 1e-3) {
		t.Errorf("clamped vel = %+v, want (60, 80)", vel)
	}

	slow := components.Velocity{X: 3, Y: 4}
	ClampSpeed(&slow, 100)
	if slow != (components.Velocity{X: 3, Y: 4}) {
		t.Errorf("slow velocity changed to %+v", slow)
	}
}

func TestLimitDeliveredOnlyTouchesDelivered(t *testing.T) {
	tw := newTestWorld()
	inZone := tw.addResource(1440, 270, matIron)
	loose := tw.addResource(0, 0, matIron)
	tw.res.Get(inZone).InCorrectArea = true
	*tw.vel.Get(inZone) = components.Velocity{X: 500}
	*tw.vel.Get(loose) = components.Velocity{X: 500}

	NewPhysicsSystem(tw.w).LimitDelivered(tw.resources, 100)

	if got := speedOf(*tw.vel.Get(inZone)); !approx(got, 100, 1e-3) {
		t.Errorf("delivered speed = %v, want 100", got)
	}
	if got := speedOf(*tw.vel.Get(loose)); got != 500 {
		t.Errorf("undelivered speed = %v, want 500", got)
	}
}
