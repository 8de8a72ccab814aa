package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/swarmsort/components"
)

func TestPatrolStation(t *testing.T) {
	tests := []struct {
		name  string
		i, n  int
		phase float32
		want  components.Position
	}{
		{"first of four", 0, 4, 0, components.Position{X: 600, Y: 100}},
		{"second of four", 1, 4, 0, components.Position{X: 100, Y: 600}},
		{"third of four", 2, 4, 0, components.Position{X: -400, Y: 100}},
		{"rotated by phase", 0, 4, math.Pi / 2, components.Position{X: 100, Y: 600}},
		{"empty swarm", 0, 0, 0, components.Position{X: 100, Y: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PatrolStation(tt.i, tt.n, 100, 100, 500, tt.phase)
			if !approx(got.X, tt.want.X, 1e-2) || !approx(got.Y, tt.want.Y, 1e-2) {
				t.Errorf("station = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRunPatrol(t *testing.T) {
	tw := newTestWorld()
	far := tw.addShip(0, 0)           // station (500, 0)
	stationed := tw.addShip(-495, 10) // station (-500, 0)
	f := NewFormationSystem(tw.w)

	f.RunPatrol(tw.ships, 0, 0, 500, 100, 20, 0.25)

	if got := speedOf(*tw.vel.Get(far)); !approx(got, 100, 1e-2) {
		t.Errorf("far ship speed = %v, want 100", got)
	}
	v := *tw.vel.Get(far)
	if v.X <= 0 || !approx(v.Y, 0, 1e-3) {
		t.Errorf("far ship should head +x, got %+v", v)
	}

	if got := speedOf(*tw.vel.Get(stationed)); !approx(got, 25, 1e-2) {
		t.Errorf("ship inside the deadband should slow to 25, got %v", got)
	}
}

func TestFormationAdvanceWrapsPhase(t *testing.T) {
	f := &FormationSystem{}
	for i := 0; i < 100; i++ {
		f.Advance(1, 0.5)
	}
	if f.Phase < -math.Pi || f.Phase > math.Pi {
		t.Errorf("phase %v not wrapped", f.Phase)
	}
	want := normalizeAngle(float32(math.Mod(50, 2*math.Pi)))
	if !approx(f.Phase, want, 1e-3) {
		t.Errorf("phase = %v, want %v", f.Phase, want)
	}
}

func TestColumnSlot(t *testing.T) {
	lead := components.Position{X: 100, Y: 0}
	follower := components.Position{X: 0, Y: 0}

	slot := ColumnSlot(lead, follower, 60)
	if !approx(slot.X, 40, 1e-3) || !approx(slot.Y, 0, 1e-3) {
		t.Errorf("slot = %+v, want (40, 0)", slot)
	}
}

func TestRunColumn(t *testing.T) {
	tw := newTestWorld()
	leader := tw.addShip(0, 0)
	second := tw.addShip(-200, 0)
	third := tw.addShip(-200, -200)
	f := NewFormationSystem(tw.w)

	f.RunColumn(tw.ships, 0, 300, 60, 150)

	lv := *tw.vel.Get(leader)
	if !approx(lv.X, 0, 1e-3) || !approx(lv.Y, 150, 1e-3) {
		t.Errorf("leader should fly to the target, got %+v", lv)
	}
	sv := *tw.vel.Get(second)
	if !approx(sv.X, 150, 1e-3) || !approx(sv.Y, 0, 1e-3) {
		t.Errorf("second ship should close on the leader, got %+v", sv)
	}
	tv := *tw.vel.Get(third)
	if !approx(tv.X, 0, 1e-3) || !approx(tv.Y, 150, 1e-3) {
		t.Errorf("third ship should close on the second, got %+v", tv)
	}
}

func TestRunColumnEmpty(t *testing.T) {
	f := NewFormationSystem(newTestWorld().w)
	f.RunColumn(nil, 0, 0, 60, 100)
}
