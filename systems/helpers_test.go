package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarmsort/components"
)

const (
	matWater components.Material = iota
	matIron
)

// testZones mirrors the default zone layout for the first two materials.
var testZones = ZoneMap{
	{480, 270},  // water
	{1440, 270}, // iron
}

// testWorld is a minimal world with ship and resource archetypes.
type testWorld struct {
	w *ecs.World

	shipMapper *ecs.Map6[components.Position, components.Velocity, components.Rotation,
		components.Body, components.Force, components.Ship]
	resMapper *ecs.Map6[components.Position, components.Velocity, components.Rotation,
		components.Body, components.Force, components.Resource]

	pos   *ecs.Map1[components.Position]
	vel   *ecs.Map1[components.Velocity]
	rot   *ecs.Map1[components.Rotation]
	force *ecs.Map1[components.Force]
	ship  *ecs.Map1[components.Ship]
	res   *ecs.Map1[components.Resource]

	ships     []ecs.Entity
	resources []ecs.Entity
	nextID    uint32
}

func newTestWorld() *testWorld {
	w := ecs.NewWorld()
	return &testWorld{
		w: w,
		shipMapper: ecs.NewMap6[components.Position, components.Velocity, components.Rotation,
			components.Body, components.Force, components.Ship](w),
		resMapper: ecs.NewMap6[components.Position, components.Velocity, components.Rotation,
			components.Body, components.Force, components.Resource](w),
		pos:   ecs.NewMap1[components.Position](w),
		vel:   ecs.NewMap1[components.Velocity](w),
		rot:   ecs.NewMap1[components.Rotation](w),
		force: ecs.NewMap1[components.Force](w),
		ship:  ecs.NewMap1[components.Ship](w),
		res:   ecs.NewMap1[components.Resource](w),
	}
}

func (tw *testWorld) addShip(x, y float32) ecs.Entity {
	tw.nextID++
	e := tw.shipMapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Velocity{},
		&components.Rotation{},
		&components.Body{Radius: 20, Mass: 1, Damping: 5},
		&components.Force{},
		&components.Ship{ID: tw.nextID},
	)
	tw.ships = append(tw.ships, e)
	return e
}

func (tw *testWorld) addResource(x, y float32, m components.Material) ecs.Entity {
	tw.nextID++
	e := tw.resMapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Velocity{},
		&components.Rotation{},
		&components.Body{Radius: 10, Mass: 314, Damping: 1},
		&components.Force{},
		&components.Resource{ID: tw.nextID, Material: m},
	)
	tw.resources = append(tw.resources, e)
	return e
}

// removeResource tombstones e, detaches it from any claim and evicts it.
func (tw *testWorld) removeResource(ts *TargetingSystem, e ecs.Entity) {
	tw.res.Get(e).Removed = true
	ts.ReleaseResource(tw.ships, e)
	for i, r := range tw.resources {
		if r == e {
			tw.resources = append(tw.resources[:i], tw.resources[i+1:]...)
			break
		}
	}
	tw.w.RemoveEntity(e)
}

func testParams() TargetingParams {
	return TargetingParams{
		Search:         SearchParams{Radius: 1000, Step: 500, MaxRadius: 8000},
		ShipRadius:     20,
		ResourceRadius: 10,
		PushMultiplier: 1.001,
		Tolerance:      200,
	}
}

func approx(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func speedOf(v components.Velocity) float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

func requireValid(t *testing.T, ts *TargetingSystem, resources []ecs.Entity) {
	t.Helper()
	for _, err := range ts.Validate(resources) {
		t.Error(err)
	}
}
