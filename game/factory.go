package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarmsort/components"
)

// createShip adds a swarm ship to the world. The caller owns slice bookkeeping.
// IDs start at 1.
func (g *Game) createShip(x, y float32) ecs.Entity {
	g.nextShipID++
	id := g.nextShipID

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	rot := components.Rotation{Heading: g.rng.Float32() * 2 * math.Pi}
	body := components.ShipBody(g.cfg)
	force := components.Force{}
	ship := components.Ship{
		ID:    id,
		Color: shipColor(g.rng.Uint32()),
		State: components.ShipUnassigned,
	}

	return g.shipMapper.NewEntity(&pos, &vel, &rot, &body, &force, &ship)
}

// createResource adds a resource of material m to the world.
func (g *Game) createResource(x, y float32, m components.Material) ecs.Entity {
	g.nextResourceID++
	id := g.nextResourceID

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	rot := components.Rotation{}
	body := components.ResourceBody(g.cfg)
	force := components.Force{}
	res := components.Resource{ID: id, Material: m}

	return g.resMapper.NewEntity(&pos, &vel, &rot, &body, &force, &res)
}

// createPlayer adds the manually flown anchor ship.
func (g *Game) createPlayer(x, y float32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	rot := components.Rotation{}
	body := components.ShipBody(g.cfg)
	force := components.Force{}

	return g.playerMapper.NewEntity(&pos, &vel, &rot, &body, &force, &components.Player{})
}

// shipColor keeps every channel in the upper half so ships stay visible on
// the dark background.
func shipColor(r uint32) uint32 {
	return 0x808080 | (r & 0x7F7F7F)
}
