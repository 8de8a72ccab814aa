package game

import (
	"github.com/paulmach/orb"

	"github.com/pthm-cable/swarmsort/components"
)

// toPoint converts a component position to a planar point.
func toPoint(p components.Position) orb.Point {
	return orb.Point{float64(p.X), float64(p.Y)}
}

// fromPoint converts a planar point to a component position.
func fromPoint(p orb.Point) components.Position {
	return components.Position{X: float32(p.X()), Y: float32(p.Y())}
}

// worldCenter returns the middle of the nominal play area.
func (g *Game) worldCenter() orb.Point {
	return g.bounds.Center()
}
