package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarmsort/components"
)

// drawClaimLines connects every claiming ship to its resource.
// Approaching ships draw gray, pushing ships draw in the resource's color.
func (a *App) drawClaimLines() {
	claims := a.game.Targeting().Claims()
	ships := a.game.Ships()
	for i := 0; i < claims.Len() && i < len(ships); i++ {
		target, ok := claims.Target(i)
		if !ok || !a.game.World().Alive(target) {
			continue
		}
		sp := a.posMap.Get(ships[i])
		rp := a.posMap.Get(target)

		color := rl.Color{R: 120, G: 120, B: 120, A: 90}
		if a.shipMap.Get(ships[i]).State == components.ShipPushing {
			if m := int(a.resMap.Get(target).Material); m < len(a.materialColors) {
				color = rl.Fade(a.materialColors[m], 0.6)
			}
		}
		rl.DrawLineV(rl.Vector2{X: sp.X, Y: sp.Y}, rl.Vector2{X: rp.X, Y: rp.Y}, color)
	}
}

// drawSearchRings shows the initial and maximum search radius around a ship.
func (a *App) drawSearchRings(pos components.Position) {
	p := a.game.Targeting().Params().Search
	rl.DrawCircleLines(int32(pos.X), int32(pos.Y), p.Radius, rl.Color{R: 80, G: 200, B: 255, A: 120})
	rl.DrawCircleLines(int32(pos.X), int32(pos.Y), p.MaxRadius, rl.Color{R: 80, G: 200, B: 255, A: 50})
}
