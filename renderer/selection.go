package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
)

// maxHoverDistance is the screen-space slack around a body that still counts as hovering.
const maxHoverDistance = 6.0

// hoverTarget is the entity under the cursor, if any.
type hoverTarget struct {
	entity ecs.Entity
	ship   bool
	slot   int // claim slot for ships
	ok     bool
}

// updateHover finds the ship or resource under the mouse cursor.
// Ships win over resources when both are in reach.
func (a *App) updateHover() {
	a.hover = hoverTarget{}
	m := rl.GetMousePosition()
	if a.mouseOverPanel() {
		return
	}
	wx, wy := a.camera.ScreenToWorld(m.X, m.Y)
	slack := float32(maxHoverDistance) / a.camera.Zoom

	best := float32(-1)
	consider := func(e ecs.Entity, ship bool, slot int) {
		pos := a.posMap.Get(e)
		reach := a.bodyMap.Get(e).Radius + slack
		dx, dy := pos.X-wx, pos.Y-wy
		d := dx*dx + dy*dy
		if d > reach*reach {
			return
		}
		if best < 0 || d < best || (ship && !a.hover.ship) {
			best = d
			a.hover = hoverTarget{entity: e, ship: ship, slot: slot, ok: true}
		}
	}

	for _, e := range a.game.Resources() {
		consider(e, false, -1)
	}
	for i, e := range a.game.Ships() {
		consider(e, true, i)
	}
}

// drawHoverHighlight outlines the hovered entity in world space.
func (a *App) drawHoverHighlight() {
	if !a.hover.ok || !a.game.World().Alive(a.hover.entity) {
		return
	}
	pos := a.posMap.Get(a.hover.entity)
	body := a.bodyMap.Get(a.hover.entity)
	rl.DrawCircleLines(int32(pos.X), int32(pos.Y), body.Radius*1.8, rl.Yellow)
	if a.hover.ship && a.showSearch {
		a.drawSearchRings(*pos)
	}
}

// drawHoverTooltip describes the hovered entity next to the cursor.
func (a *App) drawHoverTooltip() {
	if !a.hover.ok || !a.game.World().Alive(a.hover.entity) {
		return
	}

	var text string
	if a.hover.ship {
		ship := a.shipMap.Get(a.hover.entity)
		text = fmt.Sprintf("ship %d  %s", ship.ID, ship.State)
		if target, ok := a.game.Targeting().Claims().Target(a.hover.slot); ok {
			if res := a.game.Targeting().Resource(target); res != nil {
				text += fmt.Sprintf(" -> resource %d", res.ID)
			}
		}
	} else {
		res := a.resMap.Get(a.hover.entity)
		name := "?"
		if mats := a.game.Config().Materials; int(res.Material) < len(mats) {
			name = mats[res.Material].Name
		}
		text = fmt.Sprintf("resource %d  %s", res.ID, name)
		switch {
		case res.InCorrectArea:
			text += "  delivered"
		case res.Targeted:
			text += "  claimed"
		}
	}

	m := rl.GetMousePosition()
	x, y := int32(m.X)+14, int32(m.Y)+14
	w := rl.MeasureText(text, 14) + 12
	rl.DrawRectangle(x, y, w, 22, rl.Color{R: 0, G: 0, B: 0, A: 180})
	rl.DrawText(text, x+6, y+4, 14, rl.White)
}
