package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// drawZones draws each material's target zone and its delivery tolerance.
func (a *App) drawZones() {
	cfg := a.game.Config()
	tol := float32(cfg.Targeting.DeliveryTolerance)

	b := a.game.Bounds()
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      float32(b.Min.X()),
		Y:      float32(b.Min.Y()),
		Width:  float32(b.Max.X() - b.Min.X()),
		Height: float32(b.Max.Y() - b.Min.Y()),
	}, 2/a.camera.Zoom, rl.Color{R: 60, G: 60, B: 80, A: 255})

	for i, zone := range a.game.Zones() {
		c := a.materialColors[i]
		center := rl.Vector2{X: float32(zone.X()), Y: float32(zone.Y())}
		rl.DrawCircleV(center, tol, rl.Fade(c, 0.08))
		rl.DrawCircleLines(int32(center.X), int32(center.Y), tol, rl.Fade(c, 0.6))
		rl.DrawText(cfg.Materials[i].Name, int32(center.X)-20, int32(center.Y)-8, 16, rl.Fade(c, 0.8))
	}
}

// drawResources draws every visible resource in its material color.
// Claimed resources get a white rim.
func (a *App) drawResources() {
	for _, e := range a.game.Resources() {
		pos := a.posMap.Get(e)
		body := a.bodyMap.Get(e)
		if !a.camera.IsVisible(pos.X, pos.Y, body.Radius) {
			continue
		}
		res := a.resMap.Get(e)

		color := rl.White
		if int(res.Material) < len(a.materialColors) {
			color = a.materialColors[res.Material]
		}
		if res.InCorrectArea {
			color = rl.Fade(color, 0.5)
		}

		center := rl.Vector2{X: pos.X, Y: pos.Y}
		rl.DrawCircleV(center, body.Radius, color)
		if res.Targeted {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), body.Radius+2, rl.White)
		}
	}
}

// drawShips renders all ships as oriented triangles.
func (a *App) drawShips() {
	for _, e := range a.game.Ships() {
		pos := a.posMap.Get(e)
		body := a.bodyMap.Get(e)
		if !a.camera.IsVisible(pos.X, pos.Y, body.Radius*1.5) {
			continue
		}
		ship := a.shipMap.Get(e)
		rot := a.rotMap.Get(e)
		drawOrientedTriangle(pos.X, pos.Y, rot.Heading, body.Radius, hexColor(ship.Color, 255))
	}
}

// drawPlayer renders the anchor ship.
func (a *App) drawPlayer() {
	p := a.game.Player()
	pos := a.posMap.Get(p)
	rot := a.rotMap.Get(p)
	body := a.bodyMap.Get(p)
	drawOrientedTriangle(pos.X, pos.Y, rot.Heading, body.Radius*1.2, rl.Color{R: 255, G: 80, B: 80, A: 255})
}

// drawOrientedTriangle draws a triangle pointing in the heading direction.
func drawOrientedTriangle(x, y, heading, radius float32, color rl.Color) {
	cos := float32(math.Cos(float64(heading)))
	sin := float32(math.Sin(float64(heading)))

	// Front point
	frontX := x + cos*radius*1.5
	frontY := y + sin*radius*1.5

	// Back left
	backAngle := float64(heading) + math.Pi*0.8
	backLeftX := x + float32(math.Cos(backAngle))*radius
	backLeftY := y + float32(math.Sin(backAngle))*radius

	// Back right
	backAngle = float64(heading) - math.Pi*0.8
	backRightX := x + float32(math.Cos(backAngle))*radius
	backRightY := y + float32(math.Sin(backAngle))*radius

	v1 := rl.Vector2{X: frontX, Y: frontY}
	v2 := rl.Vector2{X: backLeftX, Y: backLeftY}
	v3 := rl.Vector2{X: backRightX, Y: backRightY}

	// DrawTriangle requires counter-clockwise winding (v1, v3, v2)
	rl.DrawTriangle(v1, v3, v2, color)
	rl.DrawTriangleLines(v1, v2, v3, rl.White)
}
