// Package renderer draws the swarm with raylib and handles interactive input.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarmsort/camera"
	"github.com/pthm-cable/swarmsort/components"
	"github.com/pthm-cable/swarmsort/game"
	"github.com/pthm-cable/swarmsort/systems"
)

// App owns the window-side state of a graphical run: camera, overlays and
// the control panel. The simulation itself lives in game.Game.
type App struct {
	game     *game.Game
	camera   *camera.Camera
	registry *systems.SystemRegistry

	// Component lookups for drawing
	posMap  *ecs.Map1[components.Position]
	rotMap  *ecs.Map1[components.Rotation]
	bodyMap *ecs.Map1[components.Body]
	shipMap *ecs.Map1[components.Ship]
	resMap  *ecs.Map1[components.Resource]

	materialColors []rl.Color

	// Overlays
	showClaims bool
	showSearch bool
	showPerf   bool

	hover hoverTarget

	screenWidth, screenHeight float32
}

// NewApp creates the app for g. It must be called after rl.InitWindow.
func NewApp(g *game.Game) *App {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	world := g.World()

	a := &App{
		game:         g,
		camera:       camera.New(w, h, cfg.Derived.WorldW32/2, cfg.Derived.WorldH32/2),
		registry:     systems.NewSystemRegistry(),
		posMap:       ecs.NewMap1[components.Position](world),
		rotMap:       ecs.NewMap1[components.Rotation](world),
		bodyMap:      ecs.NewMap1[components.Body](world),
		shipMap:      ecs.NewMap1[components.Ship](world),
		resMap:       ecs.NewMap1[components.Resource](world),
		showClaims:   true,
		screenWidth:  w,
		screenHeight: h,
	}

	for _, m := range cfg.Materials {
		a.materialColors = append(a.materialColors, hexColor(m.RGB(), 255))
	}
	return a
}

// Frame processes input, advances the simulation and draws one frame.
func (a *App) Frame() {
	a.handleInput()
	a.game.Update()

	pp := a.game.PlayerPosition()
	a.camera.Follow(pp.X, pp.Y, rl.GetFrameTime())
	a.updateHover()

	a.game.RecordFrame()
	a.draw()
}

// draw renders the scene and the screen-space UI.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 22, A: 255})

	rl.BeginMode2D(a.camera2D())
	a.drawZones()
	a.drawResources()
	if a.showClaims {
		a.drawClaimLines()
	}
	a.drawShips()
	a.drawPlayer()
	a.drawHoverHighlight()
	rl.EndMode2D()

	a.drawHUD()
	a.drawPanel()
	if a.showPerf {
		a.drawPerf()
	}
	a.drawHoverTooltip()

	rl.EndDrawing()
}

// camera2D converts the camera to raylib's 2D camera.
func (a *App) camera2D() rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.Vector2{X: a.camera.ViewportW / 2, Y: a.camera.ViewportH / 2},
		Target: rl.Vector2{X: a.camera.X, Y: a.camera.Y},
		Zoom:   a.camera.Zoom,
	}
}

// hexColor converts 0xRRGGBB to a raylib color.
func hexColor(rgb uint32, alpha uint8) rl.Color {
	return rl.Color{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
		A: alpha,
	}
}
