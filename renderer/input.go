package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/paulmach/orb"

	"github.com/pthm-cable/swarmsort/game"
)

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	// Window resize propagation
	a.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.game.TogglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() + 1)
	}

	// Movement modes
	if rl.IsKeyPressed(rl.KeyOne) {
		a.game.SetMode(game.ModeSort)
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		a.game.SetMode(game.ModeCircle)
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		a.game.SetMode(game.ModeFollow)
	}

	// Overlay toggles
	if rl.IsKeyPressed(rl.KeyL) {
		a.showClaims = !a.showClaims
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.showSearch = !a.showSearch
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.showPerf = !a.showPerf
	}

	a.handlePlayerInput()
	a.handleCameraInput()

	// Right click orders a delivery at the cursor.
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && !a.mouseOverPanel() {
		m := rl.GetMousePosition()
		wx, wy := a.camera.ScreenToWorld(m.X, m.Y)
		a.game.Delivery(&orb.Point{float64(wx), float64(wy)})
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h
	a.camera.Resize(w, h)
}

// handlePlayerInput flies the anchor ship with WASD.
func (a *App) handlePlayerInput() {
	var dx, dy float32
	if rl.IsKeyDown(rl.KeyW) {
		dy--
	}
	if rl.IsKeyDown(rl.KeyS) {
		dy++
	}
	if rl.IsKeyDown(rl.KeyA) {
		dx--
	}
	if rl.IsKeyDown(rl.KeyD) {
		dx++
	}
	a.game.MovePlayer(dx, dy)
}

// handleCameraInput processes camera pan/zoom controls.
func (a *App) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / a.camera.Zoom

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.camera.Pan(0, -panSpeed)
	}

	// Zoom toward the cursor with the mouse wheel
	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 && !a.mouseOverPanel() {
		m := rl.GetMousePosition()
		a.camera.ZoomAt(m.X, m.Y, 1+wheelMove*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.camera.ZoomBy(0.8)
	}

	// C toggles following the player
	if rl.IsKeyPressed(rl.KeyC) {
		a.camera.ToggleMode()
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}
}
