package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarmsort/game"
)

// Control panel layout
const (
	panelWidth   = 220
	panelMargin  = 10
	buttonHeight = 28
	buttonGap    = 6
)

// panelRect returns the screen rectangle of the control panel.
func (a *App) panelRect() rl.Rectangle {
	return rl.Rectangle{
		X:      a.screenWidth - panelWidth - panelMargin,
		Y:      panelMargin,
		Width:  panelWidth,
		Height: 11*(buttonHeight+buttonGap) + 3*24 + 2*panelMargin,
	}
}

// mouseOverPanel reports whether the cursor is over the control panel.
func (a *App) mouseOverPanel() bool {
	return rl.CheckCollisionPointRec(rl.GetMousePosition(), a.panelRect())
}

// drawPanel draws the mode and economy buttons and applies their actions.
func (a *App) drawPanel() {
	cfg := a.game.Config()
	r := a.panelRect()
	rl.DrawRectangleRec(r, rl.Color{R: 0, G: 0, B: 0, A: 170})

	x := r.X + panelMargin
	y := r.Y + panelMargin
	w := r.Width - 2*panelMargin

	button := func(label string) bool {
		pressed := gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonHeight}, label)
		y += buttonHeight + buttonGap
		return pressed
	}
	heading := func(text string) {
		rl.DrawText(text, int32(x), int32(y), 16, rl.LightGray)
		y += 24
	}

	heading("Mode")
	for _, m := range []game.Mode{game.ModeSort, game.ModeCircle, game.ModeFollow} {
		label := m.String()
		if a.game.Mode() == m {
			label = "> " + label + " <"
		}
		if button(label) {
			a.game.SetMode(m)
		}
	}

	heading(fmt.Sprintf("Shop  (money %d)", a.game.Money()))
	econ := a.game.Economy()
	if button(fmt.Sprintf("Speed +%.0f  [%d]", cfg.Ships.SpeedStep, cfg.Economy.SpeedCost)) {
		a.game.IncreaseSpeed()
	}
	if button(fmt.Sprintf("Ship  [%d]", cfg.Economy.ShipCost)) {
		a.game.BuyShip()
	}
	if button(fmt.Sprintf("Delivery x%d  [%d]", cfg.Economy.DeliveryCount, cfg.Economy.DeliveryCost)) {
		a.game.Delivery(nil)
	}
	gravityLabel := "Gravity collector"
	if a.game.Gravity().Active() {
		gravityLabel = fmt.Sprintf("Gravity lvl %d", a.game.Gravity().Strength+1)
	}
	if button(fmt.Sprintf("%s  [%d]", gravityLabel, cfg.Economy.GravityCost)) {
		a.game.BuyGravityCollector()
	}
	autoLabel := fmt.Sprintf("Auto delivery  [%d]", cfg.Economy.AutoDeliveryCost)
	if econ.AutoDelivery {
		autoLabel = "Auto delivery  (on)"
	}
	if button(autoLabel) {
		a.game.BuyAutoDelivery()
	}

	heading(fmt.Sprintf("Steps/frame  %d", a.game.StepsPerUpdate()))
	steps := gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: y, Width: w - 40, Height: 20},
		"1", "20",
		float32(a.game.StepsPerUpdate()), 1, 20,
	)
	if int(steps) != a.game.StepsPerUpdate() {
		a.game.SetStepsPerUpdate(int(steps))
	}
	y += buttonHeight + buttonGap

	pauseLabel := "Pause"
	if a.game.Paused() {
		pauseLabel = "Resume"
	}
	if button(pauseLabel) {
		a.game.TogglePause()
	}
	if button("Follow player [C]") {
		a.camera.ToggleMode()
	}
}
