package renderer

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarmsort/camera"
)

// drawHUD draws the run summary in the top-left corner.
func (a *App) drawHUD() {
	g := a.game
	claims := g.Targeting().Claims().Active()

	lines := []string{
		fmt.Sprintf("Tick: %d  Mode: %s  Steps: %dx  [</>]", g.Tick(), g.Mode(), g.StepsPerUpdate()),
		fmt.Sprintf("Ships: %d  Speed: %.0f  Claims: %d", len(g.Ships()), g.Speed(), claims),
		fmt.Sprintf("Resources: %d  Sorted: %d  Money: %d", len(g.Resources()), g.Sorted(), g.Money()),
	}
	if g.Gravity().Active() {
		lines = append(lines, fmt.Sprintf("Gravity level %d", g.Gravity().Strength))
	}

	y := int32(10)
	for _, line := range lines {
		rl.DrawText(line, 10, y, 20, rl.White)
		y += 25
	}
	if g.Paused() {
		rl.DrawText("PAUSED", 10, y, 20, rl.Yellow)
		y += 25
	}
	if a.camera.Mode == camera.ModeFollow {
		rl.DrawText("camera: following", 10, y, 14, rl.Gray)
	}

	help := "WASD fly  1/2/3 mode  L claims  R search rings  P perf  RMB delivery  Space pause"
	rl.DrawText(help, 10, int32(a.screenHeight)-24, 14, rl.Gray)
}

// drawPerf renders the per-phase timing breakdown.
func (a *App) drawPerf() {
	stats := a.game.PerfStats()

	x := int32(10)
	y := int32(a.screenHeight) - 78 - int32(len(a.registry.All()))*18
	rl.DrawRectangle(x-5, y-5, 300, int32(len(a.registry.All()))*18+50, rl.Color{R: 0, G: 0, B: 0, A: 170})
	rl.DrawText(fmt.Sprintf("Tick %v  p95 %v  TPS %.0f  FPS %d",
		stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond),
		stats.TicksPerSecond, rl.GetFPS()), x, y, 14, rl.White)
	y += 18
	rl.DrawText(fmt.Sprintf("targeting %v/ship", stats.TargetingPerShip.Round(time.Nanosecond)), x, y, 14, rl.White)
	y += 20

	for _, info := range a.registry.All() {
		avg := stats.PhaseAvg[info.ID]
		pct := stats.PhasePct[info.ID]
		rl.DrawText(fmt.Sprintf("%-10s %8v  %5.1f%%", info.Name, avg.Round(time.Microsecond), pct), x, y, 14, rl.LightGray)
		y += 18
	}
}
