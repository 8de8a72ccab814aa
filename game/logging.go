package game

import (
	"log/slog"

	"github.com/pthm-cable/swarmsort/components"
)

// LogWorldState logs a summary of the current world state.
func (g *Game) LogWorldState() {
	var approaching, pushing int
	for _, e := range g.ships {
		switch g.shipMap.Get(e).State {
		case components.ShipApproaching:
			approaching++
		case components.ShipPushing:
			pushing++
		}
	}

	perMaterial := make([]int, len(g.cfg.Materials))
	for _, e := range g.resources {
		if m := int(g.resMap.Get(e).Material); m < len(perMaterial) {
			perMaterial[m]++
		}
	}
	materials := make([]any, 0, 2*len(perMaterial))
	for i, n := range perMaterial {
		materials = append(materials, g.cfg.Materials[i].Name, n)
	}

	slog.Info("world",
		"tick", g.tick,
		"mode", g.mode.String(),
		"ships", len(g.ships),
		"approaching", approaching,
		"pushing", pushing,
		"resources", len(g.resources),
		"sorted", g.sorted,
		"active_claims", g.targeting.Claims().Active(),
		"speed", g.speed,
		"gravity_level", g.gravity.Strength,
		"spent", g.economy.Spent,
		slog.Group("materials", materials...),
	)
}
