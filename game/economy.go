package game

import (
	"log/slog"

	"github.com/paulmach/orb"
)

// Economy records what has been bought. There is no stored balance: money is
// the number of resources currently sitting in their zones, and a purchase
// consumes that many of them.
type Economy struct {
	Spent          int
	Purchases      int
	SpeedIncreases int
	ShipsBought    int
	AutoDelivery   bool
}

// Economy returns a copy of the purchase record.
func (g *Game) Economy() Economy {
	return g.economy
}

// Money returns the spendable balance.
func (g *Game) Money() int {
	return g.sorted
}

// Sorted returns the number of resources in their zones as of the last tick.
func (g *Game) Sorted() int {
	return g.sorted
}

// spend consumes cost delivered resources. It reports false, changing
// nothing, when the balance is short.
func (g *Game) spend(item string, cost int) bool {
	if cost < 0 || g.sorted < cost {
		return false
	}
	removed := g.RemoveDelivered(cost)
	g.sorted -= removed
	g.economy.Spent += cost
	g.economy.Purchases++
	g.collector.RecordPurchase()

	slog.Info("purchase", "item", item, "cost", cost, "money", g.sorted, "tick", g.tick)
	return true
}

// IncreaseSpeed raises the ship speed by ships.speed_step.
func (g *Game) IncreaseSpeed() bool {
	if g.economy.SpeedIncreases >= g.cfg.Ships.MaxSpeedIncreases {
		return false
	}
	if !g.spend("speed", g.cfg.Economy.SpeedCost) {
		return false
	}
	g.economy.SpeedIncreases++
	g.speed += float32(g.cfg.Ships.SpeedStep)
	return true
}

// BuyShip adds a ship at the world center.
func (g *Game) BuyShip() bool {
	if len(g.ships) >= g.cfg.Ships.Max {
		return false
	}
	if !g.spend("ship", g.cfg.Economy.ShipCost) {
		return false
	}
	g.economy.ShipsBought++
	return g.SpawnShip()
}

// Delivery spawns economy.delivery_count resources around near, or around
// the player when near is nil. It is refused once resources.max_live are in play.
func (g *Game) Delivery(near *orb.Point) bool {
	if len(g.resources) >= g.cfg.Resources.MaxLive {
		return false
	}
	if !g.spend("delivery", g.cfg.Economy.DeliveryCost) {
		return false
	}
	g.SpawnResources(g.cfg.Economy.DeliveryCount, near)
	return true
}

// BuyGravityCollector activates the collector, or raises its level once active.
func (g *Game) BuyGravityCollector() bool {
	if !g.spend("gravity", g.cfg.Economy.GravityCost) {
		return false
	}
	g.gravity.Upgrade()
	return true
}

// BuyAutoDelivery enables periodic free single spawns at the configured
// locations. It can be bought once.
func (g *Game) BuyAutoDelivery() bool {
	if g.economy.AutoDelivery {
		return false
	}
	if !g.spend("auto_delivery", g.cfg.Economy.AutoDeliveryCost) {
		return false
	}
	g.economy.AutoDelivery = true
	g.autoCountdown = g.cfg.Derived.AutoTicks
	return true
}

// updateEconomy recounts the balance, caps the drift of delivered resources
// and runs auto delivery.
func (g *Game) updateEconomy() {
	g.sorted = 0
	for _, e := range g.resources {
		if g.resMap.Get(e).InCorrectArea {
			g.sorted++
		}
	}

	g.physics.LimitDelivered(g.resources, float32(g.cfg.Physics.DeliveredSpeedLimit))

	if !g.economy.AutoDelivery {
		return
	}
	g.autoCountdown--
	if g.autoCountdown > 0 {
		return
	}
	g.autoCountdown = g.cfg.Derived.AutoTicks
	for _, loc := range g.cfg.AutoDelivery.Locations {
		if len(g.resources) >= g.cfg.Resources.MaxLive {
			break
		}
		p := orb.Point{loc[0], loc[1]}
		g.SpawnResources(1, &p)
	}
}
