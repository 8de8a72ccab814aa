package components

import "github.com/pthm-cable/swarmsort/config"

// Body holds physical properties of an entity.
type Body struct {
	Radius  float32
	Mass    float32
	Damping float32 // linear damping per second
}

// ShipBody returns the body for a swarm ship.
func ShipBody(cfg *config.Config) Body {
	return Body{
		Radius:  float32(cfg.Ships.Radius),
		Mass:    float32(cfg.Ships.Mass),
		Damping: float32(cfg.Physics.ShipDamping),
	}
}

// ResourceBody returns the body for a resource.
func ResourceBody(cfg *config.Config) Body {
	return Body{
		Radius:  float32(cfg.Resources.Radius),
		Mass:    float32(cfg.Resources.Mass),
		Damping: float32(cfg.Physics.ResourceDamping),
	}
}
