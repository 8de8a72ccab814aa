// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen           ScreenConfig           `yaml:"screen"`
	World            WorldConfig            `yaml:"world"`
	Physics          PhysicsConfig          `yaml:"physics"`
	Ships            ShipsConfig            `yaml:"ships"`
	Resources        ResourcesConfig        `yaml:"resources"`
	Targeting        TargetingConfig        `yaml:"targeting"`
	Patrol           PatrolConfig           `yaml:"patrol"`
	Column           ColumnConfig           `yaml:"column"`
	Materials        []MaterialConfig       `yaml:"materials"`
	Economy          EconomyConfig          `yaml:"economy"`
	GravityCollector GravityCollectorConfig `yaml:"gravity_collector"`
	AutoDelivery     AutoDeliveryConfig     `yaml:"auto_delivery"`
	Telemetry        TelemetryConfig        `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the nominal play area. Entities are not confined to it;
// it anchors target zones, the camera and the ship hangar.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds the kinematic integrator parameters.
type PhysicsConfig struct {
	DT                  float64 `yaml:"dt"`
	ShipDamping         float64 `yaml:"ship_damping"`
	ResourceDamping     float64 `yaml:"resource_damping"`
	DeliveredSpeedLimit float64 `yaml:"delivered_speed_limit"` // Max speed of resources sitting in their zone
}

// ShipsConfig holds swarm parameters.
type ShipsConfig struct {
	Initial           int     `yaml:"initial"`
	Max               int     `yaml:"max"`
	Speed             float64 `yaml:"speed"`
	SpeedStep         float64 `yaml:"speed_step"`          // Speed gained per purchased increase
	MaxSpeedIncreases int     `yaml:"max_speed_increases"` // Purchase cap for speed increases
	Radius            float64 `yaml:"radius"`
	Mass              float64 `yaml:"mass"`
}

// ResourcesConfig holds resource pool parameters.
type ResourcesConfig struct {
	Initial        int     `yaml:"initial"`
	Radius         float64 `yaml:"radius"`
	Mass           float64 `yaml:"mass"`
	LowWater       int     `yaml:"low_water"`       // Replenish when live count drops below this
	ReplenishCount int     `yaml:"replenish_count"` // Resources spawned per replenish
	SpawnOffset    float64 `yaml:"spawn_offset"`    // Ring radius around the spawn location
	MaxLive        int     `yaml:"max_live"`        // Deliveries are refused above this count
}

// TargetingConfig holds assignment and steering parameters.
type TargetingConfig struct {
	CellSize          float64 `yaml:"cell_size"`
	SearchRadius      float64 `yaml:"search_radius"`
	RadiusStep        float64 `yaml:"radius_step"`
	MaxSearchRadius   float64 `yaml:"max_search_radius"`
	PushMultiplier    float64 `yaml:"push_multiplier"`    // Push speed = ship speed * this (> 1)
	DeliveryTolerance float64 `yaml:"delivery_tolerance"` // Radius around a zone that counts as delivered
	ParallelThreshold int     `yaml:"parallel_threshold"` // Ship count at which search fans out to workers (0 = never)
}

// PatrolConfig holds circular patrol parameters.
type PatrolConfig struct {
	Radius           float64 `yaml:"radius"`
	StationThreshold float64 `yaml:"station_threshold"`
	StationFactor    float64 `yaml:"station_factor"` // Speed multiplier inside the station deadband
	Spin             float64 `yaml:"spin"`           // Station rotation in radians per second
}

// ColumnConfig holds column-follow parameters.
type ColumnConfig struct {
	Spacing float64 `yaml:"spacing"`
}

// MaterialConfig defines a material kind and its target zone.
type MaterialConfig struct {
	Name  string  `yaml:"name"`
	Color string  `yaml:"color"`
	ZoneX float64 `yaml:"zone_x"`
	ZoneY float64 `yaml:"zone_y"`
}

// EconomyConfig holds purchase costs and caps.
type EconomyConfig struct {
	SpeedCost        int `yaml:"speed_cost"`
	ShipCost         int `yaml:"ship_cost"`
	DeliveryCost     int `yaml:"delivery_cost"`
	DeliveryCount    int `yaml:"delivery_count"`
	GravityCost      int `yaml:"gravity_cost"`
	AutoDeliveryCost int `yaml:"auto_delivery_cost"`
}

// GravityCollectorConfig holds the zone attraction parameters.
type GravityCollectorConfig struct {
	Force     float64 `yaml:"force"`     // Force per strength level
	Tolerance float64 `yaml:"tolerance"` // No force inside this radius of the zone
}

// AutoDeliveryConfig holds periodic free spawn parameters.
type AutoDeliveryConfig struct {
	IntervalSec float64      `yaml:"interval_sec"`
	Locations   [][2]float64 `yaml:"locations"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// RGB parses the material color ("#RRGGBB") into 0xRRGGBB.
// Malformed colors render white.
func (m MaterialConfig) RGB() uint32 {
	v, err := strconv.ParseUint(strings.TrimPrefix(m.Color, "#"), 16, 32)
	if err != nil || v > 0xFFFFFF {
		return 0xFFFFFF
	}
	return uint32(v)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32          // Physics.DT as float32
	WorldW32      float32          // World width as float32
	WorldH32      float32          // World height as float32
	MaterialIndex map[string]uint8 // name -> index
	AutoTicks     int32            // Auto delivery interval in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the targeting core cannot run with.
func (c *Config) validate() error {
	t := c.Targeting
	switch {
	case t.CellSize <= 0:
		return fmt.Errorf("targeting.cell_size must be positive, got %v", t.CellSize)
	case t.SearchRadius <= 0:
		return fmt.Errorf("targeting.search_radius must be positive, got %v", t.SearchRadius)
	case t.RadiusStep <= 0:
		return fmt.Errorf("targeting.radius_step must be positive, got %v", t.RadiusStep)
	case t.MaxSearchRadius < t.SearchRadius:
		return fmt.Errorf("targeting.max_search_radius (%v) below search_radius (%v)", t.MaxSearchRadius, t.SearchRadius)
	case t.PushMultiplier <= 1:
		return fmt.Errorf("targeting.push_multiplier must exceed 1, got %v", t.PushMultiplier)
	}
	if len(c.Materials) == 0 {
		return fmt.Errorf("at least one material is required")
	}
	if len(c.Materials) > 255 {
		return fmt.Errorf("too many materials: %d", len(c.Materials))
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)

	c.Derived.MaterialIndex = make(map[string]uint8, len(c.Materials))
	for i, m := range c.Materials {
		c.Derived.MaterialIndex[m.Name] = uint8(i)
	}

	ticks := int32(c.AutoDelivery.IntervalSec / c.Physics.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.AutoTicks = ticks
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
