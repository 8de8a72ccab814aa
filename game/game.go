package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"github.com/mlange-42/ark/ecs"
	"github.com/paulmach/orb"

	"github.com/pthm-cable/swarmsort/components"
	"github.com/pthm-cable/swarmsort/config"
	"github.com/pthm-cable/swarmsort/systems"
	"github.com/pthm-cable/swarmsort/telemetry"
)

// Mode selects how the swarm moves.
type Mode uint8

const (
	ModeSort   Mode = iota // claim resources and push them to their zones
	ModeCircle             // patrol stations around the player
	ModeFollow             // column behind the player
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSort:
		return "sort"
	case ModeCircle:
		return "circle"
	case ModeFollow:
		return "follow"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "sort":
		return ModeSort, nil
	case "circle":
		return ModeCircle, nil
	case "follow":
		return ModeFollow, nil
	}
	return ModeSort, fmt.Errorf("unknown mode %q", s)
}

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64

	// Entity mappers, one per entity kind
	shipMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Force,
		components.Ship,
	]
	resMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Force,
		components.Resource,
	]
	playerMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Force,
		components.Player,
	]

	// Individual component mappers for lookups
	posMap  *ecs.Map1[components.Position]
	velMap  *ecs.Map1[components.Velocity]
	rotMap  *ecs.Map1[components.Rotation]
	shipMap *ecs.Map1[components.Ship]
	resMap  *ecs.Map1[components.Resource]

	// Systems
	targeting *systems.TargetingSystem
	formation *systems.FormationSystem
	physics   *systems.PhysicsSystem
	gravity   *systems.GravityCollector
	parallel  *parallelSearch
	zones     systems.ZoneMap
	bounds    orb.Bound

	// Live collections. Ship order is stable: slot i of the claim book
	// belongs to ships[i].
	ships     []ecs.Entity
	resources []ecs.Entity
	player    ecs.Entity

	// State
	tick           int32
	paused         bool
	mode           Mode
	speed          float32 // current ship speed
	sorted         int     // resources in their zone as of the last refresh
	economy        Economy
	autoCountdown  int32
	stepsPerUpdate int
	nextShipID     uint32
	nextResourceID uint32

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	removeScratch []ecs.Entity
}

// NewGameWithOptions creates a new game and spawns the initial swarm.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	world := ecs.NewWorld()

	g := &Game{
		cfg:     cfg,
		world:   world,
		rng:     rand.New(rand.NewSource(seed)),
		rngSeed: seed,
		shipMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Force,
			components.Ship,
		](world),
		resMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Force,
			components.Resource,
		](world),
		playerMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Force,
			components.Player,
		](world),
		posMap:  ecs.NewMap1[components.Position](world),
		velMap:  ecs.NewMap1[components.Velocity](world),
		rotMap:  ecs.NewMap1[components.Rotation](world),
		shipMap: ecs.NewMap1[components.Ship](world),
		resMap:  ecs.NewMap1[components.Resource](world),

		zones:  systems.ZonesFromConfig(cfg),
		bounds: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{cfg.World.Width, cfg.World.Height}},

		mode:           ModeSort,
		speed:          float32(cfg.Ships.Speed),
		stepsPerUpdate: stepsPerUpdate,

		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
	}

	g.targeting = systems.NewTargetingSystem(world, float32(cfg.Targeting.CellSize), systems.TargetingParamsFromConfig(cfg))
	g.targeting.SetReplenisher(func(count int) {
		g.SpawnResources(count, nil)
	})
	if cfg.Targeting.ParallelThreshold > 0 {
		g.parallel = newParallelSearch(runtime.GOMAXPROCS(0))
		g.targeting.SetBatchSearcher(g.parallel, cfg.Targeting.ParallelThreshold)
	}
	g.formation = systems.NewFormationSystem(world)
	g.physics = systems.NewPhysicsSystem(world)
	g.gravity = systems.NewGravityCollector(world, float32(cfg.GravityCollector.Force), cfg.GravityCollector.Tolerance)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Unload()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		g.Unload()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	g.spawnInitial()

	slog.Info("game created",
		"seed", seed,
		"ships", len(g.ships),
		"resources", len(g.resources),
		"output_dir", om.Dir(),
	)
	return g, nil
}

// Unload stops the search workers and closes output files.
func (g *Game) Unload() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Config returns the configuration the game runs with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// World returns the ECS world. Callers must not add or remove entities.
func (g *Game) World() *ecs.World {
	return g.world
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.rngSeed
}

// Ships returns the live ships in claim-slot order. The slice must not be modified.
func (g *Game) Ships() []ecs.Entity {
	return g.ships
}

// Resources returns the live resources. The slice must not be modified.
func (g *Game) Resources() []ecs.Entity {
	return g.resources
}

// Player returns the anchor ship entity.
func (g *Game) Player() ecs.Entity {
	return g.player
}

// PlayerPosition returns the anchor ship position.
func (g *Game) PlayerPosition() components.Position {
	return *g.posMap.Get(g.player)
}

// Zones returns the material target zones.
func (g *Game) Zones() systems.ZoneMap {
	return g.zones
}

// Bounds returns the nominal play area.
func (g *Game) Bounds() orb.Bound {
	return g.bounds
}

// Targeting returns the targeting system.
func (g *Game) Targeting() *systems.TargetingSystem {
	return g.targeting
}

// Gravity returns the gravity collector.
func (g *Game) Gravity() *systems.GravityCollector {
	return g.gravity
}

// Mode returns the current movement mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// SetMode switches the movement mode. Leaving sort mode releases every claim
// so no resource stays locked by a ship that is busy flying a formation.
func (g *Game) SetMode(m Mode) {
	if m == g.mode {
		return
	}
	if m != ModeSort {
		g.targeting.ReleaseAll(g.ships)
	}
	slog.Info("mode changed", "from", g.mode.String(), "to", m.String(), "tick", g.tick)
	g.mode = m
}

// Speed returns the current ship speed.
func (g *Game) Speed() float32 {
	return g.speed
}

// Paused reports whether Update is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// TogglePause pauses or resumes Update.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// StepsPerUpdate returns the number of ticks run per Update.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate sets the number of ticks per Update, clamped to [1, 20].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = min(max(n, 1), 20)
}

// PerfStats returns the rolling performance statistics.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records frame timing for graphics mode.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// MovePlayer sets the anchor velocity toward (dx, dy) at the ship speed.
// A zero direction leaves the velocity to damping.
func (g *Game) MovePlayer(dx, dy float32) {
	vel, heading, ok := systems.MoveTowards(components.Position{}, components.Position{X: dx, Y: dy}, g.speed)
	if !ok {
		return
	}
	*g.velMap.Get(g.player) = vel
	g.rotMap.Get(g.player).Heading = heading
}
