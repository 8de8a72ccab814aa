package game

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/swarmsort/components"
	"github.com/pthm-cable/swarmsort/config"
	"github.com/pthm-cable/swarmsort/telemetry"
)

// newTestGame builds a game from the embedded defaults, optionally adjusted.
func newTestGame(t *testing.T, seed int64, adjust func(*config.Config)) *Game {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	if adjust != nil {
		adjust(cfg)
	}
	g, err := NewGameWithOptions(Options{Config: cfg, Seed: seed})
	require.NoError(t, err)
	t.Cleanup(g.Unload)
	return g
}

// settleAll moves every resource onto its zone and recounts the balance.
func settleAll(g *Game) {
	for _, e := range g.resources {
		zone, _ := g.zones.Position(g.resMap.Get(e).Material)
		*g.posMap.Get(e) = zone
	}
	g.targeting.RefreshDelivery(g.resources, g.zones)
	g.updateEconomy()
}

func requireClaimsValid(t *testing.T, g *Game) {
	t.Helper()
	require.Empty(t, g.targeting.Validate(g.resources))
}

func TestNewGameSpawnsInitialSwarm(t *testing.T) {
	g := newTestGame(t, 1, nil)

	assert.Len(t, g.Ships(), 50)
	assert.Len(t, g.Resources(), 25)
	assert.Equal(t, ModeSort, g.Mode())
	assert.Equal(t, float32(200), g.Speed())
	assert.Equal(t, 0, g.Money())
	assert.Equal(t, components.Position{X: 860, Y: 440}, g.PlayerPosition())

	center := g.worldCenter()
	for _, e := range g.Ships() {
		p := toPoint(*g.posMap.Get(e))
		assert.LessOrEqual(t, planar.Distance(p, center), 20*math.Sqrt2+1e-3)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeSort, ModeCircle, ModeFollow} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("scatter")
	assert.Error(t, err)
}

func TestSpawnResourcesOnRing(t *testing.T) {
	g := newTestGame(t, 2, nil)
	before := len(g.resources)

	near := orb.Point{100, 100}
	require.Equal(t, 10, g.SpawnResources(10, &near))
	require.Len(t, g.resources, before+10)

	for _, e := range g.resources[before:] {
		d := planar.Distance(toPoint(*g.posMap.Get(e)), near)
		assert.InDelta(t, 80, d, 1e-2)
		assert.Less(t, int(g.resMap.Get(e).Material), len(g.cfg.Materials))
	}

	assert.Equal(t, 0, g.SpawnResources(0, nil))
}

func TestRemoveResourceReleasesClaim(t *testing.T) {
	g := newTestGame(t, 3, nil)
	g.Step()
	require.Positive(t, g.targeting.Claims().Active())

	victim := g.resources[0]
	idx, held := g.targeting.Claims().Claimant(victim)
	require.True(t, held, "every resource should be claimed by the 50-ship swarm")

	require.True(t, g.RemoveResource(victim))
	assert.False(t, g.world.Alive(victim))
	assert.NotContains(t, g.resources, victim)
	_, ok := g.targeting.Claims().Target(idx)
	assert.False(t, ok)
	assert.Equal(t, components.ShipUnassigned, g.shipMap.Get(g.ships[idx]).State)
	requireClaimsValid(t, g)

	assert.False(t, g.RemoveResource(victim), "second removal is a no-op")

	// The freed ship claims something else on the next tick.
	g.Step()
	requireClaimsValid(t, g)
}

func TestRemoveDeliveredTakesNewestFirst(t *testing.T) {
	g := newTestGame(t, 4, nil)
	settleAll(g)
	require.Equal(t, 25, g.Sorted())

	newest := slices.Clone(g.resources[len(g.resources)-3:])
	oldest := g.resources[0]

	require.Equal(t, 3, g.RemoveDelivered(3))
	require.Len(t, g.resources, 22)
	assert.Contains(t, g.resources, oldest)
	for _, e := range newest {
		assert.NotContains(t, g.resources, e)
	}
	requireClaimsValid(t, g)
}

func TestEconomy(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*config.Config)
		run    func(t *testing.T, g *Game)
	}{
		{
			name: "speed increase",
			run: func(t *testing.T, g *Game) {
				require.True(t, g.IncreaseSpeed())
				assert.Equal(t, float32(225), g.Speed())
				assert.Equal(t, 20, g.Money())
				assert.Len(t, g.Resources(), 20)
				assert.Equal(t, 5, g.Economy().Spent)
			},
		},
		{
			name:   "short balance",
			adjust: func(c *config.Config) { c.Economy.SpeedCost = 100 },
			run: func(t *testing.T, g *Game) {
				require.False(t, g.IncreaseSpeed())
				assert.Equal(t, float32(200), g.Speed())
				assert.Equal(t, 25, g.Money())
				assert.Len(t, g.Resources(), 25)
				assert.Zero(t, g.Economy().Spent)
			},
		},
		{
			name:   "speed cap",
			adjust: func(c *config.Config) { c.Ships.MaxSpeedIncreases = 1 },
			run: func(t *testing.T, g *Game) {
				require.True(t, g.IncreaseSpeed())
				require.False(t, g.IncreaseSpeed())
				assert.Equal(t, 20, g.Money())
			},
		},
		{
			name: "buy ship",
			run: func(t *testing.T, g *Game) {
				require.True(t, g.BuyShip())
				assert.Len(t, g.Ships(), 51)
				assert.Equal(t, 10, g.Money())
				assert.Equal(t, 1, g.Economy().ShipsBought)
			},
		},
		{
			name:   "ship cap",
			adjust: func(c *config.Config) { c.Ships.Max = 50 },
			run: func(t *testing.T, g *Game) {
				require.False(t, g.BuyShip())
				assert.Len(t, g.Ships(), 50)
				assert.Equal(t, 25, g.Money())
			},
		},
		{
			name: "delivery",
			run: func(t *testing.T, g *Game) {
				near := orb.Point{0, 0}
				require.True(t, g.Delivery(&near))
				assert.Len(t, g.Resources(), 25-5+20)
				assert.Equal(t, 20, g.Money())
			},
		},
		{
			name:   "delivery live cap",
			adjust: func(c *config.Config) { c.Resources.MaxLive = 25 },
			run: func(t *testing.T, g *Game) {
				require.False(t, g.Delivery(nil))
				assert.Len(t, g.Resources(), 25)
			},
		},
		{
			name:   "gravity levels",
			adjust: func(c *config.Config) { c.Economy.GravityCost = 10 },
			run: func(t *testing.T, g *Game) {
				require.False(t, g.Gravity().Active())
				require.True(t, g.BuyGravityCollector())
				require.True(t, g.BuyGravityCollector())
				assert.Equal(t, 2, g.Gravity().Strength)
				require.False(t, g.BuyGravityCollector(), "5 left, 10 needed")
				assert.Equal(t, 5, g.Money())
			},
		},
		{
			name: "auto delivery once",
			run: func(t *testing.T, g *Game) {
				require.True(t, g.BuyAutoDelivery())
				require.False(t, g.BuyAutoDelivery())
				assert.True(t, g.Economy().AutoDelivery)
				assert.Equal(t, 25, g.Money(), "free purchase consumes nothing")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 5, tt.adjust)
			settleAll(g)
			require.Equal(t, 25, g.Money())
			tt.run(t, g)
			requireClaimsValid(t, g)
		})
	}
}

func TestAutoDeliverySpawnsAtLocations(t *testing.T) {
	g := newTestGame(t, 6, nil)
	require.True(t, g.BuyAutoDelivery())

	interval := int(g.cfg.Derived.AutoTicks)
	for i := 0; i < interval-1; i++ {
		g.Step()
	}
	require.Len(t, g.Resources(), 25)

	g.Step()
	require.Len(t, g.Resources(), 25+len(g.cfg.AutoDelivery.Locations))
}

func TestSetModeReleasesClaims(t *testing.T) {
	g := newTestGame(t, 7, nil)
	for i := 0; i < 10; i++ {
		g.Step()
	}
	require.Positive(t, g.targeting.Claims().Active())

	g.SetMode(ModeCircle)
	assert.Zero(t, g.targeting.Claims().Active())
	for _, e := range g.Ships() {
		assert.Equal(t, components.ShipUnassigned, g.shipMap.Get(e).State)
	}
	for _, e := range g.Resources() {
		assert.False(t, g.resMap.Get(e).Targeted)
	}

	for i := 0; i < 60; i++ {
		g.Step()
	}
	assert.Zero(t, g.targeting.Claims().Active(), "formation modes never claim")
	requireClaimsValid(t, g)

	g.SetMode(ModeSort)
	g.Step()
	assert.Positive(t, g.targeting.Claims().Active())
	requireClaimsValid(t, g)
}

func TestFollowModeLeaderHeadsToPlayer(t *testing.T) {
	g := newTestGame(t, 8, nil)
	g.SetMode(ModeFollow)
	g.Step()

	leader := g.Ships()[0]
	v := *g.velMap.Get(leader)
	// Player sits up and left of the hangar.
	assert.Negative(t, v.X)
	assert.Negative(t, v.Y)
}

func TestMovePlayer(t *testing.T) {
	g := newTestGame(t, 9, nil)

	g.MovePlayer(1, 0)
	assert.Equal(t, components.Velocity{X: 200}, *g.velMap.Get(g.Player()))

	g.MovePlayer(0, 0)
	assert.Equal(t, components.Velocity{X: 200}, *g.velMap.Get(g.Player()), "no input keeps the velocity")

	before := g.PlayerPosition()
	g.Step()
	assert.Greater(t, g.PlayerPosition().X, before.X)
}

func TestSortingDeliversResources(t *testing.T) {
	g := newTestGame(t, 10, nil)

	for i := 0; i < 3600; i++ {
		g.Step()
		if i%60 == 0 {
			requireClaimsValid(t, g)
		}
	}

	assert.Positive(t, g.Sorted())
	for _, e := range g.Resources() {
		res := g.resMap.Get(e)
		if res.InCorrectArea {
			assert.False(t, res.Targeted, "delivered resources are never claimed")
		}
	}
}

func TestParallelSearchMatchesSerial(t *testing.T) {
	serial := newTestGame(t, 11, func(c *config.Config) { c.Targeting.ParallelThreshold = 0 })
	batched := newTestGame(t, 11, func(c *config.Config) { c.Targeting.ParallelThreshold = 1 })
	require.NotNil(t, batched.parallel)

	for i := 0; i < 300; i++ {
		serial.Step()
		batched.Step()
	}

	require.Equal(t, len(serial.Ships()), len(batched.Ships()))
	for i := range serial.Ships() {
		assert.Equal(t, *serial.posMap.Get(serial.ships[i]), *batched.posMap.Get(batched.ships[i]), "ship %d", i)

		st, sok := serial.targeting.Claims().Target(i)
		bt, bok := batched.targeting.Claims().Target(i)
		assert.Equal(t, sok, bok, "ship %d", i)
		assert.Equal(t, st.ID(), bt.ID(), "ship %d", i)
	}
	requireClaimsValid(t, batched)
}

func TestTelemetryOutput(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	dir := t.TempDir()
	var windows []telemetry.WindowStats
	g, err := NewGameWithOptions(Options{
		Config:         cfg,
		Seed:           12,
		StatsWindowSec: 1,
		OutputDir:      dir,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	require.NoError(t, err)

	ticks := 3 * int(g.collector.WindowDurationTicks())
	for i := 0; i < ticks; i++ {
		g.Step()
	}
	g.Unload()

	require.Len(t, windows, 3)
	last := windows[len(windows)-1]
	assert.Equal(t, 50, last.Ships)
	assert.Equal(t, last.Approaching+last.Pushing+last.Idle, last.Ships)
	assert.Positive(t, windows[0].Claims)

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4, "header plus one row per window")
	assert.Contains(t, lines[0], "sorted_frac")

	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
	assert.FileExists(t, filepath.Join(dir, "perf.csv"))
}

func TestSnapshotMatchesWorld(t *testing.T) {
	g := newTestGame(t, 13, nil)
	for i := 0; i < 30; i++ {
		g.Step()
	}

	snap := g.Snapshot()
	assert.Equal(t, g.Seed(), snap.RNGSeed)
	assert.Equal(t, g.Tick(), snap.Tick)
	assert.Equal(t, "sort", snap.Mode)
	require.Len(t, snap.Ships, len(g.Ships()))
	assert.Len(t, snap.Zones, len(g.Zones()))
	assert.Len(t, snap.Resources, len(g.Resources()))

	claimed, delivered := snap.Counts()
	assert.Equal(t, g.Targeting().Claims().Active(), claimed)
	assert.Equal(t, g.Sorted(), delivered)

	ids := make(map[uint32]bool, len(snap.Resources))
	for _, r := range snap.Resources {
		assert.NotZero(t, r.ID)
		ids[r.ID] = true
	}
	for _, s := range snap.Ships {
		if s.Target != 0 {
			assert.True(t, ids[s.Target], "ship %d targets unknown resource %d", s.ID, s.Target)
		}
	}
}
