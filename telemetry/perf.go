package telemetry

import (
	"log/slog"
	"slices"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseTargeting = "targeting"
	PhaseFormation = "formation"
	PhaseGravity   = "gravity"
	PhasePhysics   = "physics"
	PhaseEconomy   = "economy"
	PhaseTelemetry = "telemetry"
)

// Phases lists the phase names in step order.
var Phases = []string{
	PhaseTargeting, PhaseFormation, PhaseGravity,
	PhasePhysics, PhaseEconomy, PhaseTelemetry,
}

var phaseIndex = func() map[string]int {
	m := make(map[string]int, len(Phases))
	for i, p := range Phases {
		m[p] = i
	}
	return m
}()

// tickSample is one tick's timing. phases is indexed like Phases.
type tickSample struct {
	total  time.Duration
	phases []time.Duration
	ships  int
}

// PerfCollector keeps per-phase tick timing over a ring of recent ticks,
// together with the swarm size each tick ran with.
type PerfCollector struct {
	samples []tickSample
	next    int
	filled  int

	cur        *tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // index into Phases, -1 when none is open

	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	samples := make([]tickSample, windowSize)
	for i := range samples {
		samples[i].phases = make([]time.Duration, len(Phases))
	}
	return &PerfCollector{samples: samples, phase: -1}
}

// StartTick begins timing a tick run by ships ships.
func (p *PerfCollector) StartTick(ships int) {
	p.cur = &p.samples[p.next]
	clear(p.cur.phases)
	p.cur.ships = ships
	p.phase = -1
	p.tickStart = time.Now()
}

// StartPhase closes the open phase and opens name. Names outside Phases
// close the open phase without opening a new one.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	if i, ok := phaseIndex[name]; ok {
		p.phase = i
	} else {
		p.phase = -1
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 && p.cur != nil {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the open phase and commits the sample.
func (p *PerfCollector) EndTick() {
	if p.cur == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.cur.total = now.Sub(p.tickStart)
	p.cur = nil

	p.next = (p.next + 1) % len(p.samples)
	if p.filled < len(p.samples) {
		p.filled++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Keyed by phase name; phases that never ran are absent.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Targeting cost normalized by swarm size.
	AvgShips         float64
	TargetingPerShip time.Duration

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the collected window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(Phases)),
		PhasePct:      make(map[string]float64, len(Phases)),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return s
	}

	n := time.Duration(p.filled)
	totals := make([]float64, 0, p.filled)
	phaseSum := make([]time.Duration, len(Phases))
	var tickSum time.Duration
	var shipSum int

	for _, smp := range p.samples[:p.filled] {
		tickSum += smp.total
		shipSum += smp.ships
		totals = append(totals, float64(smp.total))
		for i, d := range smp.phases {
			phaseSum[i] += d
		}
	}
	slices.Sort(totals)

	s.AvgTickDuration = tickSum / n
	s.MinTickDuration = time.Duration(totals[0])
	s.MaxTickDuration = time.Duration(totals[len(totals)-1])
	s.P95TickDuration = time.Duration(Quantile(totals, 0.95))
	s.AvgShips = float64(shipSum) / float64(p.filled)

	for i, sum := range phaseSum {
		if sum == 0 {
			continue
		}
		avg := sum / n
		s.PhaseAvg[Phases[i]] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[Phases[i]] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}

	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	if s.AvgShips > 0 {
		s.TargetingPerShip = time.Duration(float64(s.PhaseAvg[PhaseTargeting]) / s.AvgShips)
	}

	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Int64("targeting_ns_per_ship", s.TargetingPerShip.Nanoseconds()),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd          int32   `csv:"window_end"`
	AvgTickUS          int64   `csv:"avg_tick_us"`
	MinTickUS          int64   `csv:"min_tick_us"`
	MaxTickUS          int64   `csv:"max_tick_us"`
	P95TickUS          int64   `csv:"p95_tick_us"`
	TicksPerSec        float64 `csv:"ticks_per_sec"`
	FPS                float64 `csv:"fps"`
	Ships              float64 `csv:"ships"`
	TargetingNsPerShip int64   `csv:"targeting_ns_per_ship"`
	TargetingPct       float64 `csv:"targeting_pct"`
	FormationPct       float64 `csv:"formation_pct"`
	GravityPct         float64 `csv:"gravity_pct"`
	PhysicsPct         float64 `csv:"physics_pct"`
	EconomyPct         float64 `csv:"economy_pct"`
	TelemetryPct       float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:          windowEnd,
		AvgTickUS:          s.AvgTickDuration.Microseconds(),
		MinTickUS:          s.MinTickDuration.Microseconds(),
		MaxTickUS:          s.MaxTickDuration.Microseconds(),
		P95TickUS:          s.P95TickDuration.Microseconds(),
		TicksPerSec:        s.TicksPerSecond,
		FPS:                s.FPS,
		Ships:              s.AvgShips,
		TargetingNsPerShip: s.TargetingPerShip.Nanoseconds(),
		TargetingPct:       s.PhasePct[PhaseTargeting],
		FormationPct:       s.PhasePct[PhaseFormation],
		GravityPct:         s.PhasePct[PhaseGravity],
		PhysicsPct:         s.PhasePct[PhasePhysics],
		EconomyPct:         s.PhasePct[PhaseEconomy],
		TelemetryPct:       s.PhasePct[PhaseTelemetry],
	}
}
