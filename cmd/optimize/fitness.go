package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/swarmsort/config"
	"github.com/pthm-cable/swarmsort/game"
	"github.com/pthm-cable/swarmsort/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
	lastRate    float64 // deliveries per second from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0, // 10 seconds per window
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastRate returns the delivery rate from the most recent evaluation.
func (fe *FitnessEvaluator) LastRate() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastRate
}

// runResult holds the results from a single simulation run.
type runResult struct {
	delivered   int                     // claimed resources that reached their zone
	simSeconds  float64                 // simulated time
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	rate    float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negative delivery rate, so faster sorting = lower fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := fe.computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result, quality),
				quality: quality,
				rate:    deliveryRate(result),
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality, totalRate float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalRate += r.rate
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastQuality = totalQuality / n
	fe.lastRate = totalRate / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run for maxTicks.
// The run plays like a thrifty player: whenever a delivery is affordable it
// is bought, so the pool never drains and throughput stays measurable.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	// Create a fresh config copy and apply parameters
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	// Create and run game, collecting window stats via callback
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		if g.Money() >= cfg.Economy.DeliveryCost {
			g.Delivery(nil)
		}
	}

	for _, w := range result.windowStats {
		result.delivered += w.Delivered
	}
	result.simSeconds = float64(g.Tick()) * cfg.Physics.DT
	return result
}

// copyConfig creates a copy of the base config. Slices and the derived
// material index are shared; the simulation only reads them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// deliveryRate returns deliveries per simulated second.
func deliveryRate(r *runResult) float64 {
	if r.simSeconds <= 0 {
		return 0
	}
	return float64(r.delivered) / r.simSeconds
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(deliveryRate × (1.0 + 0.2 × quality))
// Throughput dominates; quality adds up to 20% to separate configs with
// similar rates.
func (fe *FitnessEvaluator) computeFitness(r *runResult, quality float64) float64 {
	return -(deliveryRate(r) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightSteady = 0.5
	qualityWeightSearch = 0.3
	qualityWeightBusy   = 0.2

	qualityWarmupWindows = 1 // skip first N windows (warmup)
)

// computeQuality scores how evenly the swarm works, in [0, 1], from window stats.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	rates := make([]float64, 0, len(valid))
	var searchSum, busySum float64
	for _, w := range valid {
		rates = append(rates, w.DeliveriesPerSec)

		// Cheap searches: few radius expansions per successful find.
		searchSum += math.Exp(-w.ExpansionsPerFind / 2)

		// Busy swarm: share of ships holding a claim.
		if w.Ships > 0 {
			busySum += float64(w.Approaching+w.Pushing) / float64(w.Ships)
		}
	}
	n := float64(len(valid))

	// Steady throughput (low coefficient of variation across windows)
	steadyScore := 0.0
	if mean := stat.Mean(rates, nil); mean > 0 && len(rates) >= 2 {
		cv := stat.StdDev(rates, nil) / mean
		steadyScore = math.Exp(-cv * cv)
	}

	quality := qualityWeightSteady*steadyScore +
		qualityWeightSearch*searchSum/n +
		qualityWeightBusy*busySum/n

	return min(max(quality, 0), 1)
}
