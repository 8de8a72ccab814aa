// Package main provides CMA-ES optimization for finding targeting parameters
// that maximize swarm sorting throughput.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/swarmsort/config"
)

// formatDuration formats a duration as HhMMmSSs, or MmSSs below an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// tracker wraps the objective with logging, progress output and best-so-far bookkeeping.
type tracker struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	log       *evalLog
	maxEvals  int

	evals      int
	best       float64
	bestParams []float64
	startTime  time.Time
}

// objective evaluates a normalized point.
func (tr *tracker) objective(x []float64) float64 {
	raw := tr.params.Clamp(tr.params.Denormalize(x))
	fitness := tr.evaluator.Evaluate(raw)
	tr.evals++

	if tr.bestParams == nil || fitness < tr.best {
		tr.best = fitness
		tr.bestParams = slices.Clone(raw)
	}

	rate := tr.evaluator.LastRate()
	quality := tr.evaluator.LastQuality()
	if err := tr.log.Append(newEvalRecord(tr.evals, fitness, rate, quality, raw)); err != nil {
		log.Printf("%v", err)
	}

	elapsed := time.Since(tr.startTime)
	remaining := time.Duration(tr.maxEvals-tr.evals) * (elapsed / time.Duration(tr.evals))
	fmt.Printf("Eval %d/%d: rate=%.2f/s quality=%.2f (best=%.3f) | elapsed: %s, ETA: %s\n",
		tr.evals, tr.maxEvals, rate, quality, tr.best,
		formatDuration(elapsed), formatDuration(remaining))

	return fitness
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 36000, "Simulation duration in ticks per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	stepSize := flag.Float64("step-size", 0.3, "Initial CMA-ES step size in normalized units")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	elog, err := createEvalLog(filepath.Join(*outputDir, "optimize_log.csv"))
	if err != nil {
		log.Fatal(err)
	}
	defer elog.Close()

	tr := &tracker{
		params:    params,
		evaluator: NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, config.Cfg()),
		log:       elog,
		maxEvals:  *maxEvals,
		startTime: time.Now(),
	}

	dim := params.Dim()
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*math.Log(float64(dim)))
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	// Evaluations run one at a time; each already fans out over seeds.
	result, err := optimize.Minimize(
		optimize.Problem{Func: tr.objective},
		params.Normalize(params.DefaultVector()),
		&optimize.Settings{FuncEvaluations: *maxEvals},
		&optimize.CmaEsChol{InitStepSize: *stepSize, Population: popSize},
	)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := tr.bestParams
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", tr.evals, formatDuration(time.Since(tr.startTime)))
	fmt.Printf("Best fitness: %.3f\n", tr.best)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %-24s %.4f  (%s)\n", spec.Name, best[i], spec.Path)
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, best)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Fatalf("failed to write best config: %v", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
