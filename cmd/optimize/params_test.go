package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/swarmsort/config"
	"github.com/pthm-cable/swarmsort/telemetry"
)

func TestDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	pv := NewParamVector()
	assert.InDeltaSlice(t, pv.DefaultVector(), pv.ExtractFromConfig(cfg), 1e-9)
}

func TestApplyToConfigClamps(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	pv := NewParamVector()
	pv.ApplyToConfig(cfg, []float64{10, 5000, 150, 2, 60})

	assert.Equal(t, 50.0, cfg.Targeting.CellSize)
	assert.Equal(t, 3000.0, cfg.Targeting.SearchRadius)
	assert.Equal(t, 150.0, cfg.Targeting.RadiusStep)
	assert.Equal(t, 1.5, cfg.Targeting.PushMultiplier)
	assert.Equal(t, 60.0, cfg.Physics.DeliveredSpeedLimit)
	assert.GreaterOrEqual(t, cfg.Targeting.MaxSearchRadius, cfg.Targeting.SearchRadius)
}

func TestNormalizeBounds(t *testing.T) {
	pv := NewParamVector()
	lo := make([]float64, pv.Dim())
	hi := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		lo[i], hi[i] = spec.Min, spec.Max
	}
	for i := range pv.Specs {
		assert.InDelta(t, 0, pv.Normalize(lo)[i], 1e-12)
		assert.InDelta(t, 1, pv.Normalize(hi)[i], 1e-12)
	}
}

func TestComputeQuality(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), 0, nil, nil)

	t.Run("warmup only", func(t *testing.T) {
		assert.Zero(t, fe.computeQuality(make([]telemetry.WindowStats, 1)))
	})
	t.Run("steady busy swarm", func(t *testing.T) {
		w := telemetry.WindowStats{DeliveriesPerSec: 2, Ships: 10, Approaching: 5, Pushing: 5}
		q := fe.computeQuality([]telemetry.WindowStats{w, w, w})
		assert.InDelta(t, 1.0, q, 1e-9)
	})
	t.Run("stalled swarm", func(t *testing.T) {
		w := telemetry.WindowStats{Ships: 10, Idle: 10, ExpansionsPerFind: 20}
		q := fe.computeQuality([]telemetry.WindowStats{w, w, w})
		assert.Less(t, q, 0.01)
	})
}
