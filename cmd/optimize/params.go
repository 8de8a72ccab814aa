// Package main provides CMA-ES optimization of swarm targeting parameters.
package main

import (
	"github.com/pthm-cable/swarmsort/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// max_search_radius stays fixed so every candidate keeps the same search cap.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Spatial index
			{Name: "cell_size", Path: "targeting.cell_size", Min: 50, Max: 800, Default: 200},
			// Proximity search
			{Name: "search_radius", Path: "targeting.search_radius", Min: 200, Max: 3000, Default: 1000},
			{Name: "radius_step", Path: "targeting.radius_step", Min: 100, Max: 2000, Default: 500},
			// Steering
			{Name: "push_multiplier", Path: "targeting.push_multiplier", Min: 1.001, Max: 1.5, Default: 1.001},
			// Physics
			{Name: "delivered_speed_limit", Path: "physics.delivered_speed_limit", Min: 20, Max: 300, Default: 100},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Order must match Specs order
	cfg.Targeting.CellSize = clamped[0]
	cfg.Targeting.SearchRadius = clamped[1]
	cfg.Targeting.RadiusStep = clamped[2]
	cfg.Targeting.PushMultiplier = clamped[3]
	cfg.Physics.DeliveredSpeedLimit = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Targeting.CellSize,
		cfg.Targeting.SearchRadius,
		cfg.Targeting.RadiusStep,
		cfg.Targeting.PushMultiplier,
		cfg.Physics.DeliveredSpeedLimit,
	}
}
