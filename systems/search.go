package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// SearchParams bounds a nearest-candidate search.
type SearchParams struct {
	Radius    float32 // initial radius
	Step      float32 // added to the radius after an empty pass
	MaxRadius float32 // no pass runs beyond this radius
}

// SearchResult describes how a search went.
type SearchResult struct {
	Found      bool
	DistSq     float32
	Radius     float32 // radius of the pass that produced the result
	Expansions int     // passes run after the first
}

// CandidateFunc reports the position of e if it may be selected.
type CandidateFunc func(e ecs.Entity) (x, y float32, ok bool)

// FindNearest returns the accepted entity closest to (x, y).
//
// Each pass queries the grid at the current radius and keeps candidates whose
// squared distance is within the radius. An empty pass grows the radius by
// Step, clamped to MaxRadius; the pass at MaxRadius is the last.
// A miss is an ordinary outcome and returns the zero entity.
//
// scratch is reused for grid results and returned for the next call.
func FindNearest(grid *SpatialGrid, x, y float32, p SearchParams, accept CandidateFunc, scratch []ecs.Entity) (ecs.Entity, SearchResult, []ecs.Entity) {
	var res SearchResult
	radius := p.Radius
	for pass := 0; ; pass++ {
		scratch = grid.QueryInto(scratch[:0], x, y, radius)

		best := ecs.Entity{}
		bestDistSq := radius * radius
		found := false
		for _, e := range scratch {
			ex, ey, ok := accept(e)
			if !ok {
				continue
			}
			dx := ex - x
			dy := ey - y
			distSq := dx*dx + dy*dy
			if distSq <= bestDistSq && (!found || distSq < bestDistSq) {
				best = e
				bestDistSq = distSq
				found = true
			}
		}

		if found {
			res.Found = true
			res.DistSq = bestDistSq
			res.Radius = radius
			res.Expansions = pass
			return best, res, scratch
		}

		if p.Step <= 0 || radius >= p.MaxRadius {
			res.Radius = radius
			res.Expansions = pass
			return ecs.Entity{}, res, scratch
		}
		radius += p.Step
		if radius > p.MaxRadius {
			radius = p.MaxRadius
		}
	}
}
