// Package systems provides the ECS systems for the simulation.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// cellKey packs a signed cell coordinate pair into one map key.
type cellKey uint64

func packCell(cx, cy int32) cellKey {
	return cellKey(uint64(uint32(cx))<<32 | uint64(uint32(cy)))
}

// SpatialGrid buckets entities into square cells for radius queries.
// The grid is unbounded; it is cleared and refilled every tick, so it never
// needs a removal operation.
type SpatialGrid struct {
	cellSize float32
	cells    map[cellKey][]ecs.Entity
	count    int
}

// NewSpatialGrid creates an empty grid with the given cell size.
func NewSpatialGrid(cellSize float32) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]ecs.Entity, 64),
	}
}

// CellSize returns the edge length of a cell in world units.
func (g *SpatialGrid) CellSize() float32 {
	return g.cellSize
}

// Len returns the number of entities inserted since the last Clear.
func (g *SpatialGrid) Len() int {
	return g.count
}

// Clear empties all buckets, keeping their capacity for the next tick.
func (g *SpatialGrid) Clear() {
	for k, bucket := range g.cells {
		if len(bucket) == 0 {
			// Bucket stayed empty for a whole tick; let it go.
			delete(g.cells, k)
			continue
		}
		g.cells[k] = bucket[:0]
	}
	g.count = 0
}

// Insert adds an entity to the cell containing (x, y).
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	k := packCell(g.cellCoord(x), g.cellCoord(y))
	g.cells[k] = append(g.cells[k], e)
	g.count++
}

// QueryInto appends to dst every entity in the cells within Chebyshev cell
// distance ceil(radius/cellSize) of the cell containing (x, y).
// The result is a superset of the circle; callers filter by exact distance.
func (g *SpatialGrid) QueryInto(dst []ecs.Entity, x, y, radius float32) []ecs.Entity {
	if g.count == 0 {
		return dst
	}
	cellRadius := int32(math.Ceil(float64(radius / g.cellSize)))
	if cellRadius < 0 {
		cellRadius = 0
	}
	cx := g.cellCoord(x)
	cy := g.cellCoord(y)

	// Large radii over a sparse grid: walking the occupied buckets is cheaper
	// than probing every cell in the square.
	span := int64(2*cellRadius + 1)
	if span*span > int64(len(g.cells)) {
		for k, bucket := range g.cells {
			kx := int32(uint32(uint64(k) >> 32))
			ky := int32(uint32(uint64(k)))
			if absInt32(kx-cx) <= cellRadius && absInt32(ky-cy) <= cellRadius {
				dst = append(dst, bucket...)
			}
		}
		return dst
	}

	for dx := -cellRadius; dx <= cellRadius; dx++ {
		for dy := -cellRadius; dy <= cellRadius; dy++ {
			if bucket, ok := g.cells[packCell(cx+dx, cy+dy)]; ok {
				dst = append(dst, bucket...)
			}
		}
	}
	return dst
}

// Query returns the entities near (x, y). Allocates; prefer QueryInto in hot paths.
func (g *SpatialGrid) Query(x, y, radius float32) []ecs.Entity {
	return g.QueryInto(nil, x, y, radius)
}

// cellCoord returns floor(v / cellSize).
func (g *SpatialGrid) cellCoord(v float32) int32 {
	return int32(math.Floor(float64(v / g.cellSize)))
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
