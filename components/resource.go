package components

// Material identifies the kind of a resource. Values index config.Materials.
type Material uint8

// Resource is a collectible entity delivered to the zone of its material.
//
// Targeted is the exclusive claim flag, InCorrectArea is the per-tick delivery
// cache and Removed is the tombstone set before the entity leaves the world.
type Resource struct {
	ID            uint32
	Material      Material
	Targeted      bool
	InCorrectArea bool
	Removed       bool
}

// Searchable reports whether the resource may be claimed by a ship.
func (r *Resource) Searchable() bool {
	return !r.Targeted && !r.InCorrectArea && !r.Removed
}
