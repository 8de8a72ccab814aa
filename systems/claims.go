package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarmsort/components"
)

// ResourceLookup returns the resource component of e, or nil once e has left the world.
type ResourceLookup func(e ecs.Entity) *components.Resource

// ClaimBook holds the per-ship target slots and the inverse index from a
// claimed resource to the slot holding it.
//
// A resource's Targeted flag is true exactly when one slot references it.
// All mutation goes through the book; callers running searches in parallel
// must commit claims from a single goroutine.
type ClaimBook struct {
	slots    []ecs.Entity       // ship index -> claimed resource (zero = none)
	claimant map[ecs.Entity]int // resource -> ship index
}

// NewClaimBook creates an empty book.
func NewClaimBook() *ClaimBook {
	return &ClaimBook{claimant: make(map[ecs.Entity]int)}
}

// Resize grows the slot array to n ships. Slots are never dropped.
func (b *ClaimBook) Resize(n int) {
	for len(b.slots) < n {
		b.slots = append(b.slots, ecs.Entity{})
	}
}

// Len returns the number of ship slots.
func (b *ClaimBook) Len() int {
	return len(b.slots)
}

// Target returns the resource claimed by ship i, if any.
func (b *ClaimBook) Target(i int) (ecs.Entity, bool) {
	if i < 0 || i >= len(b.slots) {
		return ecs.Entity{}, false
	}
	e := b.slots[i]
	return e, !e.IsZero()
}

// Claimant returns the ship index holding e.
func (b *ClaimBook) Claimant(e ecs.Entity) (int, bool) {
	i, ok := b.claimant[e]
	return i, ok
}

// Active returns the number of live claims.
func (b *ClaimBook) Active() int {
	return len(b.claimant)
}

// TryClaim binds resource e to ship i. It is a compare-and-set on the
// resource's Targeted flag: it fails when the resource is already claimed,
// tombstoned or delivered, or when ship i already holds a claim.
func (b *ClaimBook) TryClaim(i int, e ecs.Entity, res *components.Resource) bool {
	if i < 0 || i >= len(b.slots) || res == nil {
		return false
	}
	if !b.slots[i].IsZero() || !res.Searchable() {
		return false
	}
	res.Targeted = true
	b.slots[i] = e
	b.claimant[e] = i
	return true
}

// Release clears ship i's claim and the flag on its resource.
// res may be nil when the resource has already left the world.
func (b *ClaimBook) Release(i int, res *components.Resource) {
	if i < 0 || i >= len(b.slots) {
		return
	}
	e := b.slots[i]
	if e.IsZero() {
		return
	}
	if res != nil {
		res.Targeted = false
	}
	b.slots[i] = ecs.Entity{}
	if owner, ok := b.claimant[e]; ok && owner == i {
		delete(b.claimant, e)
	}
}

// ReleaseResource detaches e from whichever slot references it and returns
// the number of slots cleared. The inverse index answers the common case; a
// full slot scan backs it up so no slot can keep a reference to a resource
// leaving the live collection.
func (b *ClaimBook) ReleaseResource(e ecs.Entity, res *components.Resource) int {
	cleared := 0
	if i, ok := b.claimant[e]; ok {
		b.slots[i] = ecs.Entity{}
		delete(b.claimant, e)
		cleared++
	}
	for i := range b.slots {
		if b.slots[i] == e {
			b.slots[i] = ecs.Entity{}
			cleared++
		}
	}
	if res != nil {
		res.Targeted = false
	}
	return cleared
}

// ReleaseAll drops every claim.
func (b *ClaimBook) ReleaseAll(lookup ResourceLookup) {
	for i, e := range b.slots {
		if e.IsZero() {
			continue
		}
		if res := lookup(e); res != nil {
			res.Targeted = false
		}
		b.slots[i] = ecs.Entity{}
	}
	clear(b.claimant)
}

// Validate checks the claim invariants against the live resources and
// returns every violation found:
//   - a slot references a tombstoned or missing resource,
//   - a Targeted resource is referenced by no slot or by more than one,
//   - a referenced resource is not Targeted.
func (b *ClaimBook) Validate(resources []ecs.Entity, lookup ResourceLookup) []error {
	var errs []error
	refs := make(map[ecs.Entity]int, len(b.slots))
	for i, e := range b.slots {
		if e.IsZero() {
			continue
		}
		refs[e]++
		res := lookup(e)
		if res == nil {
			errs = append(errs, fmt.Errorf("slot %d references missing resource %v", i, e))
			continue
		}
		if res.Removed {
			errs = append(errs, fmt.Errorf("slot %d references removed resource %d", i, res.ID))
		}
		if !res.Targeted {
			errs = append(errs, fmt.Errorf("slot %d references unflagged resource %d", i, res.ID))
		}
	}
	for _, e := range resources {
		res := lookup(e)
		if res == nil || !res.Targeted {
			continue
		}
		if n := refs[e]; n != 1 {
			errs = append(errs, fmt.Errorf("resource %d is targeted by %d slots", res.ID, n))
		}
	}
	return errs
}
