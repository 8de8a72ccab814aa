package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarmsort/components"
	"github.com/pthm-cable/swarmsort/config"
)

// TargetingParams holds the tunables of the assignment and steering pass.
type TargetingParams struct {
	Search         SearchParams
	ShipRadius     float32
	ResourceRadius float32
	PushMultiplier float32
	Tolerance      float64 // delivery tolerance around a zone
	LowWater       int     // replenish when fewer live resources remain
	ReplenishCount int
}

// TargetingParamsFromConfig reads the targeting parameters from cfg.
func TargetingParamsFromConfig(cfg *config.Config) TargetingParams {
	return TargetingParams{
		Search: SearchParams{
			Radius:    float32(cfg.Targeting.SearchRadius),
			Step:      float32(cfg.Targeting.RadiusStep),
			MaxRadius: float32(cfg.Targeting.MaxSearchRadius),
		},
		ShipRadius:     float32(cfg.Ships.Radius),
		ResourceRadius: float32(cfg.Resources.Radius),
		PushMultiplier: float32(cfg.Targeting.PushMultiplier),
		Tolerance:      cfg.Targeting.DeliveryTolerance,
		LowWater:       cfg.Resources.LowWater,
		ReplenishCount: cfg.Resources.ReplenishCount,
	}
}

// Proposal is the outcome of a read-only search for one ship.
type Proposal struct {
	Target ecs.Entity
	Result SearchResult
}

// BatchSearcher runs read-only searches for many origins at once.
// Implementations may fan out across goroutines; they must only call
// TargetingSystem.Propose, which does not mutate shared state.
type BatchSearcher interface {
	SearchBatch(s *TargetingSystem, origins []components.Position, out []Proposal)
}

// TickStats counts what happened during one AdvanceTick.
type TickStats struct {
	Claims            int
	Conflicts         int // parallel proposals lost to an earlier ship
	ReleasedDelivered int
	ReleasedRemoved   int
	Misses            int
	Expansions        int
	Approaching       int
	Pushing           int
	Replenished       int
}

// TargetingSystem assigns resources to ships and steers both.
// It owns the per-ship claim slots and the spatial grid; resources and ships
// are owned by the caller and referenced by entity.
type TargetingSystem struct {
	world   *ecs.World
	posMap  *ecs.Map1[components.Position]
	velMap  *ecs.Map1[components.Velocity]
	rotMap  *ecs.Map1[components.Rotation]
	shipMap *ecs.Map1[components.Ship]
	resMap  *ecs.Map1[components.Resource]

	params TargetingParams
	grid   *SpatialGrid
	claims *ClaimBook

	batch          BatchSearcher
	batchThreshold int
	replenish      func(count int)

	// Reused per tick
	scratch   []ecs.Entity
	pending   []int
	origins   []components.Position
	proposals []Proposal

	stats TickStats
}

// NewTargetingSystem creates a targeting system over the world's components.
func NewTargetingSystem(w *ecs.World, cellSize float32, params TargetingParams) *TargetingSystem {
	return &TargetingSystem{
		world:   w,
		posMap:  ecs.NewMap1[components.Position](w),
		velMap:  ecs.NewMap1[components.Velocity](w),
		rotMap:  ecs.NewMap1[components.Rotation](w),
		shipMap: ecs.NewMap1[components.Ship](w),
		resMap:  ecs.NewMap1[components.Resource](w),
		params:  params,
		grid:    NewSpatialGrid(cellSize),
		claims:  NewClaimBook(),
		scratch: make([]ecs.Entity, 0, 256),
	}
}

// SetBatchSearcher enables batched searching once at least threshold ships
// need a target in the same tick. A nil searcher or threshold <= 0 disables it.
func (s *TargetingSystem) SetBatchSearcher(b BatchSearcher, threshold int) {
	s.batch = b
	s.batchThreshold = threshold
}

// SetReplenisher sets the spawn collaborator used when the pool runs low.
func (s *TargetingSystem) SetReplenisher(fn func(count int)) {
	s.replenish = fn
}

// Params returns the current parameters.
func (s *TargetingSystem) Params() TargetingParams {
	return s.params
}

// SetParams replaces the parameters. Existing claims are kept.
func (s *TargetingSystem) SetParams(p TargetingParams) {
	s.params = p
}

// Claims exposes the claim book for inspection.
func (s *TargetingSystem) Claims() *ClaimBook {
	return s.claims
}

// Grid exposes the spatial grid built during the last tick.
func (s *TargetingSystem) Grid() *SpatialGrid {
	return s.grid
}

// Stats returns the counters of the last AdvanceTick.
func (s *TargetingSystem) Stats() TickStats {
	return s.stats
}

// Resource returns the resource component of e, or nil once e has left the world.
func (s *TargetingSystem) Resource(e ecs.Entity) *components.Resource {
	if e.IsZero() || !s.world.Alive(e) {
		return nil
	}
	return s.resMap.Get(e)
}

// RefreshDelivery recomputes the cached InCorrectArea flag of every resource.
// It runs once per tick before any search so all readers agree on one value.
func (s *TargetingSystem) RefreshDelivery(resources []ecs.Entity, zones ZoneMap) {
	for _, e := range resources {
		res := s.resMap.Get(e)
		pos := s.posMap.Get(e)
		res.InCorrectArea = IsDelivered(res, *pos, zones, s.params.Tolerance)
	}
}

// AdvanceTick runs one assignment and steering pass. The delivery cache is
// refreshed first; then stale claims are released, ships without a claim
// search and claim, and every ship holding a claim is steered.
// Nothing here fails: a ship that finds nothing stays idle until the next tick.
//
// ships is indexed stably: slot i always belongs to ships[i].
func (s *TargetingSystem) AdvanceTick(ships, resources []ecs.Entity, zones ZoneMap, speed float32) {
	s.stats = TickStats{}
	s.claims.Resize(len(ships))

	s.RefreshDelivery(resources, zones)
	s.invalidate(ships)
	s.rebuildGrid(resources)
	s.assign(ships)
	s.steer(ships, zones, speed)

	if s.replenish != nil && len(resources) < s.params.LowWater && s.params.ReplenishCount > 0 {
		s.replenish(s.params.ReplenishCount)
		s.stats.Replenished = s.params.ReplenishCount
	}
}

// invalidate releases claims on tombstoned or delivered resources.
func (s *TargetingSystem) invalidate(ships []ecs.Entity) {
	for i, ship := range ships {
		target, ok := s.claims.Target(i)
		if !ok {
			continue
		}
		res := s.Resource(target)
		switch {
		case res == nil || res.Removed:
			s.claims.Release(i, res)
			s.stats.ReleasedRemoved++
		case res.InCorrectArea:
			s.claims.Release(i, res)
			s.stats.ReleasedDelivered++
		default:
			continue
		}
		s.shipMap.Get(ship).State = components.ShipUnassigned
	}
}

// rebuildGrid indexes every resource that can still be claimed this tick.
func (s *TargetingSystem) rebuildGrid(resources []ecs.Entity) {
	s.grid.Clear()
	for _, e := range resources {
		if !s.resMap.Get(e).Searchable() {
			continue
		}
		pos := s.posMap.Get(e)
		s.grid.Insert(e, pos.X, pos.Y)
	}
}

// accept is the search predicate: the candidate must still be claimable.
func (s *TargetingSystem) accept(e ecs.Entity) (float32, float32, bool) {
	res := s.resMap.Get(e)
	if res == nil || !res.Searchable() {
		return 0, 0, false
	}
	pos := s.posMap.Get(e)
	return pos.X, pos.Y, true
}

// Propose searches for the nearest claimable resource around origin without
// claiming it. It only reads shared state and is safe to call concurrently
// as long as each caller passes its own scratch buffer.
func (s *TargetingSystem) Propose(origin components.Position, scratch []ecs.Entity) (Proposal, []ecs.Entity) {
	target, result, scratch := FindNearest(s.grid, origin.X, origin.Y, s.params.Search, s.accept, scratch)
	return Proposal{Target: target, Result: result}, scratch
}

// assign gives every unassigned ship the nearest claimable resource.
// Claims are committed in ship order, so the lowest index wins a contested
// resource whether the searches ran serially or in a batch.
func (s *TargetingSystem) assign(ships []ecs.Entity) {
	s.pending = s.pending[:0]
	s.origins = s.origins[:0]
	for i, ship := range ships {
		if _, ok := s.claims.Target(i); ok {
			continue
		}
		s.pending = append(s.pending, i)
		s.origins = append(s.origins, *s.posMap.Get(ship))
	}
	if len(s.pending) == 0 || s.grid.Len() == 0 {
		s.stats.Misses += len(s.pending)
		return
	}

	if s.batch == nil || s.batchThreshold <= 0 || len(s.pending) < s.batchThreshold {
		for k, i := range s.pending {
			s.searchAndClaim(i, ships[i], s.origins[k])
		}
		return
	}

	if cap(s.proposals) < len(s.pending) {
		s.proposals = make([]Proposal, len(s.pending))
	}
	s.proposals = s.proposals[:len(s.pending)]
	s.batch.SearchBatch(s, s.origins, s.proposals)

	for k, i := range s.pending {
		p := s.proposals[k]
		if !p.Result.Found {
			// Claims only shrink the candidate set, so a miss stays a miss.
			s.stats.Misses++
			s.stats.Expansions += p.Result.Expansions
			continue
		}
		if s.commit(i, ships[i], p) {
			continue
		}
		s.stats.Conflicts++
		s.searchAndClaim(i, ships[i], s.origins[k])
	}
}

// searchAndClaim runs a search for ship i against the current claims and
// claims the result.
func (s *TargetingSystem) searchAndClaim(i int, ship ecs.Entity, origin components.Position) {
	var p Proposal
	p, s.scratch = s.Propose(origin, s.scratch)
	if !p.Result.Found {
		s.stats.Misses++
		s.stats.Expansions += p.Result.Expansions
		return
	}
	s.commit(i, ship, p)
}

// commit claims the proposed target for ship i.
func (s *TargetingSystem) commit(i int, ship ecs.Entity, p Proposal) bool {
	if !s.claims.TryClaim(i, p.Target, s.resMap.Get(p.Target)) {
		return false
	}
	s.stats.Claims++
	s.stats.Expansions += p.Result.Expansions
	s.shipMap.Get(ship).State = components.ShipApproaching
	return true
}

// steer flies each claiming ship to its resource; once in contact the
// resource is pushed toward its zone instead.
func (s *TargetingSystem) steer(ships []ecs.Entity, zones ZoneMap, speed float32) {
	for i, ship := range ships {
		target, ok := s.claims.Target(i)
		if !ok {
			continue
		}
		res := s.resMap.Get(target)
		zone, ok := zones.Position(res.Material)
		if !ok {
			continue
		}
		shipPos := s.posMap.Get(ship)
		resPos := s.posMap.Get(target)
		sh := s.shipMap.Get(ship)

		if WithinPush(*shipPos, *resPos, s.params.ShipRadius, s.params.ResourceRadius) {
			*s.velMap.Get(target) = PushTowards(*resPos, zone, speed, s.params.PushMultiplier)
			sh.State = components.ShipPushing
			s.stats.Pushing++
			continue
		}
		Steer(*shipPos, s.velMap.Get(ship), s.rotMap.Get(ship), *resPos, speed)
		sh.State = components.ShipApproaching
		s.stats.Approaching++
	}
}

// ReleaseResource detaches e from any claim. Callers removing a resource from
// the live collection must call this first.
func (s *TargetingSystem) ReleaseResource(ships []ecs.Entity, e ecs.Entity) {
	idx, held := s.claims.Claimant(e)
	s.claims.ReleaseResource(e, s.Resource(e))
	if held && idx < len(ships) {
		s.shipMap.Get(ships[idx]).State = components.ShipUnassigned
	}
}

// ReleaseAll drops every claim and marks all ships unassigned.
func (s *TargetingSystem) ReleaseAll(ships []ecs.Entity) {
	s.claims.ReleaseAll(s.Resource)
	for _, ship := range ships {
		s.shipMap.Get(ship).State = components.ShipUnassigned
	}
}

// Validate checks the claim invariants against the live resources.
func (s *TargetingSystem) Validate(resources []ecs.Entity) []error {
	return s.claims.Validate(resources, s.Resource)
}
