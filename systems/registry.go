package systems

// SystemInfo describes a simulation phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (matches the perf phase name)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "core", "swarm")
}

// SystemRegistry holds metadata about all simulation phases.
// This centralizes naming so the control panel and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known phases in step order.
// Update this when adding new phases.
func (r *SystemRegistry) registerDefaults() {
	// Swarm movement
	r.Register(SystemInfo{ID: "targeting", Name: "Targeting", Description: "Claims resources and steers ships", Category: "swarm"})
	r.Register(SystemInfo{ID: "formation", Name: "Formation", Description: "Patrol and column movement", Category: "swarm"})

	// Physics and movement
	r.Register(SystemInfo{ID: "gravity", Name: "Gravity", Description: "Pulls resources toward their zones", Category: "physics"})
	r.Register(SystemInfo{ID: "physics", Name: "Physics", Description: "Applies forces and updates positions", Category: "physics"})

	// Bookkeeping
	r.Register(SystemInfo{ID: "economy", Name: "Economy", Description: "Counts sorted resources and runs auto delivery", Category: "core"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Flushes stats windows", Category: "core"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
