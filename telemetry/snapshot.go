package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/swarmsort/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the swarm state at one tick, for offline inspection.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed int64  `json:"rng_seed"`
	Tick    int32  `json:"tick"`
	Mode    string `json:"mode"`
	Money   int    `json:"money"`

	Zones     []ZoneState     `json:"zones"`
	Ships     []ShipState     `json:"ships"`
	Resources []ResourceState `json:"resources"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ZoneState is one material's target zone.
type ZoneState struct {
	Material components.Material `json:"material"`
	X        float64             `json:"x"`
	Y        float64             `json:"y"`
}

// ShipState holds one ship's state. Target is the claimed resource ID, or
// zero when the ship holds no claim.
type ShipState struct {
	ID      uint32               `json:"id"`
	State   components.ShipState `json:"state"`
	Target  uint32               `json:"target,omitempty"`
	X       float32              `json:"x"`
	Y       float32              `json:"y"`
	VelX    float32              `json:"vel_x"`
	VelY    float32              `json:"vel_y"`
	Heading float32              `json:"heading"`
}

// ResourceState holds one resource's state.
type ResourceState struct {
	ID            uint32              `json:"id"`
	Material      components.Material `json:"material"`
	X             float32             `json:"x"`
	Y             float32             `json:"y"`
	Targeted      bool                `json:"targeted"`
	InCorrectArea bool                `json:"in_correct_area"`
}

// Counts returns how many ships hold a claim and how many resources are delivered.
func (s *Snapshot) Counts() (claimed, delivered int) {
	for _, sh := range s.Ships {
		if sh.Target != 0 {
			claimed++
		}
	}
	for _, r := range s.Resources {
		if r.InCorrectArea {
			delivered++
		}
	}
	return claimed, delivered
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
