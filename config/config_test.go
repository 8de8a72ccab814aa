package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Targeting.SearchRadius != 1000 || cfg.Targeting.RadiusStep != 500 || cfg.Targeting.MaxSearchRadius != 8000 {
		t.Errorf("unexpected search bounds %+v", cfg.Targeting)
	}
	if cfg.Targeting.PushMultiplier <= 1 {
		t.Errorf("push multiplier %v must exceed 1", cfg.Targeting.PushMultiplier)
	}
	if len(cfg.Materials) != 4 {
		t.Fatalf("expected 4 materials, got %d", len(cfg.Materials))
	}
	if cfg.Derived.MaterialIndex["iron"] != 1 {
		t.Errorf("iron index = %d, want 1", cfg.Derived.MaterialIndex["iron"])
	}
	if cfg.Derived.AutoTicks != 59 && cfg.Derived.AutoTicks != 60 {
		t.Errorf("AutoTicks = %d, want about 60", cfg.Derived.AutoTicks)
	}
	if cfg.Patrol.Spin != 0.2 {
		t.Errorf("patrol spin = %v, want 0.2", cfg.Patrol.Spin)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	overlay := "ships:\n  speed: 350\ntargeting:\n  search_radius: 1200\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ships.Speed != 350 {
		t.Errorf("speed = %v, want 350", cfg.Ships.Speed)
	}
	if cfg.Targeting.SearchRadius != 1200 {
		t.Errorf("search radius = %v, want 1200", cfg.Targeting.SearchRadius)
	}
	// Untouched fields keep their defaults.
	if cfg.Targeting.RadiusStep != 500 {
		t.Errorf("radius step = %v, want default 500", cfg.Targeting.RadiusStep)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
		wantErr string
	}{
		{"zero cell size", "targeting:\n  cell_size: 0\n", "cell_size"},
		{"cap below radius", "targeting:\n  max_search_radius: 10\n", "max_search_radius"},
		{"push not faster", "targeting:\n  push_multiplier: 1.0\n", "push_multiplier"},
		{"no materials", "materials: []\n", "material"},
		{"zero dt", "physics:\n  dt: 0\n", "physics.dt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestMaterialRGB(t *testing.T) {
	tests := []struct {
		color string
		want  uint32
	}{
		{"#00FFFF", 0x00FFFF},
		{"A9A9A9", 0xA9A9A9},
		{"#nothex", 0xFFFFFF},
		{"#1FFFFFF", 0xFFFFFF},
	}
	for _, tt := range tests {
		if got := (MaterialConfig{Color: tt.color}).RGB(); got != tt.want {
			t.Errorf("RGB(%q) = %06X, want %06X", tt.color, got, tt.want)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Ships.Speed = 275

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Ships.Speed != 275 {
		t.Errorf("speed = %v, want 275", loaded.Ships.Speed)
	}
}
