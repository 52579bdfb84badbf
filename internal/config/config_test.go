package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/forcegraph/internal/forces"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Physics != forces.DefaultParams() {
		t.Errorf("expected default physics, got %+v", cfg.Physics)
	}
	if cfg.TickInterval <= 0 {
		t.Error("tick interval should be positive")
	}
	if cfg.PopupDelay != 2*time.Second {
		t.Errorf("expected 2s popup delay, got %v", cfg.PopupDelay)
	}
	if len(cfg.ExcludeTypes) != 0 {
		t.Errorf("default load must keep every node type, got %v", cfg.ExcludeTypes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file string
		body string
	}{
		{"c.yaml", "log_level: debug\ntick_interval: 10ms\nphysics:\n  link_distance: 80\n  charge_strength: -40\n  collision_radius: 12\nsimulation:\n  width: 400\n"},
		{"c.toml", "log_level = \"debug\"\ntick_interval = \"10ms\"\n[physics]\nlink_distance = 80.0\ncharge_strength = -40.0\ncollision_radius = 12.0\n[simulation]\nwidth = 400.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if cfg.LogLevel != "debug" {
				t.Errorf("log level = %q", cfg.LogLevel)
			}
			if cfg.TickInterval != 10*time.Millisecond {
				t.Errorf("tick interval = %v", cfg.TickInterval)
			}
			want := forces.Params{LinkDistance: 80, ChargeStrength: -40, CollisionRadius: 12}
			if cfg.Physics != want {
				t.Errorf("physics = %+v", cfg.Physics)
			}
			if cfg.Simulation.Width != 400 || cfg.Simulation.Height != 600 {
				t.Errorf("simulation canvas = %vx%v, unset fields should keep defaults", cfg.Simulation.Width, cfg.Simulation.Height)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"level.yaml":   "log_level: loud\n",
		"physics.yaml": "physics:\n  link_distance: -1\n",
		"alpha.yaml":   "simulation:\n  alpha_min: 2\n",
		"syntax.toml":  "log_level = \n",
		"format.json":  "{}",
	}
	for name, body := range tests {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		path := filepath.Join(t.TempDir(), name)
		cfg := DefaultConfig()
		cfg.Physics.LinkDistance = 150
		if err := Save(path, cfg); err != nil {
			t.Fatalf("%s: save failed: %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load failed: %v", name, err)
		}
		if got.Physics.LinkDistance != 150 {
			t.Errorf("%s: link distance = %v", name, got.Physics.LinkDistance)
		}
	}
}

func TestGetPreset(t *testing.T) {
	p, ok := GetPreset("d3")
	if !ok {
		t.Fatal("expected preset")
	}
	if p.ChargeStrength != -30 {
		t.Errorf("expected charge -30, got %f", p.ChargeStrength)
	}
	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected miss for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, name := range names {
		p, _ := GetPreset(name)
		if err := p.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("loose"); err != nil {
		t.Fatal(err)
	}
	if cfg.Physics.LinkDistance != 220 {
		t.Errorf("expected loose link distance, got %v", cfg.Physics.LinkDistance)
	}
	if err := cfg.ApplyPreset("missing"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := DefaultConfig()
	sc := cfg.Session()
	if sc.Physics != cfg.Physics || sc.TickInterval != cfg.TickInterval || !sc.AutoRun {
		t.Errorf("unexpected session config %+v", sc)
	}
}
