package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt != sim.DefaultDt {
		t.Errorf("expected dt %v, got %v", sim.DefaultDt, cfg.Dt)
	}
	if cfg.G != gravity.DefaultG || cfg.Softening != gravity.DefaultSoftening {
		t.Errorf("unexpected field constants g=%v s=%v", cfg.G, cfg.Softening)
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if len(cfg.Bodies) != 0 {
		t.Error("default config should have no bodies")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pool")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(cfg.Bodies))
	}
	if cfg.Bodies[0].Kind != body.Test || cfg.Bodies[0].Radius != 4 {
		t.Errorf("unexpected probe %+v", cfg.Bodies[0])
	}

	cfg.Bodies[0].Radius = 99
	if Presets["pool"].Bodies[0].Radius != 4 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
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
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if _, err := cfg.NewSimulator(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestParse(t *testing.T) {
	doc := `
name: pair
dt: 0.01
stepper: parallel
workers: 4
collisions: false
bodies:
  - name: sun
    kind: static
    mass: 10
    radius: 6
  - name: dust
    kind: test
    position: {x: 0, y: -100}
    velocity: {x: 40, y: 0}
    radius: 1
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "pair" || cfg.Dt != 0.01 || cfg.Stepper != "parallel" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.G != gravity.DefaultG {
		t.Error("missing keys should keep defaults")
	}
	if len(cfg.Bodies) != 2 || cfg.Bodies[1].Kind != body.Test {
		t.Fatalf("unexpected bodies %+v", cfg.Bodies)
	}
	if cfg.Bodies[1].Velocity != body.V(40, 0) {
		t.Errorf("unexpected velocity %v", cfg.Bodies[1].Velocity)
	}

	sc := cfg.SimConfig()
	if sc.DetectCollisions || sc.Workers != 4 || sc.Dt != 0.01 {
		t.Errorf("unexpected sim config %+v", sc)
	}
}

func TestParse_BadKind(t *testing.T) {
	doc := `
bodies:
  - name: x
    kind: planet
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestCatalog_Errors(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.Catalog(); !errors.Is(err, ErrNoBodies) {
		t.Errorf("expected ErrNoBodies, got %v", err)
	}

	cfg.Bodies = []body.Spec{{Name: "bad", Kind: body.Test, Mass: 1}}
	if _, err := cfg.Catalog(); !errors.Is(err, body.ErrInvalidBody) {
		t.Errorf("expected ErrInvalidBody, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	orig := GetPreset("binary")

	if err := Save(path, orig); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != orig.Name || len(loaded.Bodies) != len(orig.Bodies) {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	for i := range orig.Bodies {
		if loaded.Bodies[i] != orig.Bodies[i] {
			t.Errorf("body %d: got %+v want %+v", i, loaded.Bodies[i], orig.Bodies[i])
		}
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
