package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gaslab/internal/gas"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.HeavyCount == 0 {
		t.Error("default run should start populated")
	}
	if !cfg.Collisions {
		t.Error("collisions should default on")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.HeavyCount = 42
	cfg.Hold = "pressure-v"
	cfg.Container.Divider = true
	cfg.Container.DividerX = 280

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.HeavyCount != 42 {
		t.Errorf("heavy count: got %d, want 42", loaded.HeavyCount)
	}
	if loaded.Hold != "pressure-v" {
		t.Errorf("hold: got %s", loaded.Hold)
	}
	if !loaded.Container.Divider || loaded.Container.DividerX != 280 {
		t.Errorf("divider lost in round trip: %+v", loaded.Container)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("heavy_count: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HeavyCount != 7 {
		t.Errorf("heavy count: got %d, want 7", cfg.HeavyCount)
	}
	if cfg.Dt != DefaultConfig().Dt {
		t.Errorf("unset dt should fall back to default, got %f", cfg.Dt)
	}
}

func TestToSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hold = "temperature"

	sim, err := cfg.ToSimConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sim.HoldMode != gas.HoldTemperature {
		t.Errorf("hold mode: got %v", sim.HoldMode)
	}
	if sim.HeavyCount != cfg.HeavyCount || sim.Dt != cfg.Dt {
		t.Error("fields not carried over")
	}

	cfg.Hold = "bogus"
	if _, err := cfg.ToSimConfig(); err == nil {
		t.Error("expected an error for an unknown hold mode")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("diffusion")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.Container.Divider {
		t.Error("diffusion preset should start divided")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"equilibrium", "compression", "diffusion", "escape"} {
		if !seen[want] {
			t.Errorf("missing preset %s", want)
		}
	}
}

func TestPresetsConvert(t *testing.T) {
	for name, cfg := range Presets {
		if _, err := cfg.ToSimConfig(); err != nil {
			t.Errorf("preset %s does not convert: %v", name, err)
		}
	}
}
