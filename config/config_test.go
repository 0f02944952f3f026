package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Physics.TimeStep != 0.005 {
		t.Errorf("TimeStep = %v, want 0.005", cfg.Physics.TimeStep)
	}
	if cfg.Physics.Integrator != "midpoint" {
		t.Errorf("Integrator = %q, want midpoint", cfg.Physics.Integrator)
	}
	if cfg.Creature.MaxEnergy != 65536 {
		t.Errorf("MaxEnergy = %v, want 65536", cfg.Creature.MaxEnergy)
	}
	if cfg.Creature.FitnessTrials != 10 {
		t.Errorf("FitnessTrials = %d, want 10", cfg.Creature.FitnessTrials)
	}
	if cfg.Genetic.Population != 40 {
		t.Errorf("Population = %d, want 40", cfg.Genetic.Population)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	override := []byte("genetic:\n  population: 16\nphysics:\n  integrator: euler\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Genetic.Population != 16 {
		t.Errorf("Population = %d, want overridden 16", cfg.Genetic.Population)
	}
	if cfg.Physics.Integrator != "euler" {
		t.Errorf("Integrator = %q, want overridden euler", cfg.Physics.Integrator)
	}
	// Untouched fields keep their defaults.
	if cfg.Physics.Damping != 1.5 {
		t.Errorf("Damping = %v, want default 1.5", cfg.Physics.Damping)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero time step", "physics:\n  time_step: 0\n"},
		{"tiny population", "genetic:\n  population: 2\n"},
		{"zero trials", "creature:\n  fitness_trials: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load accepted an invalid config")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Genetic.Target = -2.5

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written config failed: %v", err)
	}
	if back.Genetic.Target != -2.5 {
		t.Errorf("Target = %v, want -2.5", back.Genetic.Target)
	}
}
