package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rlucine/creature-evolution/config"
	"github.com/rlucine/creature-evolution/persist"
	"github.com/rlucine/creature-evolution/telemetry"
)

// fastConfig keeps the physics workload small enough for tests.
func fastConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Creature.FitnessTrials = 1
	cfg.Creature.SettleLimit = 2
	cfg.Genetic.Population = 8
	cfg.Genetic.Workers = 1
	cfg.Genetic.Timeout = 2
	cfg.Genetic.Target = -1000 // unreachable, so Run always hits the limit
	cfg.Telemetry.LogGenerations = false
	return cfg
}

func TestEvolverRun(t *testing.T) {
	cfg := fastConfig(t)
	dir := t.TempDir()
	output, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer output.Close()

	e, err := NewEvolver(cfg, 99, output)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	best, err := e.Run(0)
	if err != nil {
		t.Fatal(err)
	}
	if best == nil {
		t.Fatal("no best creature")
	}
	if err := best.Validate(); err != nil {
		t.Fatalf("best creature invalid: %v", err)
	}
	if e.Simulations() == 0 {
		t.Error("no fitness simulations ran")
	}
	if e.BestDistance() != -e.engine.BestFitness() {
		t.Error("BestDistance does not mirror the engine score")
	}

	if _, err := os.Stat(filepath.Join(dir, "generations.csv")); err != nil {
		t.Errorf("generations.csv missing: %v", err)
	}
	saved, err := persist.Load(filepath.Join(dir, "best.crtr"))
	if err != nil {
		t.Fatalf("champion snapshot missing: %v", err)
	}
	if saved.NNodes != best.NNodes {
		// The snapshot tracks the champion, which survives in place, so
		// its body plan must match what Best reports.
		t.Error("saved champion does not match the reported best")
	}
}

func TestEvolverStepAndDone(t *testing.T) {
	cfg := fastConfig(t)
	cfg.Genetic.Timeout = 2

	e, err := NewEvolver(cfg, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if e.Done() {
		t.Fatal("fresh evolver reports done")
	}
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if e.Generations() != 1 {
		t.Fatalf("one step ran %d generations", e.Generations())
	}
	if e.Done() {
		t.Fatal("done before the generation limit")
	}
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if !e.Done() {
		t.Fatal("not done at the generation limit")
	}
}

func TestEvolverNoOutput(t *testing.T) {
	cfg := fastConfig(t)
	cfg.Genetic.Timeout = 1

	e, err := NewEvolver(cfg, 7, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if _, err := e.Run(0); err != nil {
		t.Fatal(err)
	}
}

func TestEvolverRejectsBadConfig(t *testing.T) {
	cfg := fastConfig(t)
	cfg.Physics.Integrator = "verlet"
	if _, err := NewEvolver(cfg, 1, nil); err == nil {
		t.Error("unknown integrator accepted")
	}

	cfg = fastConfig(t)
	cfg.Genetic.Population = 2
	if _, err := NewEvolver(cfg, 1, nil); err == nil {
		t.Error("tiny population accepted")
	}
}
