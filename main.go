package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/rlucine/creature-evolution/config"
	"github.com/rlucine/creature-evolution/sim"
	"github.com/rlucine/creature-evolution/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", "evolve", "evolve, play, or describe")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	generations := flag.Int("generations", 0, "Generation limit (0 = use config)")
	watch := flag.Bool("watch", false, "Open a window animating the champion while evolving")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot, and the champion")
	in := flag.String("in", "", "Creature file to play or describe")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	switch *mode {
	case "evolve":
		rngSeed := *seed
		if rngSeed == 0 {
			rngSeed = time.Now().UnixNano()
		}
		if err := evolve(cfg, rngSeed, *generations, *outputDir, *watch); err != nil {
			slog.Error("evolution failed", "error", err)
			os.Exit(1)
		}

	case "play":
		if *in == "" {
			slog.Error("play mode requires -in")
			os.Exit(1)
		}
		if err := sim.Play(cfg, *in); err != nil {
			slog.Error("playback failed", "error", err)
			os.Exit(1)
		}

	case "describe":
		if *in == "" {
			slog.Error("describe mode requires -in")
			os.Exit(1)
		}
		if err := sim.Describe(*in); err != nil {
			slog.Error("describe failed", "error", err)
			os.Exit(1)
		}

	default:
		slog.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}
}

func evolve(cfg *config.Config, seed int64, generations int, outputDir string, watch bool) error {
	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	if watch {
		return sim.Watch(cfg, seed, output)
	}

	evolver, err := sim.NewEvolver(cfg, seed, output)
	if err != nil {
		return err
	}
	defer evolver.Close()

	slog.Info("starting evolution",
		"seed", seed,
		"population", cfg.Genetic.Population,
		"target", cfg.Genetic.Target,
	)

	best, err := evolver.Run(generations)
	if err != nil {
		return err
	}
	slog.Info("evolution finished",
		"generations", evolver.Generations(),
		"distance", evolver.BestDistance(),
		"simulations", evolver.Simulations(),
		"nodes", best.NNodes,
		"muscles", best.NMuscles,
	)
	return nil
}
