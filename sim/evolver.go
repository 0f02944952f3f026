// Package sim ties the pieces together: it runs headless evolution
// and graphical playback on top of the creature and genetic packages.
package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/rlucine/creature-evolution/config"
	"github.com/rlucine/creature-evolution/creature"
	"github.com/rlucine/creature-evolution/genetic"
	"github.com/rlucine/creature-evolution/persist"
	"github.com/rlucine/creature-evolution/phys"
	"github.com/rlucine/creature-evolution/telemetry"
)

// Evolver runs generations of creatures and records what happened.
type Evolver struct {
	cfg       *config.Config
	params    *creature.Params
	eval      *creature.Evaluator
	engine    *genetic.Engine[creature.Creature]
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	bestSaved float64
}

// Params builds simulation parameters from the configuration.
func Params(cfg *config.Config) (*creature.Params, error) {
	integrator, err := phys.New(cfg.Physics.Integrator)
	if err != nil {
		return nil, err
	}
	return &creature.Params{
		Integrator:     integrator,
		TimeStep:       cfg.Physics.TimeStep,
		Gravity:        cfg.Physics.Gravity,
		Damping:        cfg.Physics.Damping,
		Restitution:    cfg.Physics.Restitution,
		GroundFriction: cfg.Physics.GroundFriction,
		BehaviorTime:   cfg.Creature.BehaviorTime,
		MaxEnergy:      cfg.Creature.MaxEnergy,
		FitnessTrials:  cfg.Creature.FitnessTrials,
		SettleLimit:    cfg.Creature.SettleLimit,
	}, nil
}

// NewEvolver seeds a fresh random population. output may be nil to
// run without recording.
func NewEvolver(cfg *config.Config, seed int64, output *telemetry.OutputManager) (*Evolver, error) {
	params, err := Params(cfg)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	eval := creature.NewEvaluator(params)

	ops := genetic.Ops[creature.Creature]{
		Randomize: func(c *creature.Creature) { c.Randomize(rng) },
		Breed: func(mother, father, son, daughter *creature.Creature) {
			creature.Breed(mother, father, son, rng)
			creature.Breed(mother, father, daughter, rng)
		},
		// The engine minimizes, so walking far means scoring low.
		Fitness: func(c *creature.Creature) float64 { return -eval.Evaluate(c) },
	}
	engine, err := genetic.New(genetic.Config{
		PopulationSize: cfg.Genetic.Population,
		Workers:        cfg.Genetic.Workers,
	}, ops)
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}

	return &Evolver{
		cfg:       cfg,
		params:    params,
		eval:      eval,
		engine:    engine,
		collector: telemetry.NewCollector(cfg.Genetic.Population),
		output:    output,
		bestSaved: math.Inf(1),
	}, nil
}

// Best returns the top creature of the most recent generation.
func (e *Evolver) Best() *creature.Creature {
	return e.engine.Best()
}

// BestDistance returns the best walk distance so far, in world units.
func (e *Evolver) BestDistance() float64 {
	return -e.engine.BestFitness()
}

// Generations returns how many generations have run.
func (e *Evolver) Generations() int {
	return e.engine.Generations()
}

// Simulations returns how many fitness simulations have run.
func (e *Evolver) Simulations() int64 {
	return e.eval.Sims()
}

// Step runs one generation with its telemetry and champion snapshot.
func (e *Evolver) Step() error {
	start := time.Now()
	e.engine.Generation()
	elapsed := time.Since(start)

	stats := e.collector.Collect(
		e.engine.Generations(),
		e.engine.Scores(),
		func(i int) *creature.Creature { return e.engine.Entity(i) },
		elapsed,
	)
	if e.cfg.Telemetry.LogGenerations {
		stats.Log()
	}
	if err := e.output.WriteGeneration(stats); err != nil {
		return err
	}
	return e.saveBest()
}

// targetReached reports whether the configured fitness target is met.
func (e *Evolver) targetReached() bool {
	return e.engine.Generations() > 0 && e.engine.BestFitness() <= e.cfg.Genetic.Target
}

// Done reports whether evolution should stop under the configured
// target and generation limit.
func (e *Evolver) Done() bool {
	if e.targetReached() {
		return true
	}
	limit := e.cfg.Genetic.Timeout
	return limit != genetic.TimeoutNone && e.engine.Generations() >= limit
}

// Run evolves until the configured target is reached or the
// generation limit is hit. generations overrides the configured limit
// when positive. The best creature is returned and, when output is
// enabled, kept on disk as best.crtr.
func (e *Evolver) Run(generations int) (*creature.Creature, error) {
	limit := e.cfg.Genetic.Timeout
	if generations > 0 {
		limit = generations
	}

	for g := 0; limit == genetic.TimeoutNone || g < limit; g++ {
		if err := e.Step(); err != nil {
			return nil, err
		}
		if e.targetReached() {
			slog.Info("target reached",
				"generation", e.engine.Generations(),
				"distance", e.BestDistance(),
				"simulations", e.Simulations())
			break
		}
	}
	return e.Best(), nil
}

// saveBest snapshots the champion whenever it improves, so a killed
// run still leaves its best creature behind.
func (e *Evolver) saveBest() error {
	if e.output == nil {
		return nil
	}
	score := e.engine.BestFitness()
	if score >= e.bestSaved {
		return nil
	}
	e.bestSaved = score
	path := filepath.Join(e.output.Dir(), "best.crtr")
	if err := persist.Save(path, e.Best()); err != nil {
		return fmt.Errorf("saving champion: %w", err)
	}
	return nil
}

// Close releases the fitness workers.
func (e *Evolver) Close() {
	e.engine.Close()
}
