// Package genetic implements a generational genetic algorithm over a
// fixed-size population of value-type entities. Fitness follows a
// lower-is-better convention and the engine allocates nothing once
// constructed, so entity types may be large.
package genetic

import (
	"fmt"
	"math"
)

// TimeoutNone disables the generation limit in Solve.
const TimeoutNone = 0

// minPopulation is the smallest population that still yields one
// breeding pair and one replacement.
const minPopulation = 4

// Ops supplies the entity-specific operators. All three are required.
// The engine calls them from the goroutine that calls Generation,
// except Fitness, which may run on scoring workers and must be safe
// for concurrent calls on distinct entities.
type Ops[E any] struct {
	// Randomize overwrites an entity with a fresh random one.
	Randomize func(*E)

	// Breed derives two children from two parents. Parents must not
	// be modified.
	Breed func(mother, father, son, daughter *E)

	// Fitness scores an entity. Lower is better.
	Fitness func(*E) float64
}

// Config sizes the engine.
type Config struct {
	// PopulationSize is the fixed number of entities. At least 4.
	PopulationSize int

	// Workers is the number of scoring goroutines. Zero means one
	// per CPU; one disables parallel scoring.
	Workers int
}

// Engine carries a population of E through breeding generations.
type Engine[E any] struct {
	ops Ops[E]

	pop     []E
	newborn []E // breeding scratch, reused every generation
	scores  []float64
	rank    *ranking
	order   []int // non-parent slots, best first

	pool *scorePool

	generations int
	bestSlot    int
	bestScore   float64
}

// New builds an engine with a fully randomized population.
func New[E any](cfg Config, ops Ops[E]) (*Engine[E], error) {
	if cfg.PopulationSize < minPopulation {
		return nil, fmt.Errorf("population size %d below minimum %d", cfg.PopulationSize, minPopulation)
	}
	if ops.Randomize == nil || ops.Breed == nil || ops.Fitness == nil {
		return nil, fmt.Errorf("all three entity operators are required")
	}

	n := cfg.PopulationSize
	e := &Engine[E]{
		ops:       ops,
		pop:       make([]E, n),
		newborn:   make([]E, 2*(n/4)),
		scores:    make([]float64, n),
		rank:      newRanking(n),
		order:     make([]int, 0, n),
		bestScore: math.Inf(1),
	}
	for i := range e.pop {
		ops.Randomize(&e.pop[i])
	}
	e.pool = newScorePool(cfg.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			e.scores[i] = ops.Fitness(&e.pop[i])
		}
	})
	return e, nil
}

// Size returns the fixed population size.
func (e *Engine[E]) Size() int {
	return len(e.pop)
}

// Entity returns the entity in the given population slot.
func (e *Engine[E]) Entity(i int) *E {
	return &e.pop[i]
}

// Scores returns the scores from the most recent generation, indexed
// by population slot. The slice is owned by the engine.
func (e *Engine[E]) Scores() []float64 {
	return e.scores
}

// Generations returns how many generations have run.
func (e *Engine[E]) Generations() int {
	return e.generations
}

// Best returns the highest-ranked entity of the most recent
// generation. Before the first generation it is simply slot zero.
func (e *Engine[E]) Best() *E {
	return &e.pop[e.bestSlot]
}

// BestFitness returns the score of Best, or +Inf before the first
// generation.
func (e *Engine[E]) BestFitness() float64 {
	return e.bestScore
}

// Generation scores the population, breeds the fittest half pairwise,
// and replaces the worst entities with the offspring. Mid-ranked
// entities that neither breed nor get replaced are randomized to keep
// fresh genes in the pool. Parents survive in place, so the best
// entity is never lost.
func (e *Engine[E]) Generation() {
	e.scoreAll()

	e.rank.reset()
	for i := range e.pop {
		e.rank.push(e.scores[i], i)
	}

	// The fittest entities breed in ranked pairs: first with second,
	// third with fourth, and so on. Each pair yields two children.
	born := 0
	for born < len(e.newborn) {
		mother := e.rank.pop()
		father := e.rank.pop()
		if born == 0 {
			e.bestSlot = mother.slot
			e.bestScore = mother.score
		}
		e.ops.Breed(&e.pop[mother.slot], &e.pop[father.slot],
			&e.newborn[born], &e.newborn[born+1])
		born += 2
	}

	// Everyone left, best first.
	e.order = e.order[:0]
	for e.rank.len() > 0 {
		e.order = append(e.order, e.rank.pop().slot)
	}

	// Children overwrite the worst slots.
	for j := 0; j < len(e.newborn); j++ {
		e.pop[e.order[len(e.order)-1-j]] = e.newborn[j]
	}

	// Remaining mid-ranked slots start over.
	for j := 0; j < len(e.order)-len(e.newborn); j++ {
		e.ops.Randomize(&e.pop[e.order[j]])
	}

	e.generations++
}

// Solve runs generations until the best fitness reaches target or the
// generation limit is hit. timeout is a generation count; TimeoutNone
// runs until the target is met. Returns the number of generations run
// and whether the target was reached.
func (e *Engine[E]) Solve(target float64, timeout int) (int, bool) {
	start := e.generations
	for {
		e.Generation()
		if e.bestScore <= target {
			return e.generations - start, true
		}
		if timeout != TimeoutNone && e.generations-start >= timeout {
			return e.generations - start, false
		}
	}
}

// Close stops the scoring workers. The engine must not be used after.
func (e *Engine[E]) Close() {
	e.pool.stop()
}

func (e *Engine[E]) scoreAll() {
	n := len(e.pop)
	if e.pool == nil || n < parallelThreshold {
		for i := 0; i < n; i++ {
			e.scores[i] = e.ops.Fitness(&e.pop[i])
		}
		return
	}
	e.pool.scoreAll(n)
}
