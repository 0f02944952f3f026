package creature

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"
)

// Evaluator scores creature locomotion. One evaluator is shared by a
// whole run; Evaluate may be called concurrently for distinct creatures,
// so the simulation counter is atomic.
type Evaluator struct {
	Params *Params

	// sims counts walk simulations actually run, i.e. memo misses.
	sims atomic.Int64
}

// NewEvaluator returns an evaluator over the given physics parameters.
func NewEvaluator(p *Params) *Evaluator {
	return &Evaluator{Params: p}
}

// Sims returns the number of full walk simulations run so far. The memo
// makes repeated evaluations of an unmodified creature free, and this
// counter is how that is observable.
func (e *Evaluator) Sims() int64 {
	return e.sims.Load()
}

// Evaluate returns the creature's locomotion fitness, higher is better:
// the average forward (X) progress over the configured trials, penalized
// by the average magnitude of vertical and lateral drift. The creature is
// reset to its rest pose and allowed to settle before the first trial so
// an initial spasm cannot inflate the score.
//
// The result is memoized on the creature; mutation and breeding
// invalidate the memo.
func (e *Evaluator) Evaluate(c *Creature) float64 {
	if c.FitnessValid() {
		return c.Fitness
	}
	e.sims.Add(1)

	c.Reset()
	c.Settle(e.Params)

	// Displacements accumulate against the settled starting point across
	// consecutive trials, without resetting between them.
	start := c.MeanPosition()
	var forward, vertical, lateral float64
	for trial := 0; trial < e.Params.FitnessTrials; trial++ {
		c.Animate(e.Params, e.Params.BehaviorTime)
		delta := r3.Sub(c.MeanPosition(), start)
		forward += delta.X
		vertical += math.Abs(delta.Y)
		lateral += math.Abs(delta.Z)
	}

	c.Fitness = (forward - vertical - lateral) / float64(e.Params.FitnessTrials)
	return c.Fitness
}
