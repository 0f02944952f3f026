package creature

import (
	"math/rand"
	"testing"
)

// walker is a tetrapod with a sparse behavior program, so evaluation
// exercises real contraction dynamics while staying numerically tame.
func walker() *Creature {
	c := tetrapod()
	for i := 0; i < MaxActions; i += 64 {
		c.Behavior.Actions[i] = int32(i/64) % c.NMuscles
	}
	return c
}

func TestEvaluateMemoizes(t *testing.T) {
	c := walker()
	eval := NewEvaluator(DefaultParams())
	first := eval.Evaluate(c)
	if eval.Sims() != 1 {
		t.Fatalf("expected 1 simulation, got %d", eval.Sims())
	}

	second := eval.Evaluate(c)
	if eval.Sims() != 1 {
		t.Fatalf("memoized call ran another simulation (%d total)", eval.Sims())
	}
	if first != second {
		t.Fatalf("memoized fitness changed: %v vs %v", first, second)
	}
}

func TestEvaluateAfterMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	c := walker()

	eval := NewEvaluator(DefaultParams())
	eval.Evaluate(c)
	c.Mutate(rng)
	eval.Evaluate(c)
	if eval.Sims() != 2 {
		t.Fatalf("mutation did not force re-evaluation (%d simulations)", eval.Sims())
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	c := walker()
	clone := *c

	eval := NewEvaluator(DefaultParams())
	a := eval.Evaluate(c)
	b := eval.Evaluate(&clone)
	if a != b {
		t.Fatalf("identical creatures scored differently: %v vs %v", a, b)
	}
	if eval.Sims() != 2 {
		t.Fatalf("expected 2 simulations, got %d", eval.Sims())
	}
}

func TestEvaluateMotionlessScoresZero(t *testing.T) {
	// A creature with no actions never moves on its own. Start it on the
	// ground so the trials see no leftover falling motion, just the tiny
	// vertical jitter from the ground clamp.
	c := tetrapod()
	for i := int32(0); i < c.NNodes; i++ {
		c.Nodes[i].Initial.Y = 0
	}
	c.Reset()

	eval := NewEvaluator(DefaultParams())
	got := eval.Evaluate(c)
	if got > 1e-3 || got < -1e-3 {
		t.Errorf("motionless creature scored %v", got)
	}
}
