package creature

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// actionDensity is the probability that a behavior slot holds a real
// muscle toggle instead of a no-op.
const actionDensity = 0.5

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randRange draws an integer from [lo, hi] inclusive.
func randRange(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// Randomize replaces the creature with an entirely random one. Node count,
// muscle count, node placement, muscle properties, and the behavior
// program are all drawn fresh; the fitness memo is invalidated.
func (c *Creature) Randomize(rng *rand.Rand) {
	c.NNodes = int32(randRange(rng, MinNodes, MaxNodes))
	c.NMuscles = int32(randRange(rng, int(c.NNodes), MaxMuscles))
	c.Clock = 0
	c.Energy = 0
	c.InvalidateFitness()

	for i := int32(0); i < c.NNodes; i++ {
		c.randomizeNode(rng, i)
	}
	for i := int32(0); i < c.NMuscles; i++ {
		c.randomizeMuscle(rng, i)
	}

	for i := range c.Behavior.Actions {
		if rng.Float64() < actionDensity {
			c.Behavior.Actions[i] = int32(rng.Intn(int(c.NMuscles)))
		} else {
			c.Behavior.Actions[i] = NoAction
		}
	}
}

// randomizeNode draws node index's rest position from the bounded box
// (height restricted to non-negative so no node spawns buried) and a
// fresh friction coefficient.
func (c *Creature) randomizeNode(rng *rand.Rand, index int32) {
	n := &c.Nodes[index]
	n.Initial = r3.Vec{
		X: uniform(rng, MinPosition, MaxPosition),
		Y: uniform(rng, 0, MaxPosition),
		Z: uniform(rng, MinPosition, MaxPosition),
	}
	n.Position = n.Initial
	n.Velocity = r3.Vec{}
	n.Acceleration = r3.Vec{}
	n.Friction = uniform(rng, MinFriction, MaxFriction)
}

// randomizeMuscle draws muscle index's endpoints and properties. For
// index < NNodes the first endpoint is forced to index and the second is
// drawn from the nodes before it: each new node attaches to an
// already-connected one, so by induction the first NNodes muscles connect
// the whole body. Later muscles connect arbitrary pairs.
func (c *Creature) randomizeMuscle(rng *rand.Rand, index int32) {
	m := &c.Muscles[index]

	if index < c.NNodes {
		m.First = index
		if index > 0 {
			m.Second = int32(rng.Intn(int(index)))
		} else {
			m.Second = 0
		}
	} else {
		m.First = int32(rng.Intn(int(c.NNodes)))
		m.Second = int32(rng.Intn(int(c.NNodes)))
	}

	// Self-muscles are remapped to the next node.
	if m.First == m.Second {
		m.Second = (m.Second + 1) % c.NNodes
	}

	c.initMuscleProps(rng, m)
}

// initMuscleProps fills a muscle's lengths and strength from its chosen
// endpoints. The extended length matches the rest pose so the body starts
// relaxed; contraction pulls to somewhere between half and full rest
// distance.
func (c *Creature) initMuscleProps(rng *rand.Rand, m *Muscle) {
	length := r3.Norm(r3.Sub(c.Nodes[m.Second].Initial, c.Nodes[m.First].Initial))
	m.Extended = length
	m.Contracted = uniform(rng, length/2, length)
	m.Strength = uniform(rng, MinStrength, MaxStrength)
	m.Contracting = false
}
