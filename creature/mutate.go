package creature

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// mutation enumerates the closed set of mutation kinds.
type mutation int

const (
	mutateNodePosition mutation = iota
	mutateNodeFriction
	mutateNodeAdd
	mutateNodeRemove
	mutateMuscleAnchor
	mutateMuscleExtended
	mutateMuscleContracted
	mutateMuscleStrength
	mutateMuscleAdd
	mutateMuscleRemove
	mutateBehaviorAdd
	mutateBehaviorRemove

	numMutations
)

// Mutate applies one randomly chosen mutation. Capacity-bounded additions
// and removals are no-ops at the bounds, and topology changes repair
// muscle endpoints, so every structural invariant survives any mutation
// sequence. The fitness memo is always invalidated.
func (c *Creature) Mutate(rng *rand.Rand) {
	kind := mutation(rng.Intn(int(numMutations)))

	// Subjects drawn up front; not every kind uses every one.
	node := &c.Nodes[rng.Intn(int(c.NNodes))]
	muscle := &c.Muscles[rng.Intn(int(c.NMuscles))]
	slot := rng.Intn(MaxActions)

	switch kind {
	case mutateNodePosition:
		node.Initial = r3.Vec{
			X: uniform(rng, MinPosition, MaxPosition),
			Y: uniform(rng, 0, MaxPosition),
			Z: uniform(rng, MinPosition, MaxPosition),
		}
		// The runtime state follows the rest pose, so a freshly bred
		// child stays at rest through its trailing mutations.
		node.Position = node.Initial
		node.Velocity = r3.Vec{}
		node.Acceleration = r3.Vec{}

	case mutateNodeFriction:
		node.Friction = uniform(rng, MinFriction, MaxFriction)

	case mutateNodeAdd:
		// A new node arrives with its attachment muscle so it joins the
		// spanning structure immediately; without muscle capacity the
		// mutation is declined.
		if c.NNodes < MaxNodes && c.NMuscles < MaxMuscles {
			c.randomizeNode(rng, c.NNodes)
			c.NNodes++
			m := &c.Muscles[c.NMuscles]
			c.NMuscles++
			m.First = c.NNodes - 1
			m.Second = int32(rng.Intn(int(c.NNodes - 1)))
			c.initMuscleProps(rng, m)
		}

	case mutateNodeRemove:
		if c.NNodes > MinNodes {
			c.NNodes--
		}
		c.fixMuscles()

	case mutateMuscleAnchor:
		muscle.Second = int32(rng.Intn(int(c.NNodes)))
		if muscle.First == muscle.Second {
			muscle.Second = (muscle.Second + 1) % c.NNodes
		}

	case mutateMuscleExtended:
		hi := MaxMuscleLength
		if muscle.Contracted > hi {
			hi = muscle.Contracted
		}
		muscle.Extended = uniform(rng, muscle.Contracted, hi)

	case mutateMuscleContracted:
		lo := MinContractedLength
		if muscle.Extended < lo {
			lo = muscle.Extended
		}
		muscle.Contracted = uniform(rng, lo, muscle.Extended)

	case mutateMuscleStrength:
		muscle.Strength = uniform(rng, MinStrength, MaxStrength)

	case mutateMuscleAdd:
		if c.NMuscles < MaxMuscles {
			c.randomizeMuscle(rng, c.NMuscles)
			c.NMuscles++
		}

	case mutateMuscleRemove:
		// Never drop below one muscle per node; the first NNodes muscles
		// are the spanning construction.
		if c.NMuscles > c.NNodes {
			c.NMuscles--
		}

	case mutateBehaviorAdd:
		c.Behavior.Actions[slot] = int32(rng.Intn(int(c.NMuscles)))

	case mutateBehaviorRemove:
		c.Behavior.Actions[slot] = NoAction
	}

	// Anchor changes and removals can strand a node; repair instead of
	// trusting the mutation kinds individually.
	c.ensureSpanning()
	c.InvalidateFitness()
}
