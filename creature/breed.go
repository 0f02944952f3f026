package creature

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Breed recombines mother and father into child, overwriting whatever the
// child slot held before. The child's node and muscle counts come
// wholesale from one parent, chosen by a fair coin flip, so the counts
// stay mutually consistent; each node and muscle slot is then inherited
// independently from whichever parent populates it, falling back to the
// other parent when one runs short. A repair pass fixes endpoints that
// reference nodes the child does not have, the behavior program crosses
// over at a single random point, and a bounded number of trailing
// mutations keeps the gene pool diverse.
func Breed(mother, father, child *Creature, rng *rand.Rand) {
	if rng.Intn(2) == 0 {
		child.NNodes = mother.NNodes
		child.NMuscles = mother.NMuscles
	} else {
		child.NNodes = father.NNodes
		child.NMuscles = father.NMuscles
	}
	child.Clock = 0
	child.Energy = 0
	child.InvalidateFitness()

	for i := int32(0); i < child.NNodes; i++ {
		src := father
		if (rng.Intn(2) == 0 && i < mother.NNodes) || i >= father.NNodes {
			src = mother
		}
		n := &child.Nodes[i]
		*n = src.Nodes[i]
		n.Position = n.Initial
		n.Velocity = r3.Vec{}
		n.Acceleration = r3.Vec{}
	}

	for i := int32(0); i < child.NMuscles; i++ {
		src := father
		if (rng.Intn(2) == 0 && i < mother.NMuscles) || i >= father.NMuscles {
			src = mother
		}
		child.Muscles[i] = src.Muscles[i]
		child.Muscles[i].Contracting = false
	}

	// Inherited muscles can point at nodes the child does not have, and
	// mixed inheritance can strand a node entirely; repair both
	// unconditionally.
	child.fixMuscles()
	child.ensureSpanning()

	// Single-point crossover of the behavior program.
	cross := rng.Intn(MaxActions)
	copy(child.Behavior.Actions[:cross], mother.Behavior.Actions[:cross])
	copy(child.Behavior.Actions[cross:], father.Behavior.Actions[cross:])

	for n := randRange(rng, 0, MaxMutations); n > 0; n-- {
		child.Mutate(rng)
	}
}
