// Package creature implements the mass-spring creature domain model:
// random generation, mutation, breeding, physics stepping, behavior
// playback, and fitness evaluation.
//
// A Creature is a fixed-size value. Node, muscle, and behavior storage is
// capacity-bounded arrays with an unused tail, so populations can live in
// flat slices that are allocated once and overwritten in place.
package creature

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Capacity bounds. Compile-time constants so a Creature never allocates.
const (
	MinNodes   = 4
	MaxNodes   = 16
	MaxMuscles = MaxNodes * 2

	// MaxActions is the number of slots in one behavior cycle.
	MaxActions = MaxMuscles * MaxMuscles
)

// Bounded property ranges used by generation and mutation.
const (
	MinPosition = -1.0
	MaxPosition = 1.0
	MinFriction = 0.0
	MaxFriction = 1.0

	MinStrength = 0.001
	MaxStrength = 100.0

	MinContractedLength = 0.25
	MaxMuscleLength     = 2.0
)

// MaxMutations bounds the random mutation passes applied to a newly bred
// child.
const MaxMutations = 4

// NoAction marks a behavior slot that holds the current muscle state.
const NoAction = -1

// Node is one point mass. Initial is the rest position owned by the
// genotype; Position, Velocity, and Acceleration are runtime state mutated
// every physics step.
type Node struct {
	Initial      r3.Vec
	Position     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec
	Friction     float64
}

// Muscle is a damped spring between two nodes, identified by index into
// the owning creature's node array. First and Second are always distinct
// and below the creature's node count; Contracted never exceeds Extended.
type Muscle struct {
	First, Second int32
	Extended      float64
	Contracted    float64
	Strength      float64
	Contracting   bool
}

// targetLength is the spring rest length for the current phase.
func (m *Muscle) targetLength() float64 {
	if m.Contracting {
		return m.Contracted
	}
	return m.Extended
}

// Behavior is a cyclic motion program: each slot either names a muscle
// whose contraction phase toggles when the slot boundary is crossed, or
// NoAction to sustain the current state. One full cycle of slots spans
// the configured behavior period.
type Behavior struct {
	Actions [MaxActions]int32
}

// Creature aggregates the physiology and motion program of one virtual
// mass-spring creature.
type Creature struct {
	NNodes   int32
	NMuscles int32
	Clock    float64 // simulation time within the behavior cycle
	Energy   float64 // accumulated contraction cost, reset by Reset

	Nodes    [MaxNodes]Node
	Muscles  [MaxMuscles]Muscle
	Behavior Behavior

	// Fitness memoizes the last evaluation; NaN means not yet computed.
	Fitness float64
}

// InvalidateFitness clears the memoized fitness. Every mutation and breed
// does this so stale scores never survive a genotype change.
func (c *Creature) InvalidateFitness() {
	c.Fitness = math.NaN()
}

// FitnessValid reports whether the fitness memo holds a computed value.
func (c *Creature) FitnessValid() bool {
	return !math.IsNaN(c.Fitness)
}

// Reset returns the creature to its rest pose: clock and energy cleared,
// every muscle relaxed, every node back at its initial position with zero
// velocity and acceleration. The fitness memo is untouched.
func (c *Creature) Reset() {
	c.Clock = 0
	c.Energy = 0
	for i := int32(0); i < c.NMuscles; i++ {
		c.Muscles[i].Contracting = false
	}
	for i := int32(0); i < c.NNodes; i++ {
		n := &c.Nodes[i]
		n.Position = n.Initial
		n.Velocity = r3.Vec{}
		n.Acceleration = r3.Vec{}
	}
}

// fixMuscles remaps any muscle endpoint that refers to a node index at or
// beyond the current node count, then resolves any self-muscle the remap
// produced. Topology-changing operations call this instead of leaving
// dangling references.
func (c *Creature) fixMuscles() {
	for i := int32(0); i < c.NMuscles; i++ {
		m := &c.Muscles[i]
		if m.First >= c.NNodes || m.Second >= c.NNodes {
			m.First %= c.NNodes
			m.Second %= c.NNodes
			if m.First == m.Second {
				m.Second = (m.Second + 1) % c.NNodes
			}
		}
	}
}

// ensureSpanning restores the generation-time construction when an
// inheritance or anchor change left some node untouched by any muscle:
// the first NNodes muscles are re-anchored so muscle i touches node i,
// which covers every node. Second endpoints are kept where still valid so
// inherited genes survive. The common case detects nothing and returns.
func (c *Creature) ensureSpanning() {
	var touched [MaxNodes]bool
	for i := int32(0); i < c.NMuscles; i++ {
		touched[c.Muscles[i].First] = true
		touched[c.Muscles[i].Second] = true
	}
	ok := true
	for i := int32(0); i < c.NNodes; i++ {
		if !touched[i] {
			ok = false
			break
		}
	}
	if ok {
		return
	}
	for i := int32(0); i < c.NNodes; i++ {
		m := &c.Muscles[i]
		m.First = i
		if m.Second >= c.NNodes || m.Second == i {
			m.Second = (i + 1) % c.NNodes
		}
	}
}

// Validate checks the structural invariants: counts within capacity,
// endpoints valid and distinct, lengths ordered, rest heights
// non-negative, and the muscle graph touching every node.
func (c *Creature) Validate() error {
	if c.NNodes < MinNodes || c.NNodes > MaxNodes {
		return fmt.Errorf("node count %d outside [%d, %d]", c.NNodes, MinNodes, MaxNodes)
	}
	if c.NMuscles < c.NNodes || c.NMuscles > MaxMuscles {
		return fmt.Errorf("muscle count %d outside [%d, %d]", c.NMuscles, c.NNodes, MaxMuscles)
	}

	for i := int32(0); i < c.NNodes; i++ {
		n := &c.Nodes[i]
		if n.Initial.Y < 0 {
			return fmt.Errorf("node %d: rest height %v below ground", i, n.Initial.Y)
		}
		if n.Friction < MinFriction || n.Friction > MaxFriction {
			return fmt.Errorf("node %d: friction %v outside [%v, %v]", i, n.Friction, MinFriction, MaxFriction)
		}
	}

	var touched [MaxNodes]bool
	for i := int32(0); i < c.NMuscles; i++ {
		m := &c.Muscles[i]
		if m.First < 0 || m.First >= c.NNodes || m.Second < 0 || m.Second >= c.NNodes {
			return fmt.Errorf("muscle %d: endpoints (%d, %d) out of range for %d nodes", i, m.First, m.Second, c.NNodes)
		}
		if m.First == m.Second {
			return fmt.Errorf("muscle %d: self-muscle on node %d", i, m.First)
		}
		if m.Contracted > m.Extended {
			return fmt.Errorf("muscle %d: contracted %v exceeds extended %v", i, m.Contracted, m.Extended)
		}
		touched[m.First] = true
		touched[m.Second] = true
	}
	for i := int32(0); i < c.NNodes; i++ {
		if !touched[i] {
			return fmt.Errorf("node %d not touched by any muscle", i)
		}
	}

	for i, action := range c.Behavior.Actions {
		if action < NoAction || action >= MaxMuscles {
			return fmt.Errorf("behavior slot %d: action %d out of range", i, action)
		}
	}
	return nil
}

// String summarizes the creature's physiology for logging.
func (c *Creature) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "creature: %d nodes, %d muscles\n", c.NNodes, c.NMuscles)
	for i := int32(0); i < c.NNodes; i++ {
		n := &c.Nodes[i]
		fmt.Fprintf(&b, "  node %d: at <%.2f, %.2f, %.2f>, friction %.2f\n",
			i, n.Initial.X, n.Initial.Y, n.Initial.Z, n.Friction)
	}
	for i := int32(0); i < c.NMuscles; i++ {
		m := &c.Muscles[i]
		phase := "extending"
		if m.Contracting {
			phase = "contracting"
		}
		fmt.Fprintf(&b, "  muscle %d (%d to %d): length %.2f to %.2f (%s), strength %.2f\n",
			i, m.First, m.Second, m.Contracted, m.Extended, phase, m.Strength)
	}
	return b.String()
}
