package creature

import (
	"math/rand"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRandomizeInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var c Creature
	for trial := 0; trial < 200; trial++ {
		c.Randomize(rng)
		if err := c.Validate(); err != nil {
			t.Fatalf("trial %d: random creature invalid: %v", trial, err)
		}
		if c.FitnessValid() {
			t.Fatal("fresh creature should have no fitness memo")
		}
		if c.Clock != 0 || c.Energy != 0 {
			t.Fatalf("fresh creature has clock %v, energy %v", c.Clock, c.Energy)
		}
	}
}

func TestRandomizeMusclesStartRelaxed(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	var c Creature
	c.Randomize(rng)

	for i := int32(0); i < c.NMuscles; i++ {
		m := &c.Muscles[i]
		if m.Contracting {
			t.Errorf("muscle %d starts contracting", i)
		}
		// The extended length is the rest distance between the endpoints.
		dist := r3.Norm(r3.Sub(c.Nodes[m.Second].Initial, c.Nodes[m.First].Initial))
		if diff := m.Extended - dist; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("muscle %d: extended %v, rest distance %v", i, m.Extended, dist)
		}
		if m.Contracted < dist/2-1e-12 || m.Contracted > dist+1e-12 {
			t.Errorf("muscle %d: contracted %v outside [%v, %v]", i, m.Contracted, dist/2, dist)
		}
	}
}

func TestMutateInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var c Creature
	c.Randomize(rng)

	for i := 0; i < 2000; i++ {
		c.Mutate(rng)
		if err := c.Validate(); err != nil {
			t.Fatalf("after %d mutations: %v", i+1, err)
		}
		if c.FitnessValid() {
			t.Fatal("mutation must invalidate the fitness memo")
		}
	}
}

func TestMutateKeepsRestPose(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	var c Creature
	c.Randomize(rng)

	// Mutations rewrite the genotype; a creature at rest must stay at
	// rest, with every node's runtime state tracking its rest pose.
	for i := 0; i < 2000; i++ {
		c.Mutate(rng)
		for j := int32(0); j < c.NNodes; j++ {
			n := &c.Nodes[j]
			if n.Position != n.Initial {
				t.Fatalf("mutation %d: node %d drifted from its rest pose", i, j)
			}
			if (n.Velocity != r3.Vec{}) || (n.Acceleration != r3.Vec{}) {
				t.Fatalf("mutation %d: node %d carries runtime motion", i, j)
			}
		}
	}
}

func TestMutateRespectsBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	var c Creature
	c.Randomize(rng)

	// Hammer mutations; counts must never escape their bounds.
	for i := 0; i < 5000; i++ {
		c.Mutate(rng)
		if c.NNodes < MinNodes || c.NNodes > MaxNodes {
			t.Fatalf("node count %d escaped bounds", c.NNodes)
		}
		if c.NMuscles < c.NNodes || c.NMuscles > MaxMuscles {
			t.Fatalf("muscle count %d escaped bounds (nodes %d)", c.NMuscles, c.NNodes)
		}
	}
}

func TestReset(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var c Creature
	c.Randomize(rng)
	p := DefaultParams()

	// Disturb the runtime state.
	c.Animate(p, 0.5)
	c.Muscles[0].Contracting = true
	c.Reset()

	if c.Clock != 0 || c.Energy != 0 {
		t.Errorf("reset left clock %v, energy %v", c.Clock, c.Energy)
	}
	for i := int32(0); i < c.NMuscles; i++ {
		if c.Muscles[i].Contracting {
			t.Errorf("reset left muscle %d contracting", i)
		}
	}
	for i := int32(0); i < c.NNodes; i++ {
		n := &c.Nodes[i]
		if n.Position != n.Initial {
			t.Errorf("node %d not back at rest position", i)
		}
		if (n.Velocity != r3.Vec{}) || (n.Acceleration != r3.Vec{}) {
			t.Errorf("node %d retains velocity or acceleration", i)
		}
	}
}

func TestValidateRejectsBroken(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	base := &Creature{}
	base.Randomize(rng)

	tests := []struct {
		name    string
		corrupt func(c *Creature)
	}{
		{"too few nodes", func(c *Creature) { c.NNodes = MinNodes - 1 }},
		{"muscles below nodes", func(c *Creature) { c.NMuscles = c.NNodes - 1 }},
		{"self muscle", func(c *Creature) { c.Muscles[0].Second = c.Muscles[0].First }},
		{"dangling endpoint", func(c *Creature) { c.Muscles[0].Second = c.NNodes }},
		{"negative endpoint", func(c *Creature) { c.Muscles[0].First = -1 }},
		{"inverted lengths", func(c *Creature) {
			c.Muscles[0].Contracted = c.Muscles[0].Extended + 1
		}},
		{"buried rest pose", func(c *Creature) { c.Nodes[0].Initial.Y = -0.5 }},
		{"behavior out of range", func(c *Creature) { c.Behavior.Actions[0] = MaxMuscles }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.corrupt(&c)
			if err := c.Validate(); err == nil {
				t.Error("Validate accepted a broken creature")
			}
		})
	}
}

func TestString(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var c Creature
	c.Randomize(rng)

	s := c.String()
	if !strings.Contains(s, "nodes") || !strings.Contains(s, "muscle 0") {
		t.Errorf("String() missing expected sections:\n%s", s)
	}
}
