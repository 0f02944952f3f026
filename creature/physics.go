package creature

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rlucine/creature-evolution/phys"
	"github.com/rlucine/creature-evolution/vec"
)

// Params holds the physics and evaluation configuration shared by every
// creature in a run. One Params value is built at composition time and
// treated as read-only afterward; the integrator strategy is fixed here,
// not switched at runtime.
type Params struct {
	Integrator phys.Integrator

	TimeStep       float64 // fixed physics sub-step in seconds
	Gravity        float64 // Y acceleration, negative is down
	Damping        float64 // axial spring damping
	Restitution    float64 // ground bounce factor
	GroundFriction float64 // global friction scale for grounded nodes

	BehaviorTime  float64 // wall-clock length of one behavior cycle
	MaxEnergy     float64 // contraction budget before energy death
	FitnessTrials int     // behavior cycles per fitness evaluation
	SettleLimit   int     // max Rest iterations while settling
}

// DefaultParams mirrors the production constants.
func DefaultParams() *Params {
	return &Params{
		Integrator:     phys.Midpoint{},
		TimeStep:       phys.TimeStep,
		Gravity:        -1.0,
		Damping:        1.5,
		Restitution:    0.6,
		GroundFriction: 20.0,
		BehaviorTime:   1.0,
		MaxEnergy:      65536,
		FitnessTrials:  10,
		SettleLimit:    64,
	}
}

// ActionTime is the duration of one behavior slot.
func (p *Params) ActionTime() float64 {
	return p.BehaviorTime / MaxActions
}

// Exhausted reports whether the creature has spent its energy budget.
func (c *Creature) Exhausted(p *Params) bool {
	return c.Energy > p.MaxEnergy
}

// step advances the mass-spring system by a single raw dt. Callers use
// Update, which decomposes arbitrary durations into fixed sub-steps so
// the force computation never sees a step larger than the configured one.
func (c *Creature) step(p *Params, dt float64) {
	// Accelerations restart from gravity every step; muscle and friction
	// forces accumulate on top. Node masses are uniform, so forces apply
	// directly as accelerations.
	gravity := r3.Vec{Y: p.Gravity}
	for i := int32(0); i < c.NNodes; i++ {
		c.Nodes[i].Acceleration = gravity
	}

	for i := int32(0); i < c.NMuscles; i++ {
		m := &c.Muscles[i]
		if m.Strength < vec.Epsilon {
			continue
		}
		first := &c.Nodes[m.First]
		second := &c.Nodes[m.Second]

		delta := r3.Sub(second.Position, first.Position)
		length := r3.Norm(delta)
		if length < vec.Epsilon {
			// Coincident endpoints have no defined axis.
			continue
		}
		axis := r3.Scale(1/length, delta)

		// Strength is per unit of target length.
		target := m.targetLength()
		magnitude := -(m.Strength / target) * (target - length)

		// Damp the relative velocity along the muscle axis.
		relative := r3.Dot(axis, first.Velocity) - r3.Dot(axis, second.Velocity)
		magnitude -= p.Damping * relative

		force := r3.Scale(magnitude, axis)
		first.Acceleration = r3.Add(first.Acceleration, force)
		second.Acceleration = r3.Sub(second.Acceleration, force)

		// Contraction costs energy; expansion is free.
		if m.Contracting {
			c.Energy += dt * math.Abs(magnitude)
		}
	}

	// Ground friction opposes the horizontal motion of grounded nodes.
	for i := int32(0); i < c.NNodes; i++ {
		n := &c.Nodes[i]
		if n.Position.Y > vec.Epsilon || n.Friction < vec.Epsilon || vec.IsZero(n.Velocity) {
			continue
		}
		friction := r3.Scale(-p.GroundFriction*n.Friction, n.Velocity)
		friction.Y = 0
		n.Acceleration = r3.Add(n.Acceleration, friction)
	}

	// Integrate, then resolve ground collisions as an inelastic bounce.
	for i := int32(0); i < c.NNodes; i++ {
		n := &c.Nodes[i]
		p.Integrator.Step(&n.Position, &n.Velocity, n.Acceleration, dt)
		if n.Position.Y <= 0 {
			n.Position.Y = 0
			n.Velocity.Y *= -p.Restitution
		}
	}
}

// Update advances the physics by dt, decomposed into full fixed sub-steps
// plus one remainder step. Chunking a duration across several Update
// calls agrees with the single long call up to floating-point drift in
// the remainder steps.
func (c *Creature) Update(p *Params, dt float64) {
	full := int(dt / p.TimeStep)
	rem := dt - float64(full)*p.TimeStep
	for i := 0; i < full; i++ {
		c.step(p, p.TimeStep)
	}
	if rem > 0 {
		c.step(p, rem)
	}
}

// Rest advances the physics with no behavior playback and reports whether
// the creature has stopped moving horizontally.
func (c *Creature) Rest(p *Params, dt float64) bool {
	c.Update(p, dt)
	for i := int32(0); i < c.NNodes; i++ {
		v := c.Nodes[i].Velocity
		if math.Abs(v.X) >= vec.Epsilon || math.Abs(v.Z) >= vec.Epsilon {
			return false
		}
	}
	return true
}

// Settle runs the creature toward a stable resting pose, one behavior
// period at a time, bounded by the configured iteration limit so a
// pathological body cannot spin forever. Reports whether rest was
// reached.
func (c *Creature) Settle(p *Params) bool {
	for i := 0; i < p.SettleLimit; i++ {
		if c.Rest(p, p.BehaviorTime) {
			return true
		}
	}
	return false
}

// MeanPosition is the average node position, used as the center of mass
// since node masses are uniform.
func (c *Creature) MeanPosition() r3.Vec {
	var total r3.Vec
	for i := int32(0); i < c.NNodes; i++ {
		total = r3.Add(total, c.Nodes[i].Position)
	}
	return r3.Scale(1/float64(c.NNodes), total)
}
