package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rlucine/creature-evolution/creature"
	"github.com/rlucine/creature-evolution/vec"
)

const (
	groundExtent = 20
	nodeRadius   = 0.05
)

// groundedHeight is how close to the floor a node counts as standing
// on it, for coloring purposes.
const groundedHeight = nodeRadius

// DrawGround draws the floor grid around the origin.
func DrawGround() {
	rl.DrawGrid(groundExtent*2, 1)
}

// DrawCreature draws one creature: muscles as lines, nodes as
// spheres, plus a flat shadow on the ground.
func DrawCreature(c *creature.Creature, p *creature.Params) {
	// Shadow first so geometry draws over it.
	for i := int32(0); i < c.NMuscles; i++ {
		m := &c.Muscles[i]
		a := c.Nodes[m.First].Position
		b := c.Nodes[m.Second].Position
		a.Y, b.Y = 0, 0
		rl.DrawLine3D(vector3(a), vector3(b), rl.DarkGray)
	}

	for i := int32(0); i < c.NMuscles; i++ {
		m := &c.Muscles[i]
		color := rl.LightGray
		if m.Contracting {
			color = rl.Red
		}
		rl.DrawLine3D(
			vector3(c.Nodes[m.First].Position),
			vector3(c.Nodes[m.Second].Position),
			color,
		)
	}

	for i := int32(0); i < c.NNodes; i++ {
		n := &c.Nodes[i]
		rl.DrawSphere(vector3(n.Position), nodeRadius, NodeColor(c, n, p))
	}
}

// NodeColor picks a node's color: pink when the creature has burned
// through its energy budget, blue shaded by friction while touching
// the ground, white in the air.
func NodeColor(c *creature.Creature, n *creature.Node, p *creature.Params) rl.Color {
	if c.Exhausted(p) {
		return rl.Pink
	}
	if n.Position.Y < groundedHeight {
		// Grippier nodes show darker.
		shade := uint8(255 - 155*clamp(n.Friction, 0, 1))
		return rl.Color{R: shade, G: shade, B: 255, A: 255}
	}
	return rl.White
}

// FocusPoint is where the camera should look: the creature's center
// of mass, held just above the floor.
func FocusPoint(c *creature.Creature) r3.Vec {
	center := c.MeanPosition()
	if center.Y < vec.Epsilon {
		center.Y = vec.Epsilon
	}
	return center
}
