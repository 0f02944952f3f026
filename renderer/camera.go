// Package renderer draws creatures and the playback interface with
// raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// Orbit camera constraints.
const (
	minDistance  = 0.5
	maxDistance  = 20.0
	minElevation = 0.05
	maxElevation = math.Pi/2 - 0.05

	dragSensitivity  = 0.005
	wheelSensitivity = 0.5
)

// Orbit is a camera circling a target point. Dragging with the left
// mouse button rotates, the wheel moves in and out.
type Orbit struct {
	// Target is the point the camera looks at, in world coordinates.
	Target r3.Vec

	// Azimuth and Elevation are the orbit angles in radians.
	Azimuth, Elevation float64

	// Distance from the target.
	Distance float64
}

// NewOrbit creates a camera looking at the origin from a comfortable
// viewing angle.
func NewOrbit() *Orbit {
	return &Orbit{
		Azimuth:   math.Pi / 4,
		Elevation: math.Pi / 6,
		Distance:  4,
	}
}

// HandleInput applies this frame's mouse movement.
func (o *Orbit) HandleInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		delta := rl.GetMouseDelta()
		o.Azimuth -= float64(delta.X) * dragSensitivity
		o.Elevation += float64(delta.Y) * dragSensitivity
	}
	o.Distance -= float64(rl.GetMouseWheelMove()) * wheelSensitivity

	o.Elevation = clamp(o.Elevation, minElevation, maxElevation)
	o.Distance = clamp(o.Distance, minDistance, maxDistance)
}

// Follow glides the look-at point toward target. The smoothing factor
// keeps the camera steady while the creature jitters.
func (o *Orbit) Follow(target r3.Vec, dt float64) {
	blend := 1 - math.Exp(-4*dt)
	o.Target = r3.Add(o.Target, r3.Scale(blend, r3.Sub(target, o.Target)))
}

// Camera returns the raylib camera for the current orbit state.
func (o *Orbit) Camera() rl.Camera3D {
	horizontal := o.Distance * math.Cos(o.Elevation)
	position := r3.Vec{
		X: o.Target.X + horizontal*math.Cos(o.Azimuth),
		Y: o.Target.Y + o.Distance*math.Sin(o.Elevation),
		Z: o.Target.Z + horizontal*math.Sin(o.Azimuth),
	}
	return rl.Camera3D{
		Position:   vector3(position),
		Target:     vector3(o.Target),
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

func vector3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
