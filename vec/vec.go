// Package vec provides the small guards this simulation needs on top of
// gonum's 3-component vectors. Arithmetic (Add, Sub, Scale, Dot, Norm,
// Unit) comes straight from gonum's spatial/r3; this package only adds the
// degenerate-input checks that callers must apply before normalizing or
// dividing.
package vec

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the tolerance below which a component counts as zero.
const Epsilon = 1e-6

// Zero returns the zero vector.
func Zero() r3.Vec {
	return r3.Vec{}
}

// IsZero reports whether every component of v is within Epsilon of zero.
// Callers use this to guard r3.Unit, which is undefined on a zero vector.
func IsZero(v r3.Vec) bool {
	return math.Abs(v.X) < Epsilon && math.Abs(v.Y) < Epsilon && math.Abs(v.Z) < Epsilon
}

// IsNaN reports whether any component of v is NaN.
func IsNaN(v r3.Vec) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}
