package transform

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Builder accumulates transforms in the order they are applied to a point.
//
//	transform.New().RotateX(a).Scale(5, 5, 5).Translate(10, 5, 7).Matrix()
//
// rotates first, then scales, then translates (T * S * Rx).
type Builder struct {
	m core.Matrix
}

// New starts a builder at the identity
func New() Builder {
	return Builder{m: core.Identity()}
}

// Then appends an arbitrary matrix
func (b Builder) Then(m core.Matrix) Builder {
	return Builder{m: m.Multiply(b.m)}
}

// Translate appends a translation by (x, y, z)
func (b Builder) Translate(x, y, z float64) Builder {
	return b.Then(Translation(x, y, z))
}

// Scale appends a scaling by (x, y, z)
func (b Builder) Scale(x, y, z float64) Builder {
	return b.Then(Scaling(x, y, z))
}

// RotateX appends a rotation of r radians about the x axis
func (b Builder) RotateX(r float64) Builder {
	return b.Then(RotationX(r))
}

// RotateY appends a rotation of r radians about the y axis
func (b Builder) RotateY(r float64) Builder {
	return b.Then(RotationY(r))
}

// RotateZ appends a rotation of r radians about the z axis
func (b Builder) RotateZ(r float64) Builder {
	return b.Then(RotationZ(r))
}

// Shear appends a shear; xy moves x in proportion to y, and so on
func (b Builder) Shear(xy, xz, yx, yz, zx, zy float64) Builder {
	return b.Then(Shearing(xy, xz, yx, yz, zx, zy))
}

// Matrix returns the accumulated transform
func (b Builder) Matrix() core.Matrix {
	return b.m
}
