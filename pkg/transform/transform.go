// Package transform builds the 4x4 affine matrices used to place shapes,
// patterns and the camera.
package transform

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Translation moves points by (x, y, z); vectors are unaffected
func Translation(x, y, z float64) core.Matrix {
	return core.Matrix4([16]float64{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	})
}

// Scaling scales along each axis
func Scaling(x, y, z float64) core.Matrix {
	return core.Matrix4([16]float64{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	})
}

// RotationX rotates by r radians around the x axis (left-handed)
func RotationX(r float64) core.Matrix {
	c, s := math.Cos(r), math.Sin(r)
	return core.Matrix4([16]float64{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	})
}

// RotationY rotates by r radians around the y axis
func RotationY(r float64) core.Matrix {
	c, s := math.Cos(r), math.Sin(r)
	return core.Matrix4([16]float64{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	})
}

// RotationZ rotates by r radians around the z axis
func RotationZ(r float64) core.Matrix {
	c, s := math.Cos(r), math.Sin(r)
	return core.Matrix4([16]float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// Rotation rotates by angle radians around an arbitrary axis.
// The axis does not need to be normalized.
func Rotation(axis core.Tuple, angle float64) (core.Matrix, error) {
	n, err := axis.Normalize()
	if err != nil {
		return core.Matrix{}, err
	}
	return FromMgl(mgl64.HomogRotate3D(angle, mgl64.Vec3{n.X, n.Y, n.Z})), nil
}

// Shearing moves each component in proportion to the other two.
// xy is "x moved in proportion to y", and so on.
func Shearing(xy, xz, yx, yz, zx, zy float64) core.Matrix {
	return core.Matrix4([16]float64{
		1, xy, xz, 0,
		yx, 1, yz, 0,
		zx, zy, 1, 0,
		0, 0, 0, 1,
	})
}

// Chain composes transforms so that m[0] is applied first.
// Chain(a, b, c) == c * b * a. An empty chain is the identity.
func Chain(m ...core.Matrix) core.Matrix {
	result := core.Identity()
	for _, next := range m {
		result = next.Multiply(result)
	}
	return result
}

// FromMgl converts a column-major mathgl matrix
func FromMgl(m mgl64.Mat4) core.Matrix {
	var values [16]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			values[r*4+c] = m.At(r, c)
		}
	}
	return core.Matrix4(values)
}

// ToMgl converts a 4x4 matrix into mathgl's column-major layout
func ToMgl(m core.Matrix) mgl64.Mat4 {
	var out mgl64.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.Set(r, c, m.At(r, c))
		}
	}
	return out
}
