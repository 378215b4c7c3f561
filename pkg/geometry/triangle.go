package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewTriangle creates a flat-shaded triangle from three points.
// Collinear points are rejected since they have no normal.
func NewTriangle(p1, p2, p3 core.Tuple, mat material.Material) (Shape, error) {
	s, err := newShape(KindTriangle, core.Identity(), mat)
	if err != nil {
		return Shape{}, err
	}
	s.P1, s.P2, s.P3 = p1, p2, p3
	s.E1 = p2.Subtract(p1)
	s.E2 = p3.Subtract(p1)

	// Normal is the cross product of the two edges
	n, err := s.E2.Cross(s.E1).Normalize()
	if err != nil {
		return Shape{}, fmt.Errorf("%w: degenerate triangle %v %v %v", ErrInvalidShape, p1, p2, p3)
	}
	s.Normal = n
	return s, nil
}

// NewSmoothTriangle creates a triangle whose normal is interpolated from
// per-vertex normals using the barycentric coordinates of each hit
func NewSmoothTriangle(p1, p2, p3, n1, n2, n3 core.Tuple, mat material.Material) (Shape, error) {
	s, err := NewTriangle(p1, p2, p3, mat)
	if err != nil {
		return Shape{}, err
	}
	s.Kind = KindSmoothTriangle
	s.N1, s.N2, s.N3 = n1, n2, n3
	return s, nil
}

// intersectTriangle uses the Möller-Trumbore algorithm
func intersectTriangle(s *Shape, h Handle, ray core.Ray, xs Intersections) Intersections {
	dirCrossE2 := ray.Direction.Cross(s.E2)
	det := s.E1.Dot(dirCrossE2)

	// If determinant is near zero, ray lies in plane of triangle
	if math.Abs(det) < core.Epsilon {
		return xs
	}

	f := 1.0 / det
	p1ToOrigin := ray.Origin.Subtract(s.P1)
	u := f * p1ToOrigin.Dot(dirCrossE2)
	if u < 0 || u > 1 {
		return xs
	}

	originCrossE1 := p1ToOrigin.Cross(s.E1)
	v := f * ray.Direction.Dot(originCrossE1)
	if v < 0 || u+v > 1 {
		return xs
	}

	t := f * s.E2.Dot(originCrossE1)
	return append(xs, NewIntersectionUV(t, h, u, v))
}

func smoothTriangleNormal(s *Shape, hit Intersection) core.Tuple {
	return s.N2.Multiply(hit.U).
		Add(s.N3.Multiply(hit.V)).
		Add(s.N1.Multiply(1 - hit.U - hit.V))
}
