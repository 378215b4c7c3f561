package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// intersectCylinder intersects an object-space ray with a unit-radius
// cylinder around the y axis, truncated to (Minimum, Maximum)
func intersectCylinder(s *Shape, h Handle, ray core.Ray, xs Intersections) Intersections {
	d, o := ray.Direction, ray.Origin
	a := d.X*d.X + d.Z*d.Z

	// Parallel to the y axis: only the caps can be hit
	if math.Abs(a) >= core.Epsilon {
		b := 2*o.X*d.X + 2*o.Z*d.Z
		c := o.X*o.X + o.Z*o.Z - 1

		disc := b*b - 4*a*c
		if disc < 0 {
			return xs
		}
		sqrtD := math.Sqrt(disc)
		t0 := (-b - sqrtD) / (2 * a)
		t1 := (-b + sqrtD) / (2 * a)
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		for _, t := range [2]float64{t0, t1} {
			y := o.Y + t*d.Y
			if s.Minimum < y && y < s.Maximum {
				xs = append(xs, NewIntersection(t, h))
			}
		}
	}

	return intersectCaps(s, h, ray, xs, func(float64) float64 { return 1 })
}

// intersectCaps adds hits on the end caps of a closed cylinder or cone.
// radius returns the cap radius at a given y.
func intersectCaps(s *Shape, h Handle, ray core.Ray, xs Intersections, radius func(y float64) float64) Intersections {
	if !s.Closed || math.Abs(ray.Direction.Y) < core.Epsilon {
		return xs
	}

	for _, y := range [2]float64{s.Minimum, s.Maximum} {
		if math.IsInf(y, 0) {
			continue
		}
		t := (y - ray.Origin.Y) / ray.Direction.Y
		if checkCap(ray, t, radius(y)) {
			xs = append(xs, NewIntersection(t, h))
		}
	}
	return xs
}

// checkCap reports whether the ray at t lies within radius of the y axis
func checkCap(ray core.Ray, t, radius float64) bool {
	x := ray.Origin.X + t*ray.Direction.X
	z := ray.Origin.Z + t*ray.Direction.Z
	return x*x+z*z <= radius*radius
}

func cylinderNormal(s *Shape, p core.Tuple) core.Tuple {
	dist := p.X*p.X + p.Z*p.Z
	if dist < 1 && p.Y >= s.Maximum-core.Epsilon {
		return core.Vector(0, 1, 0)
	}
	if dist < 1 && p.Y <= s.Minimum+core.Epsilon {
		return core.Vector(0, -1, 0)
	}
	return core.Vector(p.X, 0, p.Z)
}
