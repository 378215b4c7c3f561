package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// intersectCone intersects an object-space ray with a double-napped cone
// x² + z² = y² truncated to (Minimum, Maximum)
func intersectCone(s *Shape, h Handle, ray core.Ray, xs Intersections) Intersections {
	d, o := ray.Direction, ray.Origin
	a := d.X*d.X - d.Y*d.Y + d.Z*d.Z
	b := 2*o.X*d.X - 2*o.Y*d.Y + 2*o.Z*d.Z
	c := o.X*o.X - o.Y*o.Y + o.Z*o.Z

	aZero := math.Abs(a) < core.Epsilon
	switch {
	case aZero && math.Abs(b) < core.Epsilon:
		// Ray misses the body entirely
	case aZero:
		// Parallel to one of the halves: a single hit
		t := -c / (2 * b)
		y := o.Y + t*d.Y
		if s.Minimum < y && y < s.Maximum {
			xs = append(xs, NewIntersection(t, h))
		}
	default:
		disc := b*b - 4*a*c
		if disc < 0 {
			return intersectCaps(s, h, ray, xs, math.Abs)
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

	return intersectCaps(s, h, ray, xs, math.Abs)
}

func coneNormal(s *Shape, p core.Tuple) core.Tuple {
	dist := p.X*p.X + p.Z*p.Z
	if dist < p.Y*p.Y && p.Y >= s.Maximum-core.Epsilon {
		return core.Vector(0, 1, 0)
	}
	if dist < p.Y*p.Y && p.Y <= s.Minimum+core.Epsilon {
		return core.Vector(0, -1, 0)
	}

	r := math.Sqrt(dist)
	if r < core.Epsilon && math.Abs(p.Y) < core.Epsilon {
		// Apex: the body normal vanishes, so point along the axis of the nappe
		if p.Y < 0 {
			return core.Vector(0, -1, 0)
		}
		return core.Vector(0, 1, 0)
	}

	y := r
	if p.Y > 0 {
		y = -y
	}
	return core.Vector(p.X, y, p.Z)
}

func coneBounds(s *Shape) core.Bounds {
	limit := math.Max(math.Abs(s.Minimum), math.Abs(s.Maximum))
	return core.NewBounds(core.Point(-limit, s.Minimum, -limit), core.Point(limit, s.Maximum, limit))
}
