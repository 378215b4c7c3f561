package core

import "math"

// Bounds is an axis-aligned bounding box. Infinite extents are allowed
// (planes, uncapped cylinders).
type Bounds struct {
	Min Tuple // Minimum corner (point)
	Max Tuple // Maximum corner (point)
}

// EmptyBounds returns a box that contains nothing; adding any point makes it valid
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: Point(inf, inf, inf), Max: Point(-inf, -inf, -inf)}
}

// NewBounds creates bounds from min and max corners
func NewBounds(min, max Tuple) Bounds {
	return Bounds{Min: min, Max: max}
}

// NewBoundsFromPoints creates bounds that enclose every given point
func NewBoundsFromPoints(points ...Tuple) Bounds {
	b := EmptyBounds()
	for _, p := range points {
		b = b.AddPoint(p)
	}
	return b
}

// AddPoint grows the box to include p
func (b Bounds) AddPoint(p Tuple) Bounds {
	return Bounds{
		Min: Point(math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)),
		Max: Point(math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)),
	}
}

// Union returns bounds enclosing both boxes
func (b Bounds) Union(other Bounds) Bounds {
	if !other.IsValid() {
		return b
	}
	return b.AddPoint(other.Min).AddPoint(other.Max)
}

// IsValid returns true if min <= max on every axis
func (b Bounds) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// ContainsPoint reports whether p lies inside or on the box
func (b Bounds) ContainsPoint(p Tuple) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ContainsBounds reports whether other lies entirely inside b
func (b Bounds) ContainsBounds(other Bounds) bool {
	return b.ContainsPoint(other.Min) && b.ContainsPoint(other.Max)
}

// Transform returns the box enclosing all eight transformed corners
func (b Bounds) Transform(m Matrix) Bounds {
	if !b.IsValid() {
		return b
	}
	corners := [8]Tuple{
		b.Min,
		Point(b.Min.X, b.Min.Y, b.Max.Z),
		Point(b.Min.X, b.Max.Y, b.Min.Z),
		Point(b.Min.X, b.Max.Y, b.Max.Z),
		Point(b.Max.X, b.Min.Y, b.Min.Z),
		Point(b.Max.X, b.Min.Y, b.Max.Z),
		Point(b.Max.X, b.Max.Y, b.Min.Z),
		b.Max,
	}
	result := EmptyBounds()
	for _, c := range corners {
		result = result.AddPoint(transformCorner(m, c))
	}
	// opposite infinities along one axis leave NaN; widen that axis fully
	inf := math.Inf(1)
	if math.IsNaN(result.Min.X) || math.IsNaN(result.Max.X) {
		result.Min.X, result.Max.X = -inf, inf
	}
	if math.IsNaN(result.Min.Y) || math.IsNaN(result.Max.Y) {
		result.Min.Y, result.Max.Y = -inf, inf
	}
	if math.IsNaN(result.Min.Z) || math.IsNaN(result.Max.Z) {
		result.Min.Z, result.Max.Z = -inf, inf
	}
	return result
}

// Hit tests if a ray intersects the box using the slab method
func (b Bounds) Hit(ray Ray) bool {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		var min, max, origin, direction float64

		switch axis {
		case 0:
			min, max, origin, direction = b.Min.X, b.Max.X, ray.Origin.X, ray.Direction.X
		case 1:
			min, max, origin, direction = b.Min.Y, b.Max.Y, ray.Origin.Y, ray.Direction.Y
		case 2:
			min, max, origin, direction = b.Min.Z, b.Max.Z, ray.Origin.Z, ray.Direction.Z
		}

		// Parallel to this slab
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return tMax >= 0
}

// Center returns the center point of the box
func (b Bounds) Center() Tuple {
	return Point((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2, (b.Min.Z+b.Max.Z)/2)
}

// Size returns the extent along each axis as a vector
func (b Bounds) Size() Tuple {
	return b.Max.Subtract(b.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (b Bounds) LongestAxis() int {
	size := b.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// Split halves the box along its longest axis
func (b Bounds) Split() (Bounds, Bounds) {
	size := b.Size()
	x0, y0, z0 := b.Min.X, b.Min.Y, b.Min.Z
	x1, y1, z1 := b.Max.X, b.Max.Y, b.Max.Z

	switch b.LongestAxis() {
	case 0:
		x0 += size.X / 2
		x1 = x0
	case 1:
		y0 += size.Y / 2
		y1 = y0
	default:
		z0 += size.Z / 2
		z1 = z0
	}

	left := Bounds{Min: b.Min, Max: Point(x1, y1, z1)}
	right := Bounds{Min: Point(x0, y0, z0), Max: b.Max}
	return left, right
}

// transformCorner multiplies like MultiplyTuple but skips zero coefficients,
// so infinite corners do not turn into NaN (0 * Inf).
func transformCorner(m Matrix, c Tuple) Tuple {
	in := [4]float64{c.X, c.Y, c.Z, 1}
	var out [3]float64
	for r := 0; r < 3; r++ {
		sum := 0.0
		for k := 0; k < 4; k++ {
			if m.m[r][k] != 0 {
				sum += m.m[r][k] * in[k]
			}
		}
		out[r] = sum
	}
	return Point(out[0], out[1], out[2])
}
