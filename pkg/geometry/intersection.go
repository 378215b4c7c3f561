package geometry

import (
	"cmp"
	"slices"
)

// Intersection records where a ray crossed a shape.
// U and V are barycentric coordinates, set only for triangles.
type Intersection struct {
	T      float64
	Object Handle
	U, V   float64
}

// NewIntersection creates an intersection without surface coordinates
func NewIntersection(t float64, object Handle) Intersection {
	return Intersection{T: t, Object: object}
}

// NewIntersectionUV creates an intersection carrying barycentric coordinates
func NewIntersectionUV(t float64, object Handle, u, v float64) Intersection {
	return Intersection{T: t, Object: object, U: u, V: v}
}

// Intersections is a list of intersections sorted ascending by T
type Intersections []Intersection

// NewIntersections collects and sorts intersections
func NewIntersections(xs ...Intersection) Intersections {
	result := Intersections(xs)
	result.Sort()
	return result
}

// Sort orders the list by T, keeping equal values in insertion order
func (xs Intersections) Sort() {
	slices.SortStableFunc(xs, func(a, b Intersection) int {
		return cmp.Compare(a.T, b.T)
	})
}

// Hit returns the visible intersection: the one with the smallest T >= 0.
// Assumes the list is sorted.
func (xs Intersections) Hit() (Intersection, bool) {
	for _, x := range xs {
		if x.T >= 0 {
			return x, true
		}
	}
	return Intersection{}, false
}
