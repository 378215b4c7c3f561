package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultLeafThreshold is the group size at or below which Divide stops splitting
const DefaultLeafThreshold = 8

// intersectGroup tests the children of a group with a ray already in group space.
// The group's cached bounds let misses skip every child.
func (a *Arena) intersectGroup(s *Shape, ray core.Ray, xs Intersections) Intersections {
	if len(s.Children) == 0 || !s.bounds.Hit(ray) {
		return xs
	}
	for _, c := range s.Children {
		xs = a.intersect(c, ray, xs)
	}
	return xs
}

// Divide builds a bounding volume hierarchy under h: any group with more than
// threshold children is split into two sub-groups at the midpoint of the
// longest axis of its bounds, recursively. CSG operands are divided too.
func (a *Arena) Divide(h Handle, threshold int) {
	if threshold < 1 {
		threshold = DefaultLeafThreshold
	}

	switch a.shapes[h].Kind {
	case KindGroup:
		if len(a.shapes[h].Children) > threshold {
			a.splitGroup(h)
		}
		// splitGroup may have grown the arena; re-read the children
		for _, c := range append([]Handle(nil), a.shapes[h].Children...) {
			a.Divide(c, threshold)
		}
	case KindCSG:
		a.Divide(a.shapes[h].Left, threshold)
		a.Divide(a.shapes[h].Right, threshold)
	}
}

// splitGroup moves the children of h into two new sub-groups
func (a *Arena) splitGroup(h Handle) {
	axis, splitPos, ok := a.findSplit(h)
	if !ok {
		return
	}
	left, right := a.partitionChildren(h, axis, splitPos)

	// Ensure we don't create empty partitions
	if len(left) == 0 || len(right) == 0 {
		return
	}

	a.shapes[h].Children = nil
	for _, part := range [2][]Handle{left, right} {
		sub, _ := NewGroup(core.Identity())
		subHandle := a.Add(sub)
		for _, c := range part {
			a.shapes[c].Parent = NoHandle
			// cannot fail: c was detached above and sub is a fresh group
			_ = a.Attach(subHandle, c)
		}
		a.shapes[subHandle].Parent = h
		a.shapes[h].Children = append(a.shapes[h].Children, subHandle)
	}
}

// findSplit chooses the longest axis of the group bounds and its midpoint
func (a *Arena) findSplit(h Handle) (axis int, splitPos float64, ok bool) {
	bounds := a.shapes[h].bounds
	axis = bounds.LongestAxis()
	minVal, maxVal := axisRange(bounds, axis)

	// Skip if no finite extent along this axis
	if maxVal <= minVal || math.IsInf(minVal, 0) || math.IsInf(maxVal, 0) {
		return -1, 0, false
	}
	return axis, (minVal + maxVal) * 0.5, true
}

// partitionChildren splits children by the center of their parent-space bounds
func (a *Arena) partitionChildren(h Handle, axis int, splitPos float64) (left, right []Handle) {
	for _, c := range a.shapes[h].Children {
		center := a.ParentSpaceBounds(c).Center()
		if axisValue(center, axis) < splitPos {
			left = append(left, c)
		} else {
			right = append(right, c)
		}
	}
	return left, right
}

func axisRange(b core.Bounds, axis int) (float64, float64) {
	return axisValue(b.Min, axis), axisValue(b.Max, axis)
}

func axisValue(t core.Tuple, axis int) float64 {
	switch axis {
	case 0:
		return t.X
	case 1:
		return t.Y
	}
	return t.Z
}
