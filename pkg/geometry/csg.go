package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CSGOp is a constructive solid geometry operation
type CSGOp int

const (
	CSGUnion CSGOp = iota
	CSGIntersection
	CSGDifference
)

func (op CSGOp) String() string {
	switch op {
	case CSGUnion:
		return "union"
	case CSGIntersection:
		return "intersection"
	case CSGDifference:
		return "difference"
	}
	return fmt.Sprintf("csg(%d)", int(op))
}

// ParseCSGOp converts a name such as "difference" into a CSGOp
func ParseCSGOp(name string) (CSGOp, error) {
	switch name {
	case "union":
		return CSGUnion, nil
	case "intersection", "intersect":
		return CSGIntersection, nil
	case "difference":
		return CSGDifference, nil
	}
	return 0, fmt.Errorf("%w: unknown csg operation %q", ErrInvalidShape, name)
}

// AddCSG combines two existing root shapes into a CSG node. Both operands
// become children of the new node.
func (a *Arena) AddCSG(op CSGOp, left, right Handle, transform core.Matrix) (Handle, error) {
	if !a.Valid(left) || !a.Valid(right) || left == right {
		return NoHandle, fmt.Errorf("%w: csg needs two distinct shapes", ErrInvalidShape)
	}
	if a.shapes[left].Parent != NoHandle || a.shapes[right].Parent != NoHandle {
		return NoHandle, fmt.Errorf("%w: csg operands must not already have a parent", ErrInvalidShape)
	}
	if op < CSGUnion || op > CSGDifference {
		return NoHandle, fmt.Errorf("%w: unknown csg operation %d", ErrInvalidShape, op)
	}

	s, err := newShape(KindCSG, transform, a.shapes[left].Material)
	if err != nil {
		return NoHandle, err
	}
	h := a.Add(s)
	a.shapes[h].Op = op
	a.shapes[h].Left = left
	a.shapes[h].Right = right
	a.shapes[left].Parent = h
	a.shapes[right].Parent = h
	return h, nil
}

// intersectionAllowed reports whether a hit on one operand survives op, given
// which operand was hit and whether the ray is currently inside each operand
func intersectionAllowed(op CSGOp, leftHit, inLeft, inRight bool) bool {
	switch op {
	case CSGUnion:
		return (leftHit && !inRight) || (!leftHit && !inLeft)
	case CSGIntersection:
		return (leftHit && inRight) || (!leftHit && inLeft)
	case CSGDifference:
		return (leftHit && !inRight) || (!leftHit && inLeft)
	}
	return false
}

// intersectCSG intersects both operands and keeps only the surviving hits
func (a *Arena) intersectCSG(h Handle, ray core.Ray, xs Intersections) Intersections {
	s := &a.shapes[h]
	all := a.intersect(s.Left, ray, nil)
	all = a.intersect(s.Right, ray, all)
	all.Sort()
	return append(xs, a.filterCSG(h, all)...)
}

// filterCSG walks sorted intersections of the operands of h, tracking whether
// the ray is inside each operand, and returns the hits on the combined surface
func (a *Arena) filterCSG(h Handle, all Intersections) Intersections {
	s := &a.shapes[h]
	var result Intersections
	inLeft, inRight := false, false
	for _, x := range all {
		leftHit := a.Includes(s.Left, x.Object)
		if intersectionAllowed(s.Op, leftHit, inLeft, inRight) {
			result = append(result, x)
		}
		if leftHit {
			inLeft = !inLeft
		} else {
			inRight = !inRight
		}
	}
	return result
}
