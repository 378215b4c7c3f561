package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Handle addresses a shape stored in an Arena
type Handle int

// NoHandle marks the absence of a shape (a root's parent, an unset CSG operand)
const NoHandle Handle = -1

// Arena owns every shape of a scene graph. Shapes refer to each other only by
// handle, so parent links never form ownership cycles.
type Arena struct {
	shapes []Shape
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{}
}

// Add stores a shape and returns its handle. The shape must not already have a parent.
func (a *Arena) Add(s Shape) Handle {
	s.Parent = NoHandle
	if s.Kind == KindGroup {
		s.Children = nil
		s.bounds = core.EmptyBounds()
	}
	a.shapes = append(a.shapes, s)
	return Handle(len(a.shapes) - 1)
}

// Len returns the number of shapes in the arena
func (a *Arena) Len() int {
	return len(a.shapes)
}

// Get returns the shape for h. The pointer is invalidated by the next Add.
func (a *Arena) Get(h Handle) *Shape {
	return &a.shapes[h]
}

// Valid reports whether h refers to a shape in the arena
func (a *Arena) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(a.shapes)
}

// Attach makes child a member of group. A shape can belong to only one
// parent, and a group cannot (directly or indirectly) contain itself.
func (a *Arena) Attach(group, child Handle) error {
	if !a.Valid(group) || !a.Valid(child) {
		return fmt.Errorf("%w: unknown handle", ErrInvalidShape)
	}
	if a.shapes[group].Kind != KindGroup {
		return fmt.Errorf("%w: cannot attach to a %s", ErrInvalidShape, a.shapes[group].Kind)
	}
	if a.shapes[child].Parent != NoHandle {
		return fmt.Errorf("%w: shape %d already belongs to %d", ErrInvalidShape, child, a.shapes[child].Parent)
	}
	for h := group; h != NoHandle; h = a.shapes[h].Parent {
		if h == child {
			return fmt.Errorf("%w: attaching %d to %d would create a cycle", ErrInvalidShape, child, group)
		}
	}

	a.shapes[child].Parent = group
	a.shapes[group].Children = append(a.shapes[group].Children, child)
	a.growBounds(group, a.ParentSpaceBounds(child))
	return nil
}

// growBounds extends the cached bounds of group and every ancestor group
func (a *Arena) growBounds(group Handle, b core.Bounds) {
	for h := group; h != NoHandle; h = a.shapes[h].Parent {
		s := &a.shapes[h]
		if s.Kind != KindGroup {
			return
		}
		s.bounds = s.bounds.Union(b)
		b = s.bounds.Transform(s.transform)
	}
}

// SetMaterial assigns mat to h and, for groups and CSG, to every descendant.
// An invalid material leaves the tree unchanged.
func (a *Arena) SetMaterial(h Handle, mat material.Material) error {
	if err := mat.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	a.setMaterial(h, mat)
	return nil
}

func (a *Arena) setMaterial(h Handle, mat material.Material) {
	s := &a.shapes[h]
	s.Material = mat
	switch s.Kind {
	case KindGroup:
		for _, c := range s.Children {
			a.setMaterial(c, mat)
		}
	case KindCSG:
		a.setMaterial(s.Left, mat)
		a.setMaterial(s.Right, mat)
	}
}

// Intersect returns every intersection of ray (in h's parent space) with h,
// sorted ascending by T
func (a *Arena) Intersect(h Handle, ray core.Ray) Intersections {
	xs := a.intersect(h, ray, nil)
	xs.Sort()
	return xs
}

// IntersectAll appends the intersections of several roots and sorts the result
func (a *Arena) IntersectAll(roots []Handle, ray core.Ray, xs Intersections) Intersections {
	for _, h := range roots {
		xs = a.intersect(h, ray, xs)
	}
	xs.Sort()
	return xs
}

// intersect appends unsorted intersections to xs
func (a *Arena) intersect(h Handle, ray core.Ray, xs Intersections) Intersections {
	s := &a.shapes[h]
	local := ray.Transform(s.inverse)

	switch s.Kind {
	case KindSphere:
		return intersectSphere(h, local, xs)
	case KindPlane:
		return intersectPlane(h, local, xs)
	case KindCube:
		return intersectCube(h, local, xs)
	case KindCylinder:
		return intersectCylinder(s, h, local, xs)
	case KindCone:
		return intersectCone(s, h, local, xs)
	case KindTriangle, KindSmoothTriangle:
		return intersectTriangle(s, h, local, xs)
	case KindGroup:
		return a.intersectGroup(s, local, xs)
	case KindCSG:
		return a.intersectCSG(h, local, xs)
	}
	return xs
}

// NormalAt returns the world-space unit normal of h at worldPoint
func (a *Arena) NormalAt(h Handle, worldPoint core.Tuple, hit Intersection) (core.Tuple, error) {
	local := a.WorldToObject(h, worldPoint)
	ln, err := a.localNormal(h, local, hit)
	if err != nil {
		return core.Tuple{}, err
	}
	return a.NormalToWorld(h, ln)
}

// WorldToObject converts a world-space point into h's object space by
// applying the inverse transforms of every ancestor, root first
func (a *Arena) WorldToObject(h Handle, p core.Tuple) core.Tuple {
	s := &a.shapes[h]
	if s.Parent != NoHandle {
		p = a.WorldToObject(s.Parent, p)
	}
	return s.inverse.MultiplyTuple(p)
}

// NormalToWorld converts an object-space normal of h into world space
func (a *Arena) NormalToWorld(h Handle, n core.Tuple) (core.Tuple, error) {
	s := &a.shapes[h]
	n = s.inverseTranspose.MultiplyTuple(n)
	n.W = 0
	n, err := n.Normalize()
	if err != nil {
		return core.Tuple{}, fmt.Errorf("%w: %s %d", ErrDegenerateNormal, s.Kind, h)
	}
	if s.Parent != NoHandle {
		return a.NormalToWorld(s.Parent, n)
	}
	return n, nil
}

func (a *Arena) localNormal(h Handle, p core.Tuple, hit Intersection) (core.Tuple, error) {
	s := &a.shapes[h]
	switch s.Kind {
	case KindSphere:
		return p.Subtract(core.Point(0, 0, 0)), nil
	case KindPlane:
		return core.Vector(0, 1, 0), nil
	case KindCube:
		return cubeNormal(p), nil
	case KindCylinder:
		return cylinderNormal(s, p), nil
	case KindCone:
		return coneNormal(s, p), nil
	case KindTriangle:
		return s.Normal, nil
	case KindSmoothTriangle:
		return smoothTriangleNormal(s, hit), nil
	}
	return core.Tuple{}, fmt.Errorf("%w: %s has no surface of its own", ErrInvalidShape, s.Kind)
}

// Bounds returns the object-space bounding box of h
func (a *Arena) Bounds(h Handle) core.Bounds {
	s := &a.shapes[h]
	switch s.Kind {
	case KindSphere, KindCube:
		return core.NewBounds(core.Point(-1, -1, -1), core.Point(1, 1, 1))
	case KindPlane:
		return planeBounds()
	case KindCylinder:
		return core.NewBounds(core.Point(-1, s.Minimum, -1), core.Point(1, s.Maximum, 1))
	case KindCone:
		return coneBounds(s)
	case KindTriangle, KindSmoothTriangle:
		return core.NewBoundsFromPoints(s.P1, s.P2, s.P3)
	case KindGroup:
		return s.bounds
	case KindCSG:
		return a.ParentSpaceBounds(s.Left).Union(a.ParentSpaceBounds(s.Right))
	}
	return core.EmptyBounds()
}

// ParentSpaceBounds returns the bounds of h after applying its own transform
func (a *Arena) ParentSpaceBounds(h Handle) core.Bounds {
	return a.Bounds(h).Transform(a.shapes[h].transform)
}

// Includes reports whether target is h or one of its descendants
func (a *Arena) Includes(h, target Handle) bool {
	if h == target {
		return true
	}
	s := &a.shapes[h]
	switch s.Kind {
	case KindGroup:
		for _, c := range s.Children {
			if a.Includes(c, target) {
				return true
			}
		}
	case KindCSG:
		return a.Includes(s.Left, target) || a.Includes(s.Right, target)
	}
	return false
}

// Primitives counts the non-container shapes reachable from h
func (a *Arena) Primitives(h Handle) int {
	s := &a.shapes[h]
	switch s.Kind {
	case KindGroup:
		n := 0
		for _, c := range s.Children {
			n += a.Primitives(c)
		}
		return n
	case KindCSG:
		return a.Primitives(s.Left) + a.Primitives(s.Right)
	}
	return 1
}
