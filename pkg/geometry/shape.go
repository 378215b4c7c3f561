package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var (
	// ErrInvalidShape is returned for bad shape parameters or hierarchy operations
	ErrInvalidShape = errors.New("invalid shape")
	// ErrDegenerateNormal is returned when a surface normal cannot be normalized
	ErrDegenerateNormal = errors.New("degenerate surface normal")
)

// Kind identifies the variant of a Shape
type Kind int

const (
	KindSphere Kind = iota
	KindPlane
	KindCube
	KindCylinder
	KindCone
	KindGroup
	KindTriangle
	KindSmoothTriangle
	KindCSG
)

var kindNames = [...]string{
	KindSphere:         "sphere",
	KindPlane:          "plane",
	KindCube:           "cube",
	KindCylinder:       "cylinder",
	KindCone:           "cone",
	KindGroup:          "group",
	KindTriangle:       "triangle",
	KindSmoothTriangle: "smooth-triangle",
	KindCSG:            "csg",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Shape is one node of the scene graph. Common fields apply to every kind;
// the remaining fields are only meaningful for the kinds noted.
type Shape struct {
	Kind     Kind
	Material material.Material
	Parent   Handle

	transform        core.Matrix
	inverse          core.Matrix
	inverseTranspose core.Matrix

	// Cylinder, Cone
	Minimum float64
	Maximum float64
	Closed  bool

	// Group
	Children []Handle
	bounds   core.Bounds

	// Triangle, SmoothTriangle
	P1, P2, P3 core.Tuple
	E1, E2     core.Tuple
	Normal     core.Tuple
	N1, N2, N3 core.Tuple

	// CSG
	Op          CSGOp
	Left, Right Handle
}

// newShape returns a shape of the given kind with its transform caches filled in.
// The material must pass Validate.
func newShape(kind Kind, transform core.Matrix, mat material.Material) (Shape, error) {
	if err := mat.Validate(); err != nil {
		return Shape{}, fmt.Errorf("%w: %s material: %w", ErrInvalidShape, kind, err)
	}
	s := Shape{
		Kind:     kind,
		Material: mat,
		Parent:   NoHandle,
		Left:     NoHandle,
		Right:    NoHandle,
		bounds:   core.EmptyBounds(),
	}
	if err := s.setTransform(transform); err != nil {
		return Shape{}, err
	}
	return s, nil
}

func (s *Shape) setTransform(m core.Matrix) error {
	inv, err := m.Inverse()
	if err != nil {
		return fmt.Errorf("%w: %s transform: %w", ErrInvalidShape, s.Kind, err)
	}
	s.transform = m
	s.inverse = inv
	s.inverseTranspose = inv.Transpose()
	return nil
}

// Transform returns the object-to-parent transform
func (s *Shape) Transform() core.Matrix {
	return s.transform
}

// Inverse returns the cached inverse transform
func (s *Shape) Inverse() core.Matrix {
	return s.inverse
}

// NewSphere creates a unit sphere at the origin, placed by transform
func NewSphere(transform core.Matrix, mat material.Material) (Shape, error) {
	return newShape(KindSphere, transform, mat)
}

// NewGlassSphere creates a unit sphere with a clear glass material
func NewGlassSphere(transform core.Matrix) (Shape, error) {
	return newShape(KindSphere, transform, material.NewGlass())
}

// NewPlane creates the xz plane, placed by transform
func NewPlane(transform core.Matrix, mat material.Material) (Shape, error) {
	return newShape(KindPlane, transform, mat)
}

// NewCube creates an axis-aligned cube spanning -1..1 on every axis
func NewCube(transform core.Matrix, mat material.Material) (Shape, error) {
	return newShape(KindCube, transform, mat)
}

// NewCylinder creates a unit-radius cylinder around the y axis truncated to
// (minimum, maximum). Use math.Inf for an unbounded cylinder.
func NewCylinder(transform core.Matrix, mat material.Material, minimum, maximum float64, closed bool) (Shape, error) {
	if minimum > maximum {
		return Shape{}, fmt.Errorf("%w: cylinder minimum %f exceeds maximum %f", ErrInvalidShape, minimum, maximum)
	}
	s, err := newShape(KindCylinder, transform, mat)
	if err != nil {
		return Shape{}, err
	}
	s.Minimum, s.Maximum, s.Closed = minimum, maximum, closed
	return s, nil
}

// NewCone creates a double-napped cone around the y axis with its apex at the
// origin, truncated to (minimum, maximum)
func NewCone(transform core.Matrix, mat material.Material, minimum, maximum float64, closed bool) (Shape, error) {
	if minimum > maximum {
		return Shape{}, fmt.Errorf("%w: cone minimum %f exceeds maximum %f", ErrInvalidShape, minimum, maximum)
	}
	s, err := newShape(KindCone, transform, mat)
	if err != nil {
		return Shape{}, err
	}
	s.Minimum, s.Maximum, s.Closed = minimum, maximum, closed
	return s, nil
}

// NewGroup creates an empty group. Children are added with Arena.Attach.
func NewGroup(transform core.Matrix) (Shape, error) {
	return newShape(KindGroup, transform, material.Default())
}
