package material

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Pattern provides spatially-varying colors for materials.
// Patterns carry their own transform and may be nested.
type Pattern interface {
	// Local returns the color at a point already in pattern space
	Local(p core.Tuple) core.Color
	// Inverse returns the inverse of the pattern transform
	Inverse() core.Matrix
}

// AtObject converts an object-space point into pattern space and evaluates p
func AtObject(p Pattern, objectPoint core.Tuple) core.Color {
	return p.Local(p.Inverse().MultiplyTuple(objectPoint))
}

// Transformed holds a pattern transform and its cached inverse.
// The zero value is the identity.
type Transformed struct {
	transform core.Matrix
	inverse   core.Matrix
}

// SetTransform replaces the pattern transform
func (t *Transformed) SetTransform(m core.Matrix) error {
	inv, err := m.Inverse()
	if err != nil {
		return fmt.Errorf("pattern transform: %w", err)
	}
	t.transform = m
	t.inverse = inv
	return nil
}

// Transform returns the pattern transform
func (t *Transformed) Transform() core.Matrix {
	if t.transform.Size() == 0 {
		return core.Identity()
	}
	return t.transform
}

// Inverse returns the cached inverse transform
func (t *Transformed) Inverse() core.Matrix {
	if t.inverse.Size() == 0 {
		return core.Identity()
	}
	return t.inverse
}

// Solid is a single color everywhere
type Solid struct {
	Transformed
	Color core.Color
}

// NewSolid creates a new solid color pattern
func NewSolid(c core.Color) *Solid {
	return &Solid{Color: c}
}

// Local returns the solid color regardless of position
func (s *Solid) Local(core.Tuple) core.Color {
	return s.Color
}

// Stripe alternates A and B along x
type Stripe struct {
	Transformed
	A, B Pattern
}

// NewStripe creates stripes of two solid colors
func NewStripe(a, b core.Color) *Stripe {
	return &Stripe{A: NewSolid(a), B: NewSolid(b)}
}

func (s *Stripe) Local(p core.Tuple) core.Color {
	if int(math.Floor(p.X))%2 == 0 {
		return AtObject(s.A, p)
	}
	return AtObject(s.B, p)
}

// Gradient blends linearly from A at x=0 to B at x=1, repeating each unit
type Gradient struct {
	Transformed
	A, B Pattern
}

// NewGradient creates a gradient between two solid colors
func NewGradient(a, b core.Color) *Gradient {
	return &Gradient{A: NewSolid(a), B: NewSolid(b)}
}

func (g *Gradient) Local(p core.Tuple) core.Color {
	a := AtObject(g.A, p)
	b := AtObject(g.B, p)
	fraction := p.X - math.Floor(p.X)
	return a.Add(b.Subtract(a).Multiply(fraction))
}

// Ring alternates A and B in concentric rings around the y axis
type Ring struct {
	Transformed
	A, B Pattern
}

// NewRing creates rings of two solid colors
func NewRing(a, b core.Color) *Ring {
	return &Ring{A: NewSolid(a), B: NewSolid(b)}
}

func (r *Ring) Local(p core.Tuple) core.Color {
	if int(math.Floor(math.Hypot(p.X, p.Z)))%2 == 0 {
		return AtObject(r.A, p)
	}
	return AtObject(r.B, p)
}

// Checkers alternates A and B in a 3-D grid of unit cubes
type Checkers struct {
	Transformed
	A, B Pattern
}

// NewCheckers creates a checkerboard of two solid colors
func NewCheckers(a, b core.Color) *Checkers {
	return &Checkers{A: NewSolid(a), B: NewSolid(b)}
}

func (c *Checkers) Local(p core.Tuple) core.Color {
	sum := math.Floor(p.X) + math.Floor(p.Y) + math.Floor(p.Z)
	if int(sum)%2 == 0 {
		return AtObject(c.A, p)
	}
	return AtObject(c.B, p)
}

// RadialGradient blends from A to B with distance from the y axis, repeating each unit
type RadialGradient struct {
	Transformed
	A, B Pattern
}

// NewRadialGradient creates a radial gradient between two solid colors
func NewRadialGradient(a, b core.Color) *RadialGradient {
	return &RadialGradient{A: NewSolid(a), B: NewSolid(b)}
}

func (r *RadialGradient) Local(p core.Tuple) core.Color {
	a := AtObject(r.A, p)
	b := AtObject(r.B, p)
	d := math.Hypot(p.X, p.Z)
	return a.Add(b.Subtract(a).Multiply(d - math.Floor(d)))
}
