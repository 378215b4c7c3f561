package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// World is the collection of objects and lights being rendered.
// It is built once and must not be modified while a render is running.
type World struct {
	Arena      *geometry.Arena
	Objects    []geometry.Handle // Root shapes
	Lights     []lights.PointLight
	Background core.Color // Returned for rays that hit nothing
}

// NewWorld creates an empty world with a black background
func NewWorld() *World {
	return &World{
		Arena:      geometry.NewArena(),
		Background: core.Black,
	}
}

// Add stores a shape in the arena and registers it as a root object
func (w *World) Add(s geometry.Shape) geometry.Handle {
	h := w.Arena.Add(s)
	w.Objects = append(w.Objects, h)
	return h
}

// AddRoot registers an existing arena shape (a group or csg node) as a root
func (w *World) AddRoot(h geometry.Handle) error {
	if !w.Arena.Valid(h) {
		return fmt.Errorf("%w: unknown handle %d", geometry.ErrInvalidShape, h)
	}
	if p := w.Arena.Get(h).Parent; p != geometry.NoHandle {
		return fmt.Errorf("%w: shape %d is a child of %d", geometry.ErrInvalidShape, h, p)
	}
	for _, existing := range w.Objects {
		if existing == h {
			return fmt.Errorf("%w: shape %d is already a root", geometry.ErrInvalidShape, h)
		}
	}
	w.Objects = append(w.Objects, h)
	return nil
}

// AddLight appends a light
func (w *World) AddLight(l lights.PointLight) {
	w.Lights = append(w.Lights, l)
}

// Intersect returns every intersection of ray with the world, sorted by T
func (w *World) Intersect(ray core.Ray) geometry.Intersections {
	return w.Arena.IntersectAll(w.Objects, ray, nil)
}

// PrimitiveCount returns the number of surfaces reachable from the roots
func (w *World) PrimitiveCount() int {
	count := 0
	for _, h := range w.Objects {
		count += w.Arena.Primitives(h)
	}
	return count
}

// DefaultWorld returns the two-sphere reference world: a light at
// (-10, 10, -10), a green-ish unit sphere and a concentric sphere of radius 0.5
func DefaultWorld() *World {
	w := NewWorld()

	light, _ := lights.NewPointLight(core.Point(-10, 10, -10), core.White)
	w.AddLight(light)

	outer, _ := geometry.NewSphere(core.Identity(), material.Material{
		Color:           core.NewColor(0.8, 1.0, 0.6),
		Ambient:         0.1,
		Diffuse:         0.7,
		Specular:        0.2,
		Shininess:       200,
		RefractiveIndex: 1,
	})
	w.Add(outer)

	inner, _ := geometry.NewSphere(transform.Scaling(0.5, 0.5, 0.5), material.Default())
	w.Add(inner)

	return w
}
