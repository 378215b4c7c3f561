package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// hexagonSide builds one corner sphere and one edge cylinder in their own group
func hexagonSide(b *shapeBuilder, n int, mat material.Material) geometry.Handle {
	side := b.store(geometry.NewGroup(transform.RotationY(float64(n) * math.Pi / 3)))

	corner := b.store(geometry.NewSphere(
		transform.New().Scale(0.25, 0.25, 0.25).Translate(0, 0, -1).Matrix(),
		mat,
	))
	edge := b.store(geometry.NewCylinder(
		transform.New().
			Scale(0.25, 1, 0.25).
			RotateZ(-math.Pi/2).
			RotateY(-math.Pi/6).
			Translate(0, 0, -1).
			Matrix(),
		mat, 0, 1, false,
	))
	b.attach(side, corner)
	b.attach(side, edge)
	return side
}

// hexagon builds six sides under one group with the given transform
func hexagon(b *shapeBuilder, m core.Matrix, mat material.Material) geometry.Handle {
	hex := b.store(geometry.NewGroup(m))
	for n := range 6 {
		b.attach(hex, hexagonSide(b, n, mat))
	}
	return hex
}

// NewGroupsScene creates two hexagons assembled from nested groups, one
// standing and one lying on a mirror floor
func NewGroupsScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.Point(0, 3, -5.5),
		LookAt: core.Point(0, 0.8, 0),
		Up:     core.Vector(0, 1, 0),
		Width:  400,
		Height: 300,
		VFov:   50,
	}

	world := NewWorld()
	world.Background = core.NewColor(0.05, 0.05, 0.1)
	b := &shapeBuilder{world: world}

	b.add(NewGroundPlane(0, b.material(
		material.WithColor(core.NewColor(0.15, 0.15, 0.15)),
		material.WithSpecular(0.5),
		material.WithReflective(0.5),
	)))

	gold := b.material(
		material.WithColor(core.NewColor(0.9, 0.7, 0.2)),
		material.WithDiffuse(0.6),
		material.WithSpecular(0.8),
		material.WithShininess(250),
		material.WithReflective(0.2),
	)
	teal := b.material(
		material.WithColor(core.NewColor(0.2, 0.7, 0.7)),
		material.WithDiffuse(0.7),
		material.WithSpecular(0.4),
	)

	b.root(hexagon(b, transform.New().RotateX(-math.Pi/2).Translate(-1.3, 1.25, 0.5).Matrix(), gold))
	b.root(hexagon(b, transform.New().Scale(0.8, 0.8, 0.8).Translate(1.4, 0.2, 0).Matrix(), teal))

	b.light(core.Point(-4, 8, -6), core.White)
	if b.err != nil {
		return nil, b.err
	}
	return newScene("groups", world, defaultCameraConfig, cameraOverrides)
}
