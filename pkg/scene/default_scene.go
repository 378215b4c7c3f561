package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// NewDefaultScene creates three spheres resting on a floor in front of two walls
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.Point(0, 1.5, -5),
		LookAt: core.Point(0, 1, 0),
		Up:     core.Vector(0, 1, 0),
		Width:  400,
		Height: 200,
		VFov:   60,
	}

	world := NewWorld()
	b := &shapeBuilder{world: world}

	wallMaterial := b.material(
		material.WithColor(core.NewColor(1, 0.9, 0.9)),
		material.WithSpecular(0),
	)

	b.add(NewGroundPlane(0, wallMaterial))
	b.add(geometry.NewPlane(
		transform.New().RotateX(math.Pi/2).RotateY(-math.Pi/4).Translate(0, 0, 5).Matrix(),
		wallMaterial,
	))
	b.add(geometry.NewPlane(
		transform.New().RotateX(math.Pi/2).RotateY(math.Pi/4).Translate(0, 0, 5).Matrix(),
		wallMaterial,
	))

	// Large sphere in the middle
	b.add(geometry.NewSphere(
		transform.Translation(-0.5, 1, 0.5),
		b.material(
			material.WithColor(core.NewColor(0.1, 1, 0.5)),
			material.WithDiffuse(0.7),
			material.WithSpecular(0.3),
		),
	))

	// Smaller green sphere on the right
	b.add(geometry.NewSphere(
		transform.New().Scale(0.5, 0.5, 0.5).Translate(1.5, 0.5, -0.5).Matrix(),
		b.material(
			material.WithColor(core.NewColor(0.5, 1, 0.1)),
			material.WithDiffuse(0.7),
			material.WithSpecular(0.3),
		),
	))

	// Smallest sphere on the left
	b.add(geometry.NewSphere(
		transform.New().Scale(0.33, 0.33, 0.33).Translate(-1.5, 0.33, -0.75).Matrix(),
		b.material(
			material.WithColor(core.NewColor(1, 0.8, 0.1)),
			material.WithDiffuse(0.7),
			material.WithSpecular(0.3),
		),
	))

	b.light(core.Point(-10, 10, -10), core.White)
	if b.err != nil {
		return nil, b.err
	}
	return newScene("spheres", world, defaultCameraConfig, cameraOverrides)
}
