package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// NewCausticGlassScene creates mirror and glass spheres over a checkered floor,
// including a hollow glass sphere with an air bubble inside
func NewCausticGlassScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.Point(0, 2.5, -6),
		LookAt: core.Point(0, 1, 0),
		Up:     core.Vector(0, 1, 0),
		Width:  400,
		Height: 225,
		VFov:   55,
	}

	world := NewWorld()
	world.Background = core.NewColor(0.2, 0.2, 0.2)
	b := &shapeBuilder{world: world}

	floorPattern := material.NewCheckers(core.NewColor(0.35, 0.35, 0.35), core.NewColor(0.65, 0.65, 0.65))
	b.add(NewGroundPlane(0, b.material(
		material.WithPattern(floorPattern),
		material.WithSpecular(0),
		material.WithReflective(0.2),
	)))

	// Back wall with stripes so refraction is visible
	wallPattern := material.NewStripe(core.NewColor(0.7, 0.3, 0.2), core.NewColor(0.9, 0.8, 0.6))
	if err := wallPattern.SetTransform(transform.Scaling(0.5, 1, 1)); err != nil {
		return nil, err
	}
	b.add(geometry.NewPlane(
		transform.New().RotateX(math.Pi/2).Translate(0, 0, 6).Matrix(),
		b.material(material.WithPattern(wallPattern), material.WithSpecular(0)),
	))

	// Mirror sphere
	b.add(geometry.NewSphere(
		transform.Translation(-2.2, 1, 1.5),
		b.material(
			material.WithColor(core.NewColor(0.1, 0.1, 0.1)),
			material.WithDiffuse(0.1),
			material.WithSpecular(1),
			material.WithShininess(300),
			material.WithReflective(0.9),
		),
	))

	// Solid glass sphere
	glass := b.material(
		material.WithColor(core.NewColor(0.05, 0.05, 0.05)),
		material.WithAmbient(0),
		material.WithDiffuse(0.1),
		material.WithSpecular(1),
		material.WithShininess(300),
		material.WithReflective(0.9),
		material.WithTransparency(0.9),
		material.WithRefractiveIndex(material.Glass),
	)
	b.add(geometry.NewSphere(transform.Translation(0, 1, 0), glass))

	// Hollow glass sphere with an air bubble inside
	b.add(geometry.NewSphere(transform.Translation(2.2, 1, 1.5), glass))
	b.add(geometry.NewSphere(
		transform.New().Scale(0.6, 0.6, 0.6).Translate(2.2, 1, 1.5).Matrix(),
		b.material(
			material.WithColor(core.White),
			material.WithAmbient(0),
			material.WithDiffuse(0),
			material.WithSpecular(0.9),
			material.WithShininess(300),
			material.WithReflective(0.9),
			material.WithTransparency(0.9),
			material.WithRefractiveIndex(material.Air),
		),
	))

	// Small water droplet in front
	b.add(geometry.NewSphere(
		transform.New().Scale(0.4, 0.4, 0.4).Translate(0.8, 0.4, -1.6).Matrix(),
		b.material(
			material.WithColor(core.NewColor(0.1, 0.2, 0.4)),
			material.WithDiffuse(0.2),
			material.WithSpecular(0.8),
			material.WithReflective(0.3),
			material.WithTransparency(0.7),
			material.WithRefractiveIndex(material.Water),
		),
	))

	b.light(core.Point(-5, 8, -8), core.White)
	if b.err != nil {
		return nil, b.err
	}
	s, err := newScene("reflections", world, defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, err
	}
	s.MaxDepth = 8
	return s, nil
}
