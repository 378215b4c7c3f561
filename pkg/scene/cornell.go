package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// NewCornellScene creates a classic Cornell box: red and green side walls,
// a point light under the ceiling, a rotated block and a mirror sphere
func NewCornellScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.Point(278, 278, -800),
		LookAt: core.Point(278, 278, 0),
		Up:     core.Vector(0, 1, 0),
		Width:  400,
		Height: 400,
		VFov:   40,
	}

	world := NewWorld()
	b := &shapeBuilder{world: world}

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	wall := func(c core.Color) material.Material {
		return b.material(
			material.WithColor(c),
			material.WithAmbient(0.15),
			material.WithDiffuse(0.8),
			material.WithSpecular(0),
		)
	}
	white := wall(core.NewColor(0.73, 0.73, 0.73))
	red := wall(core.NewColor(0.65, 0.05, 0.05))
	green := wall(core.NewColor(0.12, 0.45, 0.15))

	// Floor and ceiling
	b.add(NewGroundPlane(0, white))
	b.add(NewGroundPlane(boxSize, white))

	// Back wall, facing -z
	b.add(geometry.NewPlane(
		transform.New().RotateX(math.Pi/2).Translate(0, 0, boxSize).Matrix(),
		white,
	))

	// Left wall (red) at x=0 and right wall (green) at x=boxSize
	b.add(geometry.NewPlane(
		transform.New().RotateZ(math.Pi/2).Matrix(),
		red,
	))
	b.add(geometry.NewPlane(
		transform.New().RotateZ(math.Pi/2).Translate(boxSize, 0, 0).Matrix(),
		green,
	))

	// Tall block, rotated toward the camera
	b.add(geometry.NewCube(
		transform.New().
			Translate(1, 1, 1).
			Scale(82.5, 165, 82.5).
			RotateY(math.Pi/12).
			Translate(265, 0, 295).
			Matrix(),
		white,
	))

	// Mirror sphere in front of the block
	b.add(geometry.NewSphere(
		transform.New().Scale(90, 90, 90).Translate(370, 90, 170).Matrix(),
		b.material(
			material.WithColor(core.NewColor(0.1, 0.1, 0.1)),
			material.WithDiffuse(0.1),
			material.WithSpecular(0.9),
			material.WithShininess(300),
			material.WithReflective(0.85),
		),
	))

	b.light(core.Point(boxSize/2, boxSize-5, boxSize/2), core.White)
	if b.err != nil {
		return nil, b.err
	}
	s, err := newScene("cornell", world, defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, err
	}
	s.MaxDepth = 6
	return s, nil
}
