package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// NewCylinderScene creates a row of cubes, cylinders and cones on a floor
func NewCylinderScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.Point(0, 3, -7),
		LookAt: core.Point(0, 0.8, 0),
		Up:     core.Vector(0, 1, 0),
		Width:  400,
		Height: 225,
		VFov:   50,
	}

	world := NewWorld()
	b := &shapeBuilder{world: world}

	b.add(NewGroundPlane(0, b.material(
		material.WithColor(core.NewColor(0.8, 0.8, 0.8)),
		material.WithSpecular(0),
		material.WithReflective(0.1),
	)))

	matte := func(r, g, bl float64) material.Material {
		return b.material(
			material.WithColor(core.NewColor(r, g, bl)),
			material.WithDiffuse(0.7),
			material.WithSpecular(0.3),
		)
	}

	// Rotated cube on the left
	b.add(geometry.NewCube(
		transform.New().Scale(0.6, 0.6, 0.6).RotateY(math.Pi/6).Translate(-2.5, 0.6, 0.5).Matrix(),
		matte(0.8, 0.3, 0.3),
	))

	// Closed and open cylinders
	b.add(geometry.NewCylinder(
		transform.New().Scale(0.5, 1, 0.5).Translate(-1, 0, 0).Matrix(),
		matte(0.3, 0.8, 0.3), 0, 1.5, true,
	))
	b.add(geometry.NewCylinder(
		transform.New().Scale(0.4, 1, 0.4).Translate(-1.2, 0, -1.6).Matrix(),
		matte(0.9, 0.9, 0.3), 0, 0.6, false,
	))

	// Cone standing on its base, tipped cone and a double cone
	b.add(geometry.NewCone(
		transform.New().Scale(0.6, 1.2, 0.6).Translate(0.6, 1.2, 0).Matrix(),
		matte(0.3, 0.3, 0.8), -1, 0, true,
	))
	b.add(geometry.NewCone(
		transform.New().Scale(0.4, 0.8, 0.4).RotateZ(math.Pi/2).Translate(0.8, 0.4, -1.8).Matrix(),
		matte(0.8, 0.5, 0.2), -1, 0, true,
	))
	b.add(geometry.NewCone(
		transform.New().Scale(0.5, 0.7, 0.5).Translate(2.4, 0.7, 0.6).Matrix(),
		matte(0.6, 0.3, 0.8), -1, 1, false,
	))

	b.light(core.Point(-6, 8, -8), core.White)
	if b.err != nil {
		return nil, b.err
	}
	return newScene("shapes", world, defaultCameraConfig, cameraOverrides)
}
