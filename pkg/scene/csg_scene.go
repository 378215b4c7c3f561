package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

func (b *shapeBuilder) csg(op geometry.CSGOp, left, right geometry.Handle, m core.Matrix) geometry.Handle {
	if b.err != nil {
		return geometry.NoHandle
	}
	h, err := b.world.Arena.AddCSG(op, left, right, m)
	if err != nil {
		b.err = err
		return geometry.NoHandle
	}
	return h
}

// die carves three pips into the faces of a rounded cube: the cube is
// intersected with a sphere and the pips are subtracted
func die(b *shapeBuilder, m core.Matrix, body, pips material.Material) geometry.Handle {
	cube := b.store(geometry.NewCube(core.Identity(), body))
	ball := b.store(geometry.NewSphere(transform.Scaling(1.4, 1.4, 1.4), body))
	rounded := b.csg(geometry.CSGIntersection, cube, ball, core.Identity())

	holes := b.store(geometry.NewGroup(core.Identity()))
	pipAt := func(x, y, z float64) {
		pip := b.store(geometry.NewSphere(
			transform.New().Scale(0.2, 0.2, 0.2).Translate(x, y, z).Matrix(),
			pips,
		))
		b.attach(holes, pip)
	}
	// One on top, two on the front, three on the right
	pipAt(0, 1, 0)
	pipAt(-0.4, 0.4, -1)
	pipAt(0.4, -0.4, -1)
	pipAt(1, 0.5, -0.5)
	pipAt(1, 0, 0)
	pipAt(1, -0.5, 0.5)

	return b.csg(geometry.CSGDifference, rounded, holes, m)
}

// NewCSGScene creates a die, a lens and a hollow tube built with
// constructive solid geometry
func NewCSGScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
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
		material.WithPattern(material.NewCheckers(core.NewColor(0.8, 0.8, 0.8), core.NewColor(0.5, 0.5, 0.5))),
		material.WithSpecular(0),
	)))

	ivory := b.material(
		material.WithColor(core.NewColor(0.95, 0.93, 0.85)),
		material.WithSpecular(0.6),
		material.WithShininess(150),
	)
	black := b.material(
		material.WithColor(core.NewColor(0.05, 0.05, 0.05)),
		material.WithSpecular(0.3),
	)
	b.root(die(b, transform.New().Scale(0.8, 0.8, 0.8).RotateY(-math.Pi/8).Translate(-2, 0.8, 0).Matrix(), ivory, black))

	// Lens: the overlap of two offset spheres
	lensMat := b.material(
		material.WithColor(core.NewColor(0.1, 0.1, 0.15)),
		material.WithDiffuse(0.1),
		material.WithSpecular(1),
		material.WithShininess(300),
		material.WithReflective(0.8),
		material.WithTransparency(0.8),
		material.WithRefractiveIndex(material.Glass),
	)
	l1 := b.store(geometry.NewSphere(transform.Translation(0, 0, -0.7), lensMat))
	l2 := b.store(geometry.NewSphere(transform.Translation(0, 0, 0.7), lensMat))
	b.root(b.csg(geometry.CSGIntersection, l1, l2, transform.New().RotateY(math.Pi/6).Translate(0, 1, 0).Matrix()))

	// Tube: a closed cylinder minus a thinner one, unioned with a cap ring
	red := b.material(
		material.WithColor(core.NewColor(0.8, 0.2, 0.15)),
		material.WithSpecular(0.5),
	)
	outer := b.store(geometry.NewCylinder(transform.Scaling(0.7, 1, 0.7), red, 0, 1.6, true))
	inner := b.store(geometry.NewCylinder(transform.Scaling(0.5, 1, 0.5), red, -1, 3, true))
	tube := b.csg(geometry.CSGDifference, outer, inner, core.Identity())
	base := b.store(geometry.NewCube(transform.New().Scale(0.9, 0.1, 0.9).Translate(0, 0.1, 0).Matrix(), red))
	b.root(b.csg(geometry.CSGUnion, tube, base, transform.Translation(2.2, 0, 0.4)))

	b.light(core.Point(-5, 9, -8), core.White)
	if b.err != nil {
		return nil, b.err
	}
	s, err := newScene("csg", world, defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, err
	}
	s.MaxDepth = 6
	return s, nil
}
