package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// NewUVDebugTexture creates an image texture whose red channel follows u and
// green channel follows v, useful for checking a mapping
func NewUVDebugTexture(width, height int, mapping material.UVMapping) *material.ImageTexture {
	pixels := make([]core.Color, width*height)
	for y := range height {
		for x := range width {
			u := float64(x) / float64(width-1)
			v := 1 - float64(y)/float64(height-1)
			pixels[y*width+x] = core.NewColor(u, v, 0.2)
		}
	}
	return material.NewImageTexture(width, height, pixels, mapping)
}

// NewTextureTestScene creates a row of shapes, one per pattern type,
// standing on a checkered floor
func NewTextureTestScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.Point(0, 2.5, -10),
		LookAt: core.Point(0, 1, 0),
		Up:     core.Vector(0, 1, 0),
		Width:  640,
		Height: 360,
		VFov:   50,
	}

	world := NewWorld()
	world.Background = core.NewColor(0.1, 0.1, 0.15)
	b := &shapeBuilder{world: world}

	textured := func(p material.Pattern) material.Material {
		return b.material(
			material.WithPattern(p),
			material.WithDiffuse(0.8),
			material.WithSpecular(0.2),
		)
	}
	setTransform := func(p interface{ SetTransform(core.Matrix) error }, m core.Matrix) {
		if err := p.SetTransform(m); err != nil && b.err == nil {
			b.err = err
		}
	}

	floor := material.NewCheckers(core.NewColor(0.9, 0.9, 0.9), core.NewColor(0.2, 0.2, 0.8))
	b.add(NewGroundPlane(0, textured(floor)))

	// Sphere with tilted stripes
	stripes := material.NewStripe(core.NewColor(0.9, 0.3, 0.2), core.White)
	setTransform(stripes, transform.New().Scale(0.2, 1, 1).RotateZ(math.Pi/4).Matrix())
	b.add(geometry.NewSphere(transform.Translation(-6, 1, 0), textured(stripes)))

	// Cylinder with a gradient along x
	gradient := material.NewGradient(core.NewColor(1, 0.2, 0.2), core.NewColor(0.2, 1, 0.2))
	setTransform(gradient, transform.New().Scale(2, 1, 1).Translate(-1, 0, 0).Matrix())
	b.add(geometry.NewCylinder(
		transform.New().Scale(0.7, 1, 0.7).Translate(-3.6, 0, 0).Matrix(),
		textured(gradient), 0, 2, true,
	))

	// Cube with rings
	rings := material.NewRing(core.NewColor(0.5, 0.3, 0.1), core.NewColor(0.8, 0.6, 0.3))
	setTransform(rings, transform.Scaling(0.15, 0.15, 0.15))
	b.add(geometry.NewCube(
		transform.New().Scale(0.8, 0.8, 0.8).RotateY(math.Pi/5).Translate(-1.2, 0.8, 0).Matrix(),
		textured(rings),
	))

	// Sphere with a radial gradient blended with stripes in Lab space
	radial := material.NewRadialGradient(core.NewColor(0.1, 0.2, 0.9), core.NewColor(0.9, 0.9, 0.1))
	setTransform(radial, transform.Scaling(0.5, 0.5, 0.5))
	fine := material.NewStripe(core.NewColor(0.2, 0.8, 0.8), core.NewColor(0.8, 0.2, 0.8))
	setTransform(fine, transform.Scaling(0.1, 0.1, 0.1))
	blended := material.NewBlended(radial, fine)
	blended.Mode = material.BlendLab
	b.add(geometry.NewSphere(transform.Translation(1.2, 1, 0), textured(blended)))

	// Noise-perturbed checkers
	marble := material.NewCheckers(core.NewColor(0.95, 0.95, 0.9), core.NewColor(0.3, 0.3, 0.35))
	setTransform(marble, transform.Scaling(0.3, 0.3, 0.3))
	b.add(geometry.NewSphere(transform.Translation(3.6, 1, 0), textured(material.NewPerturbed(marble, 0.3, 42))))

	// UV debug image wrapped around a sphere
	b.add(geometry.NewSphere(
		transform.Translation(6, 1, 0),
		textured(NewUVDebugTexture(64, 32, material.SphericalMap)),
	))

	b.light(core.Point(-4, 10, -10), core.White)
	if b.err != nil {
		return nil, b.err
	}
	return newScene("patterns", world, defaultCameraConfig, cameraOverrides)
}
