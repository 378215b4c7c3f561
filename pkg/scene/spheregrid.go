package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
	"github.com/lucasb-eyer/go-colorful"
)

// gridColor converts OKLCH to a displayable color
// l: lightness (0-1), c: chroma (0-0.4), h: hue (0-360 degrees)
func gridColor(l, c, h float64) core.Color {
	rgb := colorful.OkLch(l, c, h).Clamped()
	return core.NewColor(rgb.R, rgb.G, rgb.B)
}

// NewSphereGridScene creates a grid of reflective spheres collected in one
// group and divided into a bounding hierarchy
func NewSphereGridScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.Point(4.5, 6, -9),
		LookAt: core.Point(4.5, 0.8, 4.5),
		Up:     core.Vector(0, 1, 0),
		Width:  640,
		Height: 360,
		VFov:   40,
	}

	world := NewWorld()
	world.Background = core.NewColor(0.5, 0.7, 1.0)
	b := &shapeBuilder{world: world}

	b.add(NewGroundPlane(0, b.material(
		material.WithColor(core.NewColor(0.5, 0.5, 0.5)),
		material.WithSpecular(0),
	)))

	grid := b.store(geometry.NewGroup(core.Identity()))

	gridSize := 20

	// Fit the grid into roughly 9x9 units
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := range gridSize {
		for j := range gridSize {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5

			// Hue varies across x, chroma across z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			sphere := b.store(geometry.NewSphere(
				transform.New().Scale(radius, radius, radius).Translate(x, radius, z).Matrix(),
				b.material(
					material.WithColor(gridColor(lightness, chroma, hue)),
					material.WithDiffuse(0.6),
					material.WithSpecular(0.6),
					material.WithShininess(100+100*float64((i+j)%3)),
					material.WithReflective(0.3),
				),
			))
			b.attach(grid, sphere)
		}
	}
	b.root(grid)
	if b.err != nil {
		return nil, b.err
	}
	world.Arena.Divide(grid, geometry.DefaultLeafThreshold)

	b.light(core.Point(20, 25, -20), core.NewColor(1, 0.96, 0.9))
	if b.err != nil {
		return nil, b.err
	}
	return newScene("spheregrid", world, defaultCameraConfig, cameraOverrides)
}
