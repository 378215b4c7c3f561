package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// modelHeight is the height a loaded model is scaled to
const modelHeight = 2.0

// NewModelScene places a loaded mesh on a floor, scaled to a fixed height and
// centered on the origin, with a camera and lights framed around it.
// The mesh is divided into a bounding hierarchy before rendering.
func NewModelScene(name string, mesh geometry.Mesh, logger core.Logger, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("%w: model %s has no faces", geometry.ErrInvalidShape, name)
	}

	bounds := core.NewBoundsFromPoints(mesh.Vertices...)
	size := bounds.Size()
	extent := math.Max(size.X, math.Max(size.Y, size.Z))
	if extent <= 0 || math.IsInf(extent, 0) || math.IsNaN(extent) {
		return nil, fmt.Errorf("%w: model %s has degenerate bounds", geometry.ErrInvalidShape, name)
	}
	scale := modelHeight / extent
	center := bounds.Center()

	// Center on x/z, rest on y=0
	fit := transform.New().
		Translate(-center.X, -bounds.Min.Y, -center.Z).
		Scale(scale, scale, scale).
		Matrix()

	world := NewWorld()
	world.Background = core.NewColor(0.5, 0.7, 1.0)
	b := &shapeBuilder{world: world}

	b.add(NewGroundPlane(0, b.material(
		material.WithColor(core.NewColor(0.6, 0.6, 0.6)),
		material.WithSpecular(0),
		material.WithReflective(0.1),
	)))

	gold := b.material(
		material.WithColor(core.NewColor(0.7, 0.5, 0.2)),
		material.WithDiffuse(0.6),
		material.WithSpecular(0.9),
		material.WithShininess(300),
		material.WithReflective(0.25),
	)
	if b.err != nil {
		return nil, b.err
	}

	h, skipped, err := world.Arena.AddMesh(mesh, fit, gold)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	if skipped > 0 {
		logger.Printf("Skipped %d degenerate faces in %s\n", skipped, name)
	}
	world.Arena.Divide(h, geometry.DefaultLeafThreshold)
	b.root(h)
	logger.Printf("Loaded %s: %d triangles\n", name, mesh.TriangleCount()-skipped)

	// Key light and a dim fill from the other side
	b.light(core.Point(4, 6, -5), core.NewColor(0.9, 0.85, 0.8))
	b.light(core.Point(-5, 3, -2), core.NewColor(0.25, 0.3, 0.35))
	if b.err != nil {
		return nil, b.err
	}

	fitted := size.Multiply(scale)
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.Point(0, fitted.Y*0.75, -modelHeight*2.2),
		LookAt: core.Point(0, fitted.Y*0.45, 0),
		Up:     core.Vector(0, 1, 0),
		Width:  600,
		Height: 600,
		VFov:   45,
	}
	return newScene(name, world, defaultCameraConfig, cameraOverrides)
}
