package renderer

import (
	"context"

	"github.com/df07/go-whitted-raytracer/pkg/canvas"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Render draws the whole image with every pass and returns the final canvas
func Render(ctx context.Context, world *scene.World, camera *geometry.Camera, config Config, logger core.Logger) (*canvas.Canvas, RenderStats, error) {
	pr, err := NewProgressiveRaytracer(world, camera, config, logger)
	if err != nil {
		return nil, RenderStats{}, err
	}

	var (
		img   *canvas.Canvas
		stats RenderStats
	)
	for pass := 1; pass <= pr.totalPasses(); pass++ {
		img, stats, err = pr.RenderPass(ctx, pass, nil)
		if err != nil {
			return nil, stats, err
		}
	}
	return img, stats, nil
}

// RenderScene renders a built scene with its own recursion depth
func RenderScene(ctx context.Context, s *scene.Scene, config Config, logger core.Logger) (*canvas.Canvas, RenderStats, error) {
	if s.MaxDepth > 0 {
		config.MaxDepth = s.MaxDepth
	}
	return Render(ctx, s.World, s.Camera, config, logger)
}
