package renderer

import (
	"context"
	"image"
)

// TileRenderer shades the pixels of one tile into the shared pixel stats
type TileRenderer struct {
	raytracer *Raytracer
	policy    ErrorPolicy
}

// NewTileRenderer creates a new tile renderer around a raytracer
func NewTileRenderer(raytracer *Raytracer, policy ErrorPolicy) *TileRenderer {
	return &TileRenderer{
		raytracer: raytracer,
		policy:    policy,
	}
}

// RenderTileBounds brings every pixel within bounds up to targetSamples.
// Tiles never overlap, so concurrent calls with distinct bounds may share pixelStats.
// Cancellation is checked between pixels.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, bounds image.Rectangle, pixelStats [][]PixelStats, targetSamples int) (RenderStats, error) {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			samples, err := tr.samplePixel(i, j, &pixelStats[j][i], targetSamples)
			stats.TotalSamples += samples
			if err != nil {
				if tr.policy == FailFast {
					return stats, err
				}
				stats.ErrorPixels++
			}
		}
	}

	stats.finalize()
	return stats, nil
}

// samplePixel takes samples until the pixel reaches target. A failed pixel is
// marked and left alone by later passes.
func (tr *TileRenderer) samplePixel(i, j int, ps *PixelStats, target int) (int, error) {
	if ps.Failed {
		return 0, nil
	}
	initial := ps.SampleCount
	for ps.SampleCount < target {
		color, err := tr.raytracer.Sample(i, j, ps.SampleCount)
		if err != nil {
			ps.Failed = true
			return ps.SampleCount - initial, err
		}
		ps.AddSample(color)
	}
	return ps.SampleCount - initial, nil
}
