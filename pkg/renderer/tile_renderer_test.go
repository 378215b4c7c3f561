package renderer

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func newPixelStats(width, height int) [][]PixelStats {
	stats := make([][]PixelStats, height)
	for y := range stats {
		stats[y] = make([]PixelStats, width)
	}
	return stats
}

func TestTileRenderer_RenderTileBounds(t *testing.T) {
	rt := NewRaytracer(scene.DefaultWorld(), newTestCamera(t, 11, 11), integrator.NewWhittedIntegrator(integrator.DefaultOptions()))
	tr := NewTileRenderer(rt, FailFast)
	pixelStats := newPixelStats(11, 11)

	bounds := image.Rect(4, 4, 7, 7)
	stats, err := tr.RenderTileBounds(context.Background(), bounds, pixelStats, 1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalPixels != 9 || stats.TotalSamples != 9 || stats.AverageSamples != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	expectColor(t, pixelStats[5][5].GetColor(), bookCenter, 1e-4)

	// Pixels outside the bounds are untouched
	if pixelStats[0][0].SampleCount != 0 || pixelStats[7][7].SampleCount != 0 {
		t.Error("Rendered outside the tile bounds")
	}
}

func TestTileRenderer_TopsUpSamples(t *testing.T) {
	rt := NewRaytracer(scene.DefaultWorld(), newTestCamera(t, 4, 4), integrator.NewWhittedIntegrator(integrator.DefaultOptions()))
	tr := NewTileRenderer(rt, FailFast)
	pixelStats := newPixelStats(4, 4)
	bounds := image.Rect(0, 0, 4, 4)

	if _, err := tr.RenderTileBounds(context.Background(), bounds, pixelStats, 2); err != nil {
		t.Fatal(err)
	}
	stats, err := tr.RenderTileBounds(context.Background(), bounds, pixelStats, 5)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSamples != 16*3 {
		t.Errorf("Expected 3 new samples per pixel, got %d total", stats.TotalSamples)
	}
	if pixelStats[2][2].SampleCount != 5 {
		t.Errorf("Expected 5 samples, got %d", pixelStats[2][2].SampleCount)
	}
}

func TestTileRenderer_ErrorPolicies(t *testing.T) {
	bounds := image.Rect(0, 0, 4, 4)

	t.Run("fail fast", func(t *testing.T) {
		tr := NewTileRenderer(NewRaytracer(scene.NewWorld(), newTestCamera(t, 4, 4), upperHalfFails{}), FailFast)
		_, err := tr.RenderTileBounds(context.Background(), bounds, newPixelStats(4, 4), 1)
		if !errors.Is(err, errShading) {
			t.Errorf("Expected shading error, got %v", err)
		}
	})

	t.Run("paint magenta", func(t *testing.T) {
		tr := NewTileRenderer(NewRaytracer(scene.NewWorld(), newTestCamera(t, 4, 4), upperHalfFails{}), PaintMagenta)
		pixelStats := newPixelStats(4, 4)
		stats, err := tr.RenderTileBounds(context.Background(), bounds, pixelStats, 1)
		if err != nil {
			t.Fatal(err)
		}
		if stats.ErrorPixels != 8 {
			t.Errorf("Expected 8 error pixels, got %d", stats.ErrorPixels)
		}
		if pixelStats[0][0].GetColor() != core.Magenta {
			t.Errorf("Failed pixel should be magenta, got %v", pixelStats[0][0].GetColor())
		}
		if pixelStats[3][0].GetColor() != core.White {
			t.Errorf("Lower pixel should be white, got %v", pixelStats[3][0].GetColor())
		}

		// Failed pixels are not retried on later passes
		again, err := tr.RenderTileBounds(context.Background(), bounds, pixelStats, 2)
		if err != nil {
			t.Fatal(err)
		}
		if again.ErrorPixels != 0 || again.TotalSamples != 8 {
			t.Errorf("Expected only the 8 good pixels to be sampled again, got %+v", again)
		}
	})
}

func TestTileRenderer_Cancelled(t *testing.T) {
	rt := NewRaytracer(scene.DefaultWorld(), newTestCamera(t, 4, 4), integrator.NewWhittedIntegrator(integrator.DefaultOptions()))
	tr := NewTileRenderer(rt, FailFast)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := tr.RenderTileBounds(ctx, image.Rect(0, 0, 4, 4), newPixelStats(4, 4), 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if stats.TotalSamples != 0 {
		t.Errorf("Expected no samples after cancellation, got %d", stats.TotalSamples)
	}
}

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
	}{
		{"exact fit", 128, 128, 64, 4},
		{"partial edge", 100, 50, 64, 2},
		{"single tile", 10, 10, 64, 1},
		{"tiny tiles", 11, 11, 4, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			// Tiles cover every pixel exactly once
			covered := make([]int, tt.width*tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Tile %d has ID %d", i, tile.ID)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						covered[y*tt.width+x]++
					}
				}
			}
			for i, n := range covered {
				if n != 1 {
					t.Fatalf("Pixel %d covered %d times", i, n)
				}
			}
		})
	}
}
