package renderer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func TestProgressiveSampleCalculation(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		passes   int
		expected []int
	}{
		// (50-1)/6 = 8 samples per middle pass, the final pass takes the rest
		{"seven passes", 50, 7, []int{1, 9, 17, 25, 33, 41, 50}},
		{"single pass", 8, 1, []int{8}},
		{"more passes than samples", 3, 10, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.SamplesPerPixel = tt.samples
			config.MaxPasses = tt.passes
			pr := &ProgressiveRaytracer{config: config}

			if got := pr.totalPasses(); got != len(tt.expected) {
				t.Fatalf("Expected %d passes, got %d", len(tt.expected), got)
			}
			for pass := 1; pass <= len(tt.expected); pass++ {
				if got := pr.getSamplesForPass(pass); got != tt.expected[pass-1] {
					t.Errorf("Pass %d: expected %d total samples, got %d", pass, tt.expected[pass-1], got)
				}
			}
		})
	}
}

func TestNewProgressiveRaytracer_Rejects(t *testing.T) {
	camera := newTestCamera(t, 4, 4)
	if _, err := NewProgressiveRaytracer(nil, camera, DefaultConfig(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for nil world, got %v", err)
	}

	config := DefaultConfig()
	config.TileSize = 0
	if _, err := NewProgressiveRaytracer(scene.DefaultWorld(), camera, config, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for bad tile size, got %v", err)
	}
}

func TestRenderPass_MatchesBook(t *testing.T) {
	pr, err := NewProgressiveRaytracer(scene.DefaultWorld(), newTestCamera(t, 11, 11), testConfig(3, 4), NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]bool)
	img, stats, err := pr.RenderPass(context.Background(), 1, func(result TileCompletionResult) {
		if result.TotalTiles != 9 || result.PassNumber != 1 || result.TotalPasses != 1 {
			t.Errorf("Unexpected tile result %+v", result)
		}
		if seen[result.TileNumber] {
			t.Errorf("Tile number %d reported twice", result.TileNumber)
		}
		seen[result.TileNumber] = true
		if result.TileImage.Bounds().Dx() != result.Bounds.Dx() || result.TileImage.Bounds().Min.X != 0 {
			t.Errorf("Tile image bounds %v do not match tile %v", result.TileImage.Bounds(), result.Bounds)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 9 {
		t.Errorf("Expected 9 tile callbacks, got %d", len(seen))
	}
	if stats.TotalPixels != 121 || stats.TotalSamples != 121 || stats.ErrorPixels != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	c, err := img.PixelAt(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	expectColor(t, c, bookCenter, 1e-4)
}

func TestRender_IndependentOfWorkers(t *testing.T) {
	world := scene.DefaultWorld()
	camera := newTestCamera(t, 23, 17)

	config := testConfig(1, 64)
	config.SamplesPerPixel = 4
	config.MaxPasses = 2
	serial, _, err := Render(context.Background(), world, camera, config, nil)
	if err != nil {
		t.Fatal(err)
	}

	config = testConfig(8, 5)
	config.SamplesPerPixel = 4
	config.MaxPasses = 2
	parallel, stats, err := Render(context.Background(), world, camera, config, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.AverageSamples != 4 {
		t.Errorf("Expected 4 samples per pixel, got %v", stats.AverageSamples)
	}

	for y := range 17 {
		for x := range 23 {
			a, _ := serial.PixelAt(x, y)
			b, _ := parallel.PixelAt(x, y)
			if a != b {
				t.Fatalf("Pixel (%d, %d) differs: %v vs %v", x, y, a, b)
			}
		}
	}
}

func TestRenderPass_ErrorPolicies(t *testing.T) {
	t.Run("fail fast", func(t *testing.T) {
		rt := NewRaytracer(scene.NewWorld(), newTestCamera(t, 8, 8), upperHalfFails{})
		pr, err := newProgressiveRaytracer(rt, testConfig(4, 2), NewNopLogger())
		if err != nil {
			t.Fatal(err)
		}
		_, _, err = pr.RenderPass(context.Background(), 1, nil)
		if !errors.Is(err, errShading) {
			t.Fatalf("Expected shading error, got %v", err)
		}
		if !strings.Contains(err.Error(), "pixel (") {
			t.Errorf("Error should name the pixel: %v", err)
		}
	})

	t.Run("paint magenta", func(t *testing.T) {
		config := testConfig(4, 2)
		config.ErrorPolicy = PaintMagenta
		rt := NewRaytracer(scene.NewWorld(), newTestCamera(t, 8, 8), upperHalfFails{})
		pr, err := newProgressiveRaytracer(rt, config, NewNopLogger())
		if err != nil {
			t.Fatal(err)
		}
		img, stats, err := pr.RenderPass(context.Background(), 1, nil)
		if err != nil {
			t.Fatal(err)
		}
		if stats.ErrorPixels != 32 {
			t.Errorf("Expected 32 error pixels, got %d", stats.ErrorPixels)
		}
		top, _ := img.PixelAt(3, 0)
		bottom, _ := img.PixelAt(3, 7)
		if top != core.Magenta || bottom != core.White {
			t.Errorf("Expected magenta over white, got %v over %v", top, bottom)
		}
	})
}

func TestRenderPass_Cancelled(t *testing.T) {
	pr, err := NewProgressiveRaytracer(scene.DefaultWorld(), newTestCamera(t, 16, 16), testConfig(2, 4), NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := pr.RenderPass(ctx, 1, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRenderProgressive(t *testing.T) {
	config := testConfig(2, 4)
	config.SamplesPerPixel = 4
	config.MaxPasses = 3
	pr, err := NewProgressiveRaytracer(scene.DefaultWorld(), newTestCamera(t, 11, 11), config, NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}

	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), RenderOptions{TileUpdates: true})

	var passes []PassResult
	for result := range passChan {
		passes = append(passes, result)
	}
	if err := <-errChan; err != nil {
		t.Fatal(err)
	}
	tiles := 0
	for range tileChan {
		tiles++
	}

	if len(passes) != 3 {
		t.Fatalf("Expected 3 passes, got %d", len(passes))
	}
	for i, p := range passes {
		if p.PassNumber != i+1 || p.IsLast != (i == 2) {
			t.Errorf("Pass %d: unexpected result number=%d last=%v", i, p.PassNumber, p.IsLast)
		}
	}
	if passes[2].Stats.AverageSamples != 4 {
		t.Errorf("Expected 4 samples after the last pass, got %v", passes[2].Stats.AverageSamples)
	}
	if tiles != 27 {
		t.Errorf("Expected 27 tile events, got %d", tiles)
	}
}

func TestRenderProgressive_WithoutTiles(t *testing.T) {
	pr, err := NewProgressiveRaytracer(scene.DefaultWorld(), newTestCamera(t, 6, 6), testConfig(2, 4), NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), RenderOptions{})
	if _, ok := <-tileChan; ok {
		t.Error("Tile channel should be closed when tile updates are off")
	}
	count := 0
	for range passChan {
		count++
	}
	if err := <-errChan; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected a single pass, got %d", count)
	}
}

func BenchmarkRenderDefaultWorld(b *testing.B) {
	world := scene.DefaultWorld()
	camera := newTestCamera(b, 64, 64)
	config := testConfig(0, 16)
	for b.Loop() {
		if _, _, err := Render(context.Background(), world, camera, config, nil); err != nil {
			b.Fatal(err)
		}
	}
}
