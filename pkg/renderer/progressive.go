package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/canvas"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	width, height int
	config        Config
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	canvas        *canvas.Canvas // Image assembled from finished tiles
	workerPool    *WorkerPool    // Worker pool for parallel processing
	logger        core.Logger    // Logger for rendering output
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(world *scene.World, camera *geometry.Camera, config Config, logger core.Logger) (*ProgressiveRaytracer, error) {
	if world == nil || camera == nil {
		return nil, fmt.Errorf("%w: world and camera are required", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}

	raytracer := NewRaytracer(world, camera, integrator.NewWhittedIntegrator(config.integratorOptions()))
	return newProgressiveRaytracer(raytracer, config, logger)
}

// newProgressiveRaytracer sets up tiles and pixel state around an existing raytracer
func newProgressiveRaytracer(raytracer *Raytracer, config Config, logger core.Logger) (*ProgressiveRaytracer, error) {
	width, height := raytracer.Width(), raytracer.Height()
	img, err := canvas.New(width, height)
	if err != nil {
		return nil, err
	}

	// Initialize shared pixel statistics array (global image coordinates)
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &ProgressiveRaytracer{
		width:      width,
		height:     height,
		config:     config,
		tiles:      NewTileGrid(width, height, config.TileSize),
		pixelStats: pixelStats,
		canvas:     img,
		workerPool: NewWorkerPool(NewTileRenderer(raytracer, config.ErrorPolicy), config.Workers),
		logger:     logger,
	}, nil
}

// Canvas returns the image as of the last finished tile
func (pr *ProgressiveRaytracer) Canvas() *canvas.Canvas {
	return pr.canvas
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	maxSamples := pr.config.SamplesPerPixel
	passes := min(pr.config.MaxPasses, maxSamples)

	// Special case: if only 1 pass, use all samples
	if passes <= 1 || passNumber >= passes {
		return maxSamples
	}

	// First pass is a quick one-ray preview
	if passNumber == 1 {
		return 1
	}

	// Divide remaining samples evenly across remaining passes
	samplesPerPass := (maxSamples - 1) / (passes - 1)
	return 1 + (passNumber-1)*samplesPerPass
}

// totalPasses is the number of passes that add samples
func (pr *ProgressiveRaytracer) totalPasses() int {
	return min(pr.config.MaxPasses, pr.config.SamplesPerPixel)
}

// RenderPass renders a single progressive pass using parallel processing.
// Tile callbacks run on the calling goroutine in completion order.
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*canvas.Canvas, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.NumWorkers())

	tasks := make([]TileTask, len(pr.tiles))
	for i, tile := range pr.tiles {
		tasks[i] = TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        i,
			PixelStats:    pr.pixelStats,
		}
	}

	results := make(chan TileResult, len(tasks))
	done := make(chan error, 1)
	go func() {
		done <- pr.workerPool.Run(ctx, tasks, results)
		close(results)
	}()

	completed := 0
	for result := range results {
		tile := result.Tile
		tile.PassesCompleted++
		completed++
		if err := pr.copyTile(tile); err != nil {
			// Drain so the pool can finish
			for range results {
			}
			<-done
			return nil, RenderStats{}, err
		}

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / pr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / pr.config.TileSize,
				Bounds:     tile.Bounds,
				TileImage:  pr.canvas.SubImage(tile.Bounds),
				PassNumber: passNumber,

				TileNumber:  completed,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.totalPasses(),
			})
		}
	}
	if err := <-done; err != nil {
		return nil, RenderStats{}, err
	}

	return pr.canvas, pr.collectStats(targetSamples), nil
}

// copyTile writes the current pixel averages of a tile into the canvas
func (pr *ProgressiveRaytracer) copyTile(tile *Tile) error {
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			if err := pr.canvas.WritePixel(x, y, pr.pixelStats[y][x].GetColor()); err != nil {
				return err
			}
		}
	}
	return nil
}

// collectStats calculates render statistics from the shared pixel stats
func (pr *ProgressiveRaytracer) collectStats(targetSamples int) RenderStats {
	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
	}
	for y := range pr.height {
		for x := range pr.width {
			pixel := &pr.pixelStats[y][x]
			stats.TotalSamples += pixel.SampleCount
			if pixel.Failed {
				stats.ErrorPixels++
			}
		}
	}
	stats.finalize()
	return stats
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX, TileY int             // Tile coordinates (not pixel coordinates)
	Bounds       image.Rectangle // Pixel bounds of the tile
	TileImage    *image.RGBA     // Image data for just this tile
	PassNumber   int             // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders with channel-based communication.
// The caller should read from these channels in separate goroutines.
// If options.TileUpdates is false, the tile channel will be closed immediately and no tile events will be generated.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		passes := pr.totalPasses()
		pr.logger.Printf("Starting progressive rendering with %d passes...\n", passes)

		for pass := 1; pass <= passes; pass++ {
			if ctx.Err() != nil {
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Slow consumer; the pass image still carries this tile
					}
				}
			}

			img, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (%.1f samples/pixel, %d failed pixels)\n",
				pass, time.Since(startTime), stats.AverageSamples, stats.ErrorPixels)

			result := PassResult{
				PassNumber: pass,
				Image:      img.Image(),
				Stats:      stats,
				IsLast:     pass == passes,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}
