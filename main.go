// Command raytracer renders Whitted-style ray traced scenes to image files,
// animated GIFs, the terminal, or a browser over server-sent events.
package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/animation"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/preview"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
	"github.com/spf13/cobra"
)

// options holds the flags shared by every rendering command
type options struct {
	scenesDir   string
	width       int
	height      int
	samples     int
	passes      int
	depth       int
	workers     int
	tileSize    int
	fresnel     bool
	errorPolicy string
	quiet       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "raytracer",
		Short:         "Whitted ray tracer with Phong shading, reflection and refraction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.scenesDir, "scenes", "", "Directory of JSON scene files (default: ./scenes or ../scenes)")
	flags.IntVarP(&opts.width, "width", "W", 0, "Image width (default: the scene's)")
	flags.IntVarP(&opts.height, "height", "H", 0, "Image height (default: the scene's)")
	flags.IntVarP(&opts.samples, "samples", "s", 1, "Samples per pixel")
	flags.IntVarP(&opts.passes, "passes", "p", 1, "Progressive passes the samples are spread over")
	flags.IntVarP(&opts.depth, "depth", "d", 0, "Reflection and refraction depth (default: the scene's)")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "Parallel workers (0 = CPU count)")
	flags.IntVar(&opts.tileSize, "tile", 64, "Tile size in pixels")
	flags.BoolVar(&opts.fresnel, "fresnel", false, "Weight reflection and refraction with Schlick's approximation")
	flags.StringVar(&opts.errorPolicy, "on-error", renderer.FailFast.String(), "Pixel error policy: fail-fast or paint-magenta")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress progress output")

	root.AddCommand(
		newRenderCmd(opts),
		newAnimateCmd(opts),
		newPreviewCmd(opts),
		newServeCmd(opts),
		newScenesCmd(opts),
	)
	return root
}

func newRenderCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Render a scene to an image file",
		Long: "Render a built-in scene, a file:<name> scene from the scenes directory, a JSON scene file,\n" +
			"or a .ply/.glb model. The format follows the output extension: png, ppm, bmp or tiff.\n" +
			"Without --output the image goes to output/<scene>/render_<timestamp>.png.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd.OutOrStdout())
			s, err := createScene(args[0], opts, logger)
			if err != nil {
				return err
			}
			config, err := opts.config(s)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = defaultOutputPath(s.Name, time.Now())
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			startTime := time.Now()
			img, stats, err := renderer.Render(cmd.Context(), s.World, s.Camera, config, logger)
			if err != nil {
				return err
			}
			logger.Printf("Render completed in %v\n", time.Since(startTime))
			logger.Printf("%d pixels, %.1f samples per pixel, %d failed\n",
				stats.TotalPixels, stats.AverageSamples, stats.ErrorPixels)

			if err := img.Save(path); err != nil {
				return err
			}
			logger.Printf("Render saved as %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image path")
	return cmd
}

func newAnimateCmd(opts *options) *cobra.Command {
	orbit := animation.DefaultOrbitConfig()
	var output string
	cmd := &cobra.Command{
		Use:   "animate <scene>",
		Short: "Render a camera orbit around a scene as an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd.OutOrStdout())
			s, err := createScene(args[0], opts, logger)
			if err != nil {
				return err
			}
			config, err := opts.config(s)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = filepath.Join("output", s.Name, fmt.Sprintf("orbit_%s.gif", time.Now().Format("20060102_150405")))
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			frames, err := animation.RenderOrbit(cmd.Context(), s, orbit, config, logger, nil)
			if err != nil {
				return err
			}
			if err := animation.SaveGIF(path, frames, orbit.FPS); err != nil {
				return err
			}
			logger.Printf("Animation saved as %s\n", path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "Output GIF path")
	f.IntVar(&orbit.Frames, "frames", orbit.Frames, "Number of frames")
	f.IntVar(&orbit.FPS, "fps", orbit.FPS, "Frames per second")
	f.Float64Var(&orbit.Degrees, "degrees", orbit.Degrees, "Total orbit angle")
	f.Float64Var(&orbit.Frequency, "spring-frequency", orbit.Frequency, "Camera spring angular frequency")
	f.Float64Var(&orbit.Damping, "spring-damping", orbit.Damping, "Camera spring damping ratio")
	return cmd
}

func newPreviewCmd(opts *options) *cobra.Command {
	var (
		once       bool
		cols, rows int
	)
	cmd := &cobra.Command{
		Use:   "preview <scene>",
		Short: "Show a scene in the terminal while it renders",
		Long: "Render a scene into the terminal using half-block characters. Tiles appear as they finish;\n" +
			"press q or escape to quit. With --once the finished image is printed instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if once {
				return previewOnce(cmd, opts, args[0], cols, rows)
			}
			return previewLive(cmd, opts, args[0])
		},
	}
	f := cmd.Flags()
	f.BoolVar(&once, "once", false, "Print the finished image instead of a live view")
	f.IntVar(&cols, "cols", 80, "Columns available with --once")
	f.IntVar(&rows, "rows", 24, "Rows available with --once")
	return cmd
}

func previewOnce(cmd *cobra.Command, opts *options, ref string, cols, rows int) error {
	logger := opts.logger(cmd.ErrOrStderr())
	s, err := createScene(ref, opts, logger)
	if err != nil {
		return err
	}
	config, err := opts.config(s)
	if err != nil {
		return err
	}
	img, _, err := renderer.Render(cmd.Context(), s.World, s.Camera, config, logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), preview.Render(img.Image(), cols, rows))
	return nil
}

func previewLive(cmd *cobra.Command, opts *options, ref string) error {
	s, err := createScene(ref, opts, renderer.NewNopLogger())
	if err != nil {
		return err
	}
	config, err := opts.config(s)
	if err != nil {
		return err
	}
	pr, err := renderer.NewProgressiveRaytracer(s.World, s.Camera, config, renderer.NewNopLogger())
	if err != nil {
		return err
	}

	live, ctx, err := preview.Start(cmd.Context())
	if err != nil {
		return err
	}
	defer live.Close()

	frame := image.NewRGBA(image.Rect(0, 0, s.Camera.HSize, s.Camera.VSize))
	passChan, tileChan, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})
	for passChan != nil || tileChan != nil || errChan != nil {
		select {
		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			draw.Draw(frame, tile.Bounds, tile.TileImage, image.Point{}, draw.Src)
			live.Show(frame, fmt.Sprintf("%s  pass %d/%d  tile %d/%d",
				s.Name, tile.PassNumber, tile.TotalPasses, tile.TileNumber, tile.TotalTiles))
		case result, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			draw.Draw(frame, frame.Bounds(), result.Image, image.Point{}, draw.Src)
			live.Show(frame, fmt.Sprintf("%s  pass %d/%d  %.1f samples/pixel  %d failed",
				s.Name, result.PassNumber, min(config.MaxPasses, config.SamplesPerPixel),
				result.Stats.AverageSamples, result.Stats.ErrorPixels))
		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}

	live.Show(frame, fmt.Sprintf("%s  done - press q to quit", s.Name))
	<-ctx.Done()
	return nil
}

func newServeCmd(opts *options) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the progressive web renderer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.NewServer(port, opts.resolveScenesDir()).Start()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to serve on")
	return cmd
}

func newScenesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			response, err := scene.ListAllScenes(opts.resolveScenesDir(), opts.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			for _, group := range response.Groups {
				fmt.Fprintf(out, "%s:\n", group.Name)
				for _, info := range group.Scenes {
					fmt.Fprintf(out, "  %-24s %s\n", info.ID, info.Description)
				}
			}
			return nil
		},
	}
}

// createScene resolves a scene reference with the size flags applied
func createScene(ref string, opts *options, logger core.Logger) (*scene.Scene, error) {
	override := geometry.CameraConfig{Width: opts.width, Height: opts.height}
	return loaders.ResolveScene(ref, opts.resolveScenesDir(), logger, override)
}

func (o *options) resolveScenesDir() string {
	if o.scenesDir != "" {
		return o.scenesDir
	}
	return scene.FindScenesDir()
}

// config builds renderer settings from the flags; a zero depth flag keeps
// the scene's recommended depth
func (o *options) config(s *scene.Scene) (renderer.Config, error) {
	policy, err := renderer.ParseErrorPolicy(o.errorPolicy)
	if err != nil {
		return renderer.Config{}, err
	}
	config := renderer.DefaultConfig()
	config.TileSize = o.tileSize
	config.Workers = o.workers
	config.SamplesPerPixel = o.samples
	config.MaxPasses = o.passes
	config.Fresnel = o.fresnel
	config.ErrorPolicy = policy
	switch {
	case o.depth > 0:
		config.MaxDepth = o.depth
	case s.MaxDepth > 0:
		config.MaxDepth = s.MaxDepth
	}
	return config, config.Validate()
}

func (o *options) logger(w io.Writer) core.Logger {
	if o.quiet {
		return renderer.NewNopLogger()
	}
	return renderer.NewWriterLogger(w)
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneName string, now time.Time) string {
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}
