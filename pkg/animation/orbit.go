package animation

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// ErrInvalidOrbit is returned for orbit settings that cannot produce frames
var ErrInvalidOrbit = errors.New("invalid orbit")

// OrbitConfig describes a camera sweep around the look-at point
type OrbitConfig struct {
	Frames    int     // Number of frames to produce
	FPS       int     // Playback rate; also the spring's time step
	Degrees   float64 // Total sweep around the vertical axis
	Frequency float64 // Spring angular frequency
	Damping   float64 // Spring damping ratio (1 is critically damped)
}

// DefaultOrbitConfig returns a full turn in 36 frames
func DefaultOrbitConfig() OrbitConfig {
	return OrbitConfig{
		Frames:    36,
		FPS:       12,
		Degrees:   360,
		Frequency: 6.0,
		Damping:   1.0,
	}
}

// Validate reports settings that cannot produce an orbit
func (c OrbitConfig) Validate() error {
	if c.Frames < 1 {
		return fmt.Errorf("%w: frames must be at least 1, got %d", ErrInvalidOrbit, c.Frames)
	}
	if c.FPS < 1 {
		return fmt.Errorf("%w: fps must be at least 1, got %d", ErrInvalidOrbit, c.FPS)
	}
	if c.Frequency <= 0 || c.Damping <= 0 {
		return fmt.Errorf("%w: spring frequency and damping must be positive", ErrInvalidOrbit)
	}
	return nil
}

// Angles returns the camera yaw in degrees for every frame. A spring chases a
// target that advances linearly, so the camera eases in and trails slightly
// behind; the final frame lands exactly on the full sweep.
func (c OrbitConfig) Angles() []float64 {
	angles := make([]float64, c.Frames)
	if c.Frames == 1 {
		return angles
	}

	spring := harmonica.NewSpring(harmonica.FPS(c.FPS), c.Frequency, c.Damping)
	var pos, vel float64
	for i := 1; i < c.Frames; i++ {
		target := c.Degrees * float64(i) / float64(c.Frames-1)
		pos, vel = spring.Update(pos, vel, target)
		angles[i] = pos
	}
	angles[c.Frames-1] = c.Degrees
	return angles
}

// OrbitCamera rotates the eye of base around its look-at point about the
// vertical axis by degrees
func OrbitCamera(base geometry.CameraConfig, degrees float64) geometry.CameraConfig {
	offset := base.Center.Subtract(base.LookAt)
	rotated := transform.RotationY(degrees * math.Pi / 180).MultiplyTuple(offset)

	cfg := base
	cfg.Center = base.LookAt.Add(rotated)
	return cfg
}

// Frame is one rendered frame of an orbit
type Frame struct {
	Index int
	Angle float64
	Image *image.RGBA
	Stats renderer.RenderStats
}

// RenderOrbit renders one frame per orbit angle of s. The callback, if
// non-nil, is invoked after each frame completes.
func RenderOrbit(ctx context.Context, s *scene.Scene, orbit OrbitConfig, config renderer.Config, logger core.Logger, onFrame func(Frame)) ([]Frame, error) {
	if err := orbit.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = renderer.NewNopLogger()
	}
	if s.MaxDepth > 0 {
		config.MaxDepth = s.MaxDepth
	}

	angles := orbit.Angles()
	frames := make([]Frame, 0, len(angles))
	for i, angle := range angles {
		camera, err := geometry.NewCameraFromConfig(OrbitCamera(s.CameraConfig, angle))
		if err != nil {
			return frames, fmt.Errorf("frame %d: %w", i, err)
		}

		c, stats, err := renderer.Render(ctx, s.World, camera, config, renderer.NewNopLogger())
		if err != nil {
			return frames, fmt.Errorf("frame %d: %w", i, err)
		}

		frame := Frame{Index: i, Angle: angle, Image: c.Image(), Stats: stats}
		frames = append(frames, frame)
		logger.Printf("Frame %d/%d at %.1f° (%d pixels)\n", i+1, len(angles), angle, stats.TotalPixels)
		if onFrame != nil {
			onFrame(frame)
		}
	}
	return frames, nil
}
