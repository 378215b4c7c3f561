package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// ErrInvalidConfig is returned for render settings that cannot be used
var ErrInvalidConfig = errors.New("invalid render config")

// ErrorPolicy decides what happens when a pixel cannot be shaded
type ErrorPolicy int

const (
	// FailFast aborts the render and returns the first pixel error
	FailFast ErrorPolicy = iota
	// PaintMagenta paints failed pixels magenta and counts them in the stats
	PaintMagenta
)

func (p ErrorPolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case PaintMagenta:
		return "paint-magenta"
	}
	return fmt.Sprintf("ErrorPolicy(%d)", int(p))
}

// ParseErrorPolicy converts a policy name as printed by String
func ParseErrorPolicy(name string) (ErrorPolicy, error) {
	switch name {
	case "fail-fast":
		return FailFast, nil
	case "paint-magenta":
		return PaintMagenta, nil
	}
	return FailFast, fmt.Errorf("%w: unknown error policy %q", ErrInvalidConfig, name)
}

// Config contains configuration for rendering
type Config struct {
	TileSize        int         // Size of each square tile in pixels
	Workers         int         // Number of parallel workers (0 = use CPU count)
	MaxDepth        int         // Reflection and refraction recursion budget
	Fresnel         bool        // Weight reflection and refraction with Schlick's approximation
	SamplesPerPixel int         // Rays per pixel; 1 shoots a single ray through the pixel center
	MaxPasses       int         // Progressive passes the samples are spread over
	ErrorPolicy     ErrorPolicy // What to do when a pixel fails
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:        64,
		Workers:         0, // Auto-detect CPU count
		MaxDepth:        integrator.DefaultMaxDepth,
		SamplesPerPixel: 1,
		MaxPasses:       1,
		ErrorPolicy:     FailFast,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must be non-negative, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxPasses <= 0:
		return fmt.Errorf("%w: passes must be positive, got %d", ErrInvalidConfig, c.MaxPasses)
	case c.ErrorPolicy != FailFast && c.ErrorPolicy != PaintMagenta:
		return fmt.Errorf("%w: unknown error policy %d", ErrInvalidConfig, c.ErrorPolicy)
	}
	return nil
}

// integratorOptions maps the render settings onto the shading engine
func (c Config) integratorOptions() integrator.Options {
	return integrator.Options{MaxDepth: c.MaxDepth, Fresnel: c.Fresnel}
}
