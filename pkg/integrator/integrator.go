package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color seen along ray. An error means the
	// color could not be computed (for example a degenerate surface normal).
	RayColor(ray core.Ray, world *scene.World) (core.Color, error)
}

// DefaultMaxDepth is the number of reflection and refraction bounces
// followed when no depth is configured
const DefaultMaxDepth = 5

// Options configures the Whitted integrator
type Options struct {
	MaxDepth int  // Recursion budget for reflected and refracted rays
	Fresnel  bool // Weight reflection and refraction by Schlick reflectance
}

// DefaultOptions returns depth 5 without Fresnel weighting
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}
