package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidMaterial is returned when a material parameter is out of range
var ErrInvalidMaterial = errors.New("invalid material")

// Common refractive indices
const (
	Vacuum  = 1.0
	Air     = 1.00029
	Water   = 1.333
	Glass   = 1.52
	Diamond = 2.417
)

// Material holds the Phong surface attributes of a shape
type Material struct {
	Color           core.Color
	Ambient         float64 // >= 0
	Diffuse         float64 // >= 0
	Specular        float64 // >= 0
	Shininess       float64 // >= 0
	Reflective      float64 // [0, 1]
	Transparency    float64 // [0, 1]
	RefractiveIndex float64 // > 0
	Pattern         Pattern // Optional; overrides Color when set
}

// Default returns the standard white material
func Default() Material {
	return Material{
		Color:           core.White,
		Ambient:         0.1,
		Diffuse:         0.9,
		Specular:        0.9,
		Shininess:       200,
		Reflective:      0,
		Transparency:    0,
		RefractiveIndex: Vacuum,
	}
}

// Option modifies a material under construction
type Option func(*Material)

// WithColor sets the surface color
func WithColor(c core.Color) Option { return func(m *Material) { m.Color = c } }

// WithAmbient sets the ambient coefficient
func WithAmbient(v float64) Option { return func(m *Material) { m.Ambient = v } }

// WithDiffuse sets the diffuse coefficient
func WithDiffuse(v float64) Option { return func(m *Material) { m.Diffuse = v } }

// WithSpecular sets the specular coefficient
func WithSpecular(v float64) Option { return func(m *Material) { m.Specular = v } }

// WithShininess sets the specular exponent
func WithShininess(v float64) Option { return func(m *Material) { m.Shininess = v } }

// WithReflective sets the fraction of light reflected, in [0, 1]
func WithReflective(v float64) Option { return func(m *Material) { m.Reflective = v } }

// WithTransparency sets the fraction of light transmitted, in [0, 1]
func WithTransparency(v float64) Option { return func(m *Material) { m.Transparency = v } }

// WithRefractiveIndex sets the index of refraction
func WithRefractiveIndex(v float64) Option { return func(m *Material) { m.RefractiveIndex = v } }

// WithPattern colors the surface with p instead of Color
func WithPattern(p Pattern) Option { return func(m *Material) { m.Pattern = p } }

// New builds a material from Default with the given options applied
func New(opts ...Option) (Material, error) {
	m := Default()
	for _, opt := range opts {
		opt(&m)
	}
	if err := m.Validate(); err != nil {
		return Material{}, err
	}
	return m, nil
}

// NewGlass returns a clear glass material
func NewGlass() Material {
	m := Default()
	m.Transparency = 1.0
	m.RefractiveIndex = 1.5
	return m
}

// Validate checks every parameter range
func (m Material) Validate() error {
	switch {
	case m.Ambient < 0:
		return fmt.Errorf("%w: ambient must be non-negative, got %f", ErrInvalidMaterial, m.Ambient)
	case m.Diffuse < 0:
		return fmt.Errorf("%w: diffuse must be non-negative, got %f", ErrInvalidMaterial, m.Diffuse)
	case m.Specular < 0:
		return fmt.Errorf("%w: specular must be non-negative, got %f", ErrInvalidMaterial, m.Specular)
	case m.Shininess < 0:
		return fmt.Errorf("%w: shininess must be non-negative, got %f", ErrInvalidMaterial, m.Shininess)
	case m.Reflective < 0 || m.Reflective > 1:
		return fmt.Errorf("%w: reflective must be in [0,1], got %f", ErrInvalidMaterial, m.Reflective)
	case m.Transparency < 0 || m.Transparency > 1:
		return fmt.Errorf("%w: transparency must be in [0,1], got %f", ErrInvalidMaterial, m.Transparency)
	case m.RefractiveIndex <= 0:
		return fmt.Errorf("%w: refractive index must be positive, got %f", ErrInvalidMaterial, m.RefractiveIndex)
	}
	return nil
}

// SurfaceColor returns the material color at an object-space point
func (m Material) SurfaceColor(objectPoint core.Tuple) core.Color {
	if m.Pattern == nil {
		return m.Color
	}
	return AtObject(m.Pattern, objectPoint)
}
