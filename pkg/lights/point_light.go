package lights

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidLight is returned for lights with a non-point position or negative intensity
var ErrInvalidLight = errors.New("invalid light")

// PointLight is an infinitely small light source with no size
type PointLight struct {
	Position  core.Tuple // Must be a point
	Intensity core.Color // Brightness and color; each channel >= 0
}

// NewPointLight creates a point light, validating its parameters
func NewPointLight(position core.Tuple, intensity core.Color) (PointLight, error) {
	if !position.IsPoint() {
		return PointLight{}, fmt.Errorf("%w: position %v is not a point", ErrInvalidLight, position)
	}
	if intensity.R < 0 || intensity.G < 0 || intensity.B < 0 {
		return PointLight{}, fmt.Errorf("%w: negative intensity %v", ErrInvalidLight, intensity)
	}
	return PointLight{Position: position, Intensity: intensity}, nil
}

// DistanceTo returns the distance from p to the light
func (l PointLight) DistanceTo(p core.Tuple) float64 {
	return l.Position.Subtract(p).Magnitude()
}
