package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// UVMapping projects a pattern-space point onto (u, v) in [0, 1)
type UVMapping int

const (
	PlanarMap      UVMapping = iota // u from x, v from z, repeating each unit
	SphericalMap                    // longitude/latitude around the origin
	CylindricalMap                  // angle around y, v repeating along y
)

// Map returns the (u, v) coordinates for p
func (m UVMapping) Map(p core.Tuple) (float64, float64) {
	switch m {
	case SphericalMap:
		theta := math.Atan2(p.X, p.Z)
		radius := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		if radius == 0 {
			return 0.5, 0.5
		}
		phi := math.Acos(p.Y / radius)
		u := 1 - (theta/(2*math.Pi) + 0.5)
		v := 1 - phi/math.Pi
		return u, v
	case CylindricalMap:
		theta := math.Atan2(p.X, p.Z)
		u := 1 - (theta/(2*math.Pi) + 0.5)
		return u, wrap01(p.Y)
	default:
		return wrap01(p.X), wrap01(p.Z)
	}
}

// ImageTexture provides color from a 2D image mapped onto the surface
type ImageTexture struct {
	Transformed
	Width   int
	Height  int
	Pixels  []core.Color // Row-major: Pixels[y*Width + x]
	Mapping UVMapping
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Color, mapping UVMapping) *ImageTexture {
	return &ImageTexture{
		Width:   width,
		Height:  height,
		Pixels:  pixels,
		Mapping: mapping,
	}
}

// Local samples the texture using nearest-neighbor filtering
func (t *ImageTexture) Local(p core.Tuple) core.Color {
	if t.Width == 0 || t.Height == 0 {
		return core.Black
	}
	u, v := t.Mapping.Map(p)

	// V=0 is bottom, V=1 is top (flip V for image coordinates where origin is top-left)
	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))

	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)

	return t.Pixels[y*t.Width+x]
}

func wrap01(x float64) float64 {
	return x - math.Floor(x)
}
