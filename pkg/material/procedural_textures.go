package material

import (
	"github.com/aquilax/go-perlin"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/lucasb-eyer/go-colorful"
)

// BlendMode selects the color space Blended mixes in
type BlendMode int

const (
	BlendAverage BlendMode = iota // Plain per-channel interpolation
	BlendLab                      // Perceptual interpolation in CIE L*a*b*
	BlendHcl                      // Hue-preserving interpolation in HCL
)

// Blended mixes two sub-patterns at every point
type Blended struct {
	Transformed
	A, B   Pattern
	Weight float64 // 0 returns A, 1 returns B
	Mode   BlendMode
}

// NewBlended creates an even mix of two patterns
func NewBlended(a, b Pattern) *Blended {
	return &Blended{A: a, B: b, Weight: 0.5}
}

func (bl *Blended) Local(p core.Tuple) core.Color {
	a := AtObject(bl.A, p)
	b := AtObject(bl.B, p)

	switch bl.Mode {
	case BlendLab:
		return fromColorful(toColorful(a).BlendLab(toColorful(b), bl.Weight))
	case BlendHcl:
		return fromColorful(toColorful(a).BlendHcl(toColorful(b), bl.Weight).Clamped())
	default:
		return a.Multiply(1 - bl.Weight).Add(b.Multiply(bl.Weight))
	}
}

func toColorful(c core.Color) colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(c colorful.Color) core.Color {
	return core.NewColor(c.R, c.G, c.B)
}

// Perturbed jitters the lookup point of an inner pattern with 3-D Perlin noise
type Perturbed struct {
	Transformed
	Inner Pattern
	Scale float64 // Maximum displacement per axis
	noise *perlin.Perlin
}

// Noise parameters for Perturbed
const (
	perlinAlpha      = 2.0
	perlinBeta       = 2.0
	perlinIterations = 3
)

// NewPerturbed wraps inner with deterministic noise derived from seed
func NewPerturbed(inner Pattern, scale float64, seed int64) *Perturbed {
	return &Perturbed{
		Inner: inner,
		Scale: scale,
		noise: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinIterations, seed),
	}
}

func (pt *Perturbed) Local(p core.Tuple) core.Color {
	// offset the axes so the three displacements are decorrelated
	dx := pt.noise.Noise3D(p.X, p.Y, p.Z)
	dy := pt.noise.Noise3D(p.X+31.416, p.Y+47.853, p.Z+12.793)
	dz := pt.noise.Noise3D(p.X+73.156, p.Y+5.221, p.Z+91.337)

	jittered := core.Point(p.X+dx*pt.Scale, p.Y+dy*pt.Scale, p.Z+dz*pt.Scale)
	return AtObject(pt.Inner, jittered)
}
