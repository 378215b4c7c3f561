package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// WhittedIntegrator implements recursive Whitted ray tracing: Phong direct
// lighting with hard shadows plus perfect mirror reflection and refraction
type WhittedIntegrator struct {
	options Options
}

// NewWhittedIntegrator creates a new Whitted integrator. A non-positive
// MaxDepth disables reflection and refraction entirely.
func NewWhittedIntegrator(options Options) *WhittedIntegrator {
	return &WhittedIntegrator{options: options}
}

// Options returns the integrator configuration
func (wi *WhittedIntegrator) Options() Options {
	return wi.options
}

// RayColor computes the color for ray using the configured depth
func (wi *WhittedIntegrator) RayColor(ray core.Ray, world *scene.World) (core.Color, error) {
	return wi.ColorAt(world, ray, wi.options.MaxDepth)
}

// ColorAt returns the color seen along ray with the given recursion budget
func ColorAt(world *scene.World, ray core.Ray, remaining int) (core.Color, error) {
	return NewWhittedIntegrator(DefaultOptions()).ColorAt(world, ray, remaining)
}

// ColorAt returns the color seen along ray with the given recursion budget.
// Rays that hit nothing return the world background.
func (wi *WhittedIntegrator) ColorAt(world *scene.World, ray core.Ray, remaining int) (core.Color, error) {
	xs := world.Intersect(ray)
	hit, ok := xs.Hit()
	if !ok {
		return world.Background, nil
	}

	comps, err := PrepareComputations(world, hit, ray, xs)
	if err != nil {
		return core.Black, err
	}
	return wi.ShadeHit(world, comps, remaining)
}

// ShadeHit sums direct lighting from every light with the reflected and
// refracted contributions
func (wi *WhittedIntegrator) ShadeHit(world *scene.World, comps Computations, remaining int) (core.Color, error) {
	mat := world.Arena.Get(comps.Object).Material
	objectPoint := world.Arena.WorldToObject(comps.Object, comps.OverPoint)

	surface := core.Black
	for _, light := range world.Lights {
		shadowed := IsShadowed(world, comps.OverPoint, light)
		surface = surface.Add(material.Lighting(mat, objectPoint, light, comps.OverPoint, comps.EyeV, comps.NormalV, shadowed))
	}

	reflected, err := wi.ReflectedColor(world, comps, remaining)
	if err != nil {
		return core.Black, err
	}
	refracted, err := wi.RefractedColor(world, comps, remaining)
	if err != nil {
		return core.Black, err
	}

	if wi.options.Fresnel && mat.Reflective > 0 && mat.Transparency > 0 {
		reflectance := Schlick(comps)
		return surface.
			Add(reflected.Multiply(reflectance)).
			Add(refracted.Multiply(1 - reflectance)), nil
	}
	return surface.Add(reflected).Add(refracted), nil
}

// ReflectedColor traces the mirror ray from the hit point
func (wi *WhittedIntegrator) ReflectedColor(world *scene.World, comps Computations, remaining int) (core.Color, error) {
	reflective := world.Arena.Get(comps.Object).Material.Reflective
	if remaining <= 0 || reflective == 0 {
		return core.Black, nil
	}

	reflectRay := core.NewRay(comps.OverPoint, comps.ReflectV)
	c, err := wi.ColorAt(world, reflectRay, remaining-1)
	if err != nil {
		return core.Black, err
	}
	return c.Multiply(reflective), nil
}

// RefractedColor traces the transmitted ray through the hit surface using
// Snell's law. Total internal reflection contributes nothing.
func (wi *WhittedIntegrator) RefractedColor(world *scene.World, comps Computations, remaining int) (core.Color, error) {
	transparency := world.Arena.Get(comps.Object).Material.Transparency
	if remaining <= 0 || transparency == 0 {
		return core.Black, nil
	}

	nRatio := comps.N1 / comps.N2
	cosI := comps.EyeV.Dot(comps.NormalV)
	sin2T := nRatio * nRatio * (1 - cosI*cosI)
	if sin2T > 1 {
		return core.Black, nil
	}

	cosT := math.Sqrt(1 - sin2T)
	direction := comps.NormalV.Multiply(nRatio*cosI - cosT).Subtract(comps.EyeV.Multiply(nRatio))

	refractRay := core.NewRay(comps.UnderPoint, direction)
	c, err := wi.ColorAt(world, refractRay, remaining-1)
	if err != nil {
		return core.Black, err
	}
	return c.Multiply(transparency), nil
}

// IsShadowed reports whether anything lies between point and the light
func IsShadowed(world *scene.World, point core.Tuple, light lights.PointLight) bool {
	v := light.Position.Subtract(point)
	distance := v.Magnitude()
	direction, err := v.Normalize()
	if err != nil {
		return false
	}

	hit, ok := world.Intersect(core.NewRay(point, direction)).Hit()
	return ok && hit.T < distance
}

// Schlick approximates the Fresnel reflectance at the hit
func Schlick(comps Computations) float64 {
	cos := comps.EyeV.Dot(comps.NormalV)

	if comps.N1 > comps.N2 {
		n := comps.N1 / comps.N2
		sin2T := n * n * (1 - cos*cos)
		if sin2T > 1 {
			return 1
		}
		cos = math.Sqrt(1 - sin2T)
	}

	r0 := (comps.N1 - comps.N2) / (comps.N1 + comps.N2)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cos, 5)
}
