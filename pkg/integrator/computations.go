package integrator

import (
	"slices"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Computations holds the values derived from a hit that shading needs
type Computations struct {
	T      float64
	Object geometry.Handle

	Point      core.Tuple // World-space hit point
	OverPoint  core.Tuple // Point nudged along the normal, for shadow and reflection rays
	UnderPoint core.Tuple // Point nudged against the normal, for refraction rays
	EyeV       core.Tuple
	NormalV    core.Tuple // Always faces the eye
	ReflectV   core.Tuple
	Inside     bool // The normal was flipped because the eye is inside the object

	N1, N2 float64 // Refractive indices on the incoming and outgoing side
}

// PrepareComputations derives shading values for hit. xs must be the full
// sorted intersection list the hit came from; it is used to find which
// objects contain the hit point and so the refractive indices on each side.
func PrepareComputations(world *scene.World, hit geometry.Intersection, ray core.Ray, xs geometry.Intersections) (Computations, error) {
	point := ray.Position(hit.T)
	normal, err := world.Arena.NormalAt(hit.Object, point, hit)
	if err != nil {
		return Computations{}, err
	}

	comps := Computations{
		T:      hit.T,
		Object: hit.Object,
		Point:  point,
		EyeV:   ray.Direction.Negate(),
	}
	if normal.Dot(comps.EyeV) < 0 {
		comps.Inside = true
		normal = normal.Negate()
	}
	comps.NormalV = normal
	comps.ReflectV = ray.Direction.Reflect(normal)

	offset := normal.Multiply(core.Epsilon)
	comps.OverPoint = point.Add(offset)
	comps.UnderPoint = point.Subtract(offset)

	comps.N1, comps.N2 = refractiveIndices(world, hit, xs)
	return comps, nil
}

// refractiveIndices walks xs keeping the list of objects the ray is inside
func refractiveIndices(world *scene.World, hit geometry.Intersection, xs geometry.Intersections) (n1, n2 float64) {
	n1, n2 = 1.0, 1.0
	var containers []geometry.Handle

	outermost := func() float64 {
		if len(containers) == 0 {
			return 1.0
		}
		return world.Arena.Get(containers[len(containers)-1]).Material.RefractiveIndex
	}

	for _, x := range xs {
		if x == hit {
			n1 = outermost()
		}

		if i := slices.Index(containers, x.Object); i >= 0 {
			containers = slices.Delete(containers, i, i+1)
		} else {
			containers = append(containers, x.Object)
		}

		if x == hit {
			n2 = outermost()
			break
		}
	}
	return n1, n2
}
