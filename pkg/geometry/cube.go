package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// intersectCube intersects an object-space ray with the cube spanning -1..1
// using the slab method
func intersectCube(h Handle, ray core.Ray, xs Intersections) Intersections {
	xtmin, xtmax := checkAxis(ray.Origin.X, ray.Direction.X, -1, 1)
	ytmin, ytmax := checkAxis(ray.Origin.Y, ray.Direction.Y, -1, 1)
	ztmin, ztmax := checkAxis(ray.Origin.Z, ray.Direction.Z, -1, 1)

	tmin := math.Max(xtmin, math.Max(ytmin, ztmin))
	tmax := math.Min(xtmax, math.Min(ytmax, ztmax))
	if tmin > tmax {
		return xs
	}
	return append(xs, NewIntersection(tmin, h), NewIntersection(tmax, h))
}

// checkAxis returns where the ray enters and leaves the slab [min, max] on one axis
func checkAxis(origin, direction, min, max float64) (float64, float64) {
	if math.Abs(direction) < core.Epsilon {
		// Parallel: either always inside the slab or never
		if origin < min || origin > max {
			return math.Inf(1), math.Inf(-1)
		}
		return math.Inf(-1), math.Inf(1)
	}

	tmin := (min - origin) / direction
	tmax := (max - origin) / direction
	if tmin > tmax {
		tmin, tmax = tmax, tmin
	}
	return tmin, tmax
}

// cubeNormal picks the face whose axis has the largest absolute component
func cubeNormal(p core.Tuple) core.Tuple {
	ax, ay, az := math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z)
	maxc := math.Max(ax, math.Max(ay, az))

	switch maxc {
	case ax:
		return core.Vector(p.X, 0, 0)
	case ay:
		return core.Vector(0, p.Y, 0)
	}
	return core.Vector(0, 0, p.Z)
}
