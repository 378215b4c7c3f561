package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// intersectPlane intersects an object-space ray with the xz plane
func intersectPlane(h Handle, ray core.Ray, xs Intersections) Intersections {
	// Parallel or coplanar rays never register a hit
	if math.Abs(ray.Direction.Y) < core.Epsilon {
		return xs
	}
	t := -ray.Origin.Y / ray.Direction.Y
	return append(xs, NewIntersection(t, h))
}

func planeBounds() core.Bounds {
	inf := math.Inf(1)
	return core.NewBounds(core.Point(-inf, 0, -inf), core.Point(inf, 0, inf))
}
