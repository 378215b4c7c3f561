package transform

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrDegenerateView is returned when from == to or up is parallel to the view direction
var ErrDegenerateView = errors.New("degenerate view transform")

// View orients the world relative to an eye at from looking towards to.
// The result maps world space to camera space.
func View(from, to, up core.Tuple) (core.Matrix, error) {
	forward, err := to.Subtract(from).Normalize()
	if err != nil {
		return core.Matrix{}, fmt.Errorf("%w: eye and target coincide", ErrDegenerateView)
	}
	upn, err := up.Normalize()
	if err != nil {
		return core.Matrix{}, fmt.Errorf("%w: zero up vector", ErrDegenerateView)
	}
	left := forward.Cross(upn)
	if left.Magnitude() < core.Epsilon {
		return core.Matrix{}, fmt.Errorf("%w: up is parallel to the view direction", ErrDegenerateView)
	}
	trueUp := left.Cross(forward)

	orientation := core.Matrix4([16]float64{
		left.X, left.Y, left.Z, 0,
		trueUp.X, trueUp.Y, trueUp.Z, 0,
		-forward.X, -forward.Y, -forward.Z, 0,
		0, 0, 0, 1,
	})
	return orientation.Multiply(Translation(-from.X, -from.Y, -from.Z)), nil
}
