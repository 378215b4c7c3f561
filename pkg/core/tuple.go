package core

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidTuple is raised (via panic) when tuple arithmetic would
	// produce something that is neither a point nor a vector.
	ErrInvalidTuple = errors.New("tuple is neither a point nor a vector")
	// ErrZeroVector is returned when normalizing a vector of zero length.
	ErrZeroVector = errors.New("cannot normalize a zero-length vector")
)

// Tuple is a homogeneous 4-component value. W=1 marks a point, W=0 a vector.
type Tuple struct {
	X, Y, Z, W float64
}

// NewTuple creates a tuple with an explicit w component
func NewTuple(x, y, z, w float64) Tuple {
	return Tuple{X: x, Y: y, Z: z, W: w}
}

// Point creates a point (w=1)
func Point(x, y, z float64) Tuple {
	return Tuple{X: x, Y: y, Z: z, W: 1}
}

// Vector creates a vector (w=0)
func Vector(x, y, z float64) Tuple {
	return Tuple{X: x, Y: y, Z: z, W: 0}
}

// IsPoint reports whether the tuple is a point
func (t Tuple) IsPoint() bool {
	return t.W == 1
}

// IsVector reports whether the tuple is a vector
func (t Tuple) IsVector() bool {
	return t.W == 0
}

// Add returns t + other. Point+vector is a point, vector+vector is a vector;
// adding two points panics.
func (t Tuple) Add(other Tuple) Tuple {
	w := t.W + other.W
	if w != 0 && w != 1 {
		panic(fmt.Errorf("%w: cannot add %v and %v", ErrInvalidTuple, t, other))
	}
	return Tuple{t.X + other.X, t.Y + other.Y, t.Z + other.Z, w}
}

// Subtract returns t - other. Point-point is a vector, point-vector is a
// point, vector-vector is a vector; subtracting a point from a vector panics.
func (t Tuple) Subtract(other Tuple) Tuple {
	w := t.W - other.W
	if w != 0 && w != 1 {
		panic(fmt.Errorf("%w: cannot subtract %v from %v", ErrInvalidTuple, other, t))
	}
	return Tuple{t.X - other.X, t.Y - other.Y, t.Z - other.Z, w}
}

// Negate returns the opposite vector. Negating a point panics.
func (t Tuple) Negate() Tuple {
	if t.W != 0 {
		panic(fmt.Errorf("%w: cannot negate %v", ErrInvalidTuple, t))
	}
	return Tuple{-t.X, -t.Y, -t.Z, 0}
}

// Multiply scales every component, including w
func (t Tuple) Multiply(scalar float64) Tuple {
	return Tuple{t.X * scalar, t.Y * scalar, t.Z * scalar, t.W * scalar}
}

// Divide divides every component, including w
func (t Tuple) Divide(scalar float64) Tuple {
	return Tuple{t.X / scalar, t.Y / scalar, t.Z / scalar, t.W / scalar}
}

// Magnitude returns the length of the tuple
func (t Tuple) Magnitude() float64 {
	return math.Sqrt(t.X*t.X + t.Y*t.Y + t.Z*t.Z + t.W*t.W)
}

// Normalize returns a unit tuple in the same direction.
// Returns ErrZeroVector when the magnitude is zero.
func (t Tuple) Normalize() (Tuple, error) {
	m := t.Magnitude()
	if m == 0 || math.IsNaN(m) {
		return Tuple{}, ErrZeroVector
	}
	return Tuple{t.X / m, t.Y / m, t.Z / m, t.W / m}, nil
}

// Dot returns the dot product of two tuples
func (t Tuple) Dot(other Tuple) float64 {
	return t.X*other.X + t.Y*other.Y + t.Z*other.Z + t.W*other.W
}

// Cross returns the cross product of two vectors. The result is always a vector.
func (t Tuple) Cross(other Tuple) Tuple {
	return Vector(
		t.Y*other.Z-t.Z*other.Y,
		t.Z*other.X-t.X*other.Z,
		t.X*other.Y-t.Y*other.X,
	)
}

// Reflect reflects the vector around the given normal: v - n*2*(v·n)
func (t Tuple) Reflect(normal Tuple) Tuple {
	return t.Subtract(normal.Multiply(2 * t.Dot(normal)))
}

// Equal compares two tuples component-wise within Epsilon
func (t Tuple) Equal(other Tuple) bool {
	return FloatEqual(t.X, other.X) &&
		FloatEqual(t.Y, other.Y) &&
		FloatEqual(t.Z, other.Z) &&
		FloatEqual(t.W, other.W)
}

// String formats the tuple as point(x, y, z) or vector(x, y, z)
func (t Tuple) String() string {
	switch {
	case t.IsPoint():
		return fmt.Sprintf("point(%g, %g, %g)", t.X, t.Y, t.Z)
	case t.IsVector():
		return fmt.Sprintf("vector(%g, %g, %g)", t.X, t.Y, t.Z)
	default:
		return fmt.Sprintf("tuple(%g, %g, %g, %g)", t.X, t.Y, t.Z, t.W)
	}
}
