package core

import "math"

// Epsilon is the tolerance used for floating point comparisons and for
// nudging hit points off a surface.
const Epsilon = 0.00001

// DeterminantEpsilon is the smallest determinant magnitude for which a matrix
// is still considered invertible.
const DeterminantEpsilon = 1e-10

// FloatEqual reports whether a and b differ by less than Epsilon
func FloatEqual(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) < Epsilon
}
