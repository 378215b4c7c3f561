package core

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

// Generators keep coordinates in a range where Epsilon comparisons are meaningful

type anyPoint struct{ Tuple }

func (anyPoint) Generate(r *rand.Rand, _ int) reflect.Value {
	return reflect.ValueOf(anyPoint{Point(coord(r), coord(r), coord(r))})
}

type anyVector struct{ Tuple }

func (anyVector) Generate(r *rand.Rand, _ int) reflect.Value {
	return reflect.ValueOf(anyVector{Vector(coord(r), coord(r), coord(r))})
}

type anyMatrix struct{ Matrix }

func (anyMatrix) Generate(r *rand.Rand, _ int) reflect.Value {
	var values [16]float64
	for i := range values {
		values[i] = r.Float64()*20 - 10
	}
	return reflect.ValueOf(anyMatrix{Matrix4(values)})
}

func coord(r *rand.Rand) float64 {
	return r.Float64()*200 - 100
}

func quickConfig() *quick.Config {
	return &quick.Config{MaxCount: 500, Rand: rand.New(rand.NewSource(7))}
}

func check(t *testing.T, f any) {
	t.Helper()
	if err := quick.Check(f, quickConfig()); err != nil {
		t.Error(err)
	}
}

func TestTuple_TagLawsHoldForAll(t *testing.T) {
	t.Run("point plus vector is a point", func(t *testing.T) {
		check(t, func(p anyPoint, v anyVector) bool { return p.Add(v.Tuple).IsPoint() })
	})
	t.Run("vector plus vector is a vector", func(t *testing.T) {
		check(t, func(v, w anyVector) bool { return v.Add(w.Tuple).IsVector() })
	})
	t.Run("point minus point is a vector", func(t *testing.T) {
		check(t, func(p, q anyPoint) bool { return p.Subtract(q.Tuple).IsVector() })
	})
	t.Run("point minus vector is a point", func(t *testing.T) {
		check(t, func(p anyPoint, v anyVector) bool { return p.Subtract(v.Tuple).IsPoint() })
	})
	t.Run("adding then subtracting a vector restores the point", func(t *testing.T) {
		check(t, func(p anyPoint, v anyVector) bool { return p.Add(v.Tuple).Subtract(v.Tuple).Equal(p.Tuple) })
	})
	t.Run("point plus point panics", func(t *testing.T) {
		check(t, func(p, q anyPoint) (panicked bool) {
			defer func() { panicked = recover() != nil }()
			p.Add(q.Tuple)
			return false
		})
	})
}

func TestTuple_NormalizeHasUnitLengthForAll(t *testing.T) {
	check(t, func(v anyVector) bool {
		if v.Magnitude() == 0 {
			_, err := v.Normalize()
			return err != nil
		}
		n, err := v.Normalize()
		return err == nil && math.Abs(n.Magnitude()-1) < Epsilon && n.IsVector()
	})
}

func TestMatrix_TransposeIsAnInvolutionForAll(t *testing.T) {
	check(t, func(m anyMatrix) bool {
		return m.Transpose().Transpose() == m.Matrix
	})
}

func TestMatrix_InverseLawsHoldForAll(t *testing.T) {
	// Well away from singular so the comparison stays within Epsilon
	invertible := func(m Matrix) bool { return math.Abs(m.Determinant()) >= 1 }

	t.Run("matrix times inverse is identity", func(t *testing.T) {
		check(t, func(m anyMatrix) bool {
			if !invertible(m.Matrix) {
				return true
			}
			inv, err := m.Inverse()
			return err == nil && m.Multiply(inv).Equal(Identity()) && inv.Multiply(m.Matrix).Equal(Identity())
		})
	})
	t.Run("product times inverse restores the left factor", func(t *testing.T) {
		check(t, func(a, b anyMatrix) bool {
			if !invertible(b.Matrix) {
				return true
			}
			inv, err := b.Inverse()
			return err == nil && a.Multiply(b.Matrix).Multiply(inv).Equal(a.Matrix)
		})
	})
	t.Run("inverse of transpose is transpose of inverse", func(t *testing.T) {
		check(t, func(m anyMatrix) bool {
			if !invertible(m.Matrix) {
				return true
			}
			inv, err := m.Inverse()
			if err != nil {
				return false
			}
			invT, err := m.Transpose().Inverse()
			return err == nil && invT.Equal(inv.Transpose())
		})
	})
}
