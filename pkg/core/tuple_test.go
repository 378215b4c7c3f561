package core

import (
	"errors"
	"math"
	"testing"
)

func TestTuple_PointAndVectorTags(t *testing.T) {
	p := Point(4.3, -4.2, 3.1)
	if !p.IsPoint() || p.IsVector() {
		t.Errorf("Expected %v to be a point", p)
	}
	v := Vector(4.3, -4.2, 3.1)
	if !v.IsVector() || v.IsPoint() {
		t.Errorf("Expected %v to be a vector", v)
	}
}

func TestTuple_AddSubtractTagLaws(t *testing.T) {
	p := Point(3, 2, 1)
	q := Point(5, 6, 7)
	v := Vector(5, 6, 7)
	w := Vector(3, 2, 1)

	tests := []struct {
		name     string
		result   Tuple
		expected Tuple
	}{
		{"point plus vector", p.Add(v), Point(8, 8, 8)},
		{"vector plus vector", v.Add(w), Vector(8, 8, 8)},
		{"point minus point", p.Subtract(q), Vector(-2, -4, -6)},
		{"point minus vector", p.Subtract(v), Point(-2, -4, -6)},
		{"vector minus vector", w.Subtract(v), Vector(-2, -4, -6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.result.Equal(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}
}

func TestTuple_InvalidCombinationsPanic(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"point plus point", func() { Point(1, 2, 3).Add(Point(1, 2, 3)) }},
		{"vector minus point", func() { Vector(1, 2, 3).Subtract(Point(1, 2, 3)) }},
		{"negate point", func() { Point(1, 2, 3).Negate() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("Expected panic, got none")
				}
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrInvalidTuple) {
					t.Errorf("Expected ErrInvalidTuple panic, got %v", r)
				}
			}()
			tt.fn()
		})
	}
}

func TestTuple_ScalarOps(t *testing.T) {
	a := NewTuple(1, -2, 3, -4)
	if got := a.Multiply(3.5); !got.Equal(NewTuple(3.5, -7, 10.5, -14)) {
		t.Errorf("Multiply: got %v", got)
	}
	if got := a.Multiply(0.5); !got.Equal(NewTuple(0.5, -1, 1.5, -2)) {
		t.Errorf("Multiply by fraction: got %v", got)
	}
	if got := a.Divide(2); !got.Equal(NewTuple(0.5, -1, 1.5, -2)) {
		t.Errorf("Divide: got %v", got)
	}
	if got := Vector(1, -2, 3).Negate(); !got.Equal(Vector(-1, 2, -3)) {
		t.Errorf("Negate: got %v", got)
	}
}

func TestTuple_Magnitude(t *testing.T) {
	tests := []struct {
		v        Tuple
		expected float64
	}{
		{Vector(1, 0, 0), 1},
		{Vector(0, 1, 0), 1},
		{Vector(0, 0, 1), 1},
		{Vector(1, 2, 3), math.Sqrt(14)},
		{Vector(-1, -2, -3), math.Sqrt(14)},
	}
	for _, tt := range tests {
		if got := tt.v.Magnitude(); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Magnitude(%v): expected %f, got %f", tt.v, tt.expected, got)
		}
	}
}

func TestTuple_Normalize(t *testing.T) {
	n, err := Vector(1, 2, 3).Normalize()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(n.Magnitude()-1) > 1e-9 {
		t.Errorf("Expected unit magnitude, got %f", n.Magnitude())
	}
	expected := Vector(1/math.Sqrt(14), 2/math.Sqrt(14), 3/math.Sqrt(14))
	if !n.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, n)
	}

	if _, err := Vector(0, 0, 0).Normalize(); !errors.Is(err, ErrZeroVector) {
		t.Errorf("Expected ErrZeroVector, got %v", err)
	}
}

func TestTuple_DotAndCross(t *testing.T) {
	a := Vector(1, 2, 3)
	b := Vector(2, 3, 4)

	if got := a.Dot(b); got != 20 {
		t.Errorf("Dot: expected 20, got %f", got)
	}
	if got := a.Cross(b); !got.Equal(Vector(-1, 2, -1)) {
		t.Errorf("a×b: got %v", got)
	}
	if got := b.Cross(a); !got.Equal(Vector(1, -2, 1)) {
		t.Errorf("b×a: got %v", got)
	}
}

func TestTuple_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		v        Tuple
		normal   Tuple
		expected Tuple
	}{
		{"45 degrees", Vector(1, -1, 0), Vector(0, 1, 0), Vector(1, 1, 0)},
		{"slanted surface", Vector(0, -1, 0), Vector(math.Sqrt2/2, math.Sqrt2/2, 0), Vector(1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Reflect(tt.normal); !got.Equal(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestColor_Operations(t *testing.T) {
	a := NewColor(0.9, 0.6, 0.75)
	b := NewColor(0.7, 0.1, 0.25)

	if got := a.Add(b); !got.Equal(NewColor(1.6, 0.7, 1.0)) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Subtract(b); !got.Equal(NewColor(0.2, 0.5, 0.5)) {
		t.Errorf("Subtract: got %v", got)
	}
	if got := NewColor(0.2, 0.3, 0.4).Multiply(2); !got.Equal(NewColor(0.4, 0.6, 0.8)) {
		t.Errorf("Multiply: got %v", got)
	}
	if got := NewColor(1, 0.2, 0.4).Hadamard(NewColor(0.9, 1, 0.1)); !got.Equal(NewColor(0.9, 0.2, 0.04)) {
		t.Errorf("Hadamard: got %v", got)
	}
	if got := NewColor(1.5, -0.5, 0.5).Clamp(); !got.Equal(NewColor(1, 0, 0.5)) {
		t.Errorf("Clamp: got %v", got)
	}
}

func TestRay_Position(t *testing.T) {
	r := NewRay(Point(2, 3, 4), Vector(1, 0, 0))
	tests := []struct {
		t        float64
		expected Tuple
	}{
		{0, Point(2, 3, 4)},
		{1, Point(3, 3, 4)},
		{-1, Point(1, 3, 4)},
		{2.5, Point(4.5, 3, 4)},
	}
	for _, tt := range tests {
		if got := r.Position(tt.t); !got.Equal(tt.expected) {
			t.Errorf("Position(%f): expected %v, got %v", tt.t, tt.expected, got)
		}
	}
}

func TestRay_Transform(t *testing.T) {
	r := NewRay(Point(1, 2, 3), Vector(0, 1, 0))
	translate := Matrix4([16]float64{
		1, 0, 0, 3,
		0, 1, 0, 4,
		0, 0, 1, 5,
		0, 0, 0, 1,
	})
	scale := Matrix4([16]float64{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 4, 0,
		0, 0, 0, 1,
	})

	moved := r.Transform(translate)
	if !moved.Origin.Equal(Point(4, 6, 8)) || !moved.Direction.Equal(Vector(0, 1, 0)) {
		t.Errorf("Translate: got %v %v", moved.Origin, moved.Direction)
	}

	scaled := r.Transform(scale)
	if !scaled.Origin.Equal(Point(2, 6, 12)) || !scaled.Direction.Equal(Vector(0, 3, 0)) {
		t.Errorf("Scale: got %v %v", scaled.Origin, scaled.Direction)
	}
	if !r.Origin.Equal(Point(1, 2, 3)) {
		t.Error("Transform must not modify the original ray")
	}
}
