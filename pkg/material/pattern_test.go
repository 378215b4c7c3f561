package material

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestStripe(t *testing.T) {
	p := NewStripe(core.White, core.Black)
	tests := []struct {
		point    core.Tuple
		expected core.Color
	}{
		{core.Point(0, 0, 0), core.White},
		{core.Point(0, 1, 0), core.White},
		{core.Point(0, 2, 0), core.White},
		{core.Point(0, 0, 1), core.White},
		{core.Point(0, 0, 2), core.White},
		{core.Point(0.9, 0, 0), core.White},
		{core.Point(1, 0, 0), core.Black},
		{core.Point(-0.1, 0, 0), core.Black},
		{core.Point(-1, 0, 0), core.Black},
		{core.Point(-1.1, 0, 0), core.White},
	}
	for _, tt := range tests {
		if got := p.Local(tt.point); !got.Equal(tt.expected) {
			t.Errorf("Stripe at %v: expected %v, got %v", tt.point, tt.expected, got)
		}
	}
}

func TestGradient(t *testing.T) {
	p := NewGradient(core.White, core.Black)
	tests := []struct {
		point    core.Tuple
		expected core.Color
	}{
		{core.Point(0, 0, 0), core.White},
		{core.Point(0.25, 0, 0), core.NewColor(0.75, 0.75, 0.75)},
		{core.Point(0.5, 0, 0), core.NewColor(0.5, 0.5, 0.5)},
		{core.Point(0.75, 0, 0), core.NewColor(0.25, 0.25, 0.25)},
	}
	for _, tt := range tests {
		if got := p.Local(tt.point); !got.Equal(tt.expected) {
			t.Errorf("Gradient at %v: expected %v, got %v", tt.point, tt.expected, got)
		}
	}
}

func TestRing(t *testing.T) {
	p := NewRing(core.White, core.Black)
	tests := []struct {
		point    core.Tuple
		expected core.Color
	}{
		{core.Point(0, 0, 0), core.White},
		{core.Point(1, 0, 0), core.Black},
		{core.Point(0, 0, 1), core.Black},
		{core.Point(0.708, 0, 0.708), core.Black},
	}
	for _, tt := range tests {
		if got := p.Local(tt.point); !got.Equal(tt.expected) {
			t.Errorf("Ring at %v: expected %v, got %v", tt.point, tt.expected, got)
		}
	}
}

func TestCheckers(t *testing.T) {
	p := NewCheckers(core.White, core.Black)
	tests := []struct {
		name     string
		point    core.Tuple
		expected core.Color
	}{
		{"x start", core.Point(0, 0, 0), core.White},
		{"x inside", core.Point(0.99, 0, 0), core.White},
		{"x next", core.Point(1.01, 0, 0), core.Black},
		{"y inside", core.Point(0, 0.99, 0), core.White},
		{"y next", core.Point(0, 1.01, 0), core.Black},
		{"z inside", core.Point(0, 0, 0.99), core.White},
		{"z next", core.Point(0, 0, 1.01), core.Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Local(tt.point); !got.Equal(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRadialGradient(t *testing.T) {
	p := NewRadialGradient(core.White, core.Black)
	if got := p.Local(core.Point(0.3, 0, 0.4)); !got.Equal(core.NewColor(0.5, 0.5, 0.5)) {
		t.Errorf("Expected mid gray at distance 0.5, got %v", got)
	}
}

func TestPatternTransform(t *testing.T) {
	p := NewStripe(core.White, core.Black)
	if err := p.SetTransform(core.Matrix4([16]float64{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 1})); err != nil {
		t.Fatal(err)
	}
	if got := AtObject(p, core.Point(1.5, 0, 0)); !got.Equal(core.White) {
		t.Errorf("Expected white with scaled pattern, got %v", got)
	}

	singular := core.Matrix4([16]float64{})
	if err := p.SetTransform(singular); err == nil {
		t.Error("Expected error for singular pattern transform")
	}
}

func TestNestedPatterns(t *testing.T) {
	red := core.NewColor(1, 0, 0)
	green := core.NewColor(0, 1, 0)
	blue := core.NewColor(0, 0, 1)

	inner := NewStripe(red, green)
	// stripes along z by rotating the inner pattern a quarter turn around y
	c, s := math.Cos(math.Pi/2), math.Sin(math.Pi/2)
	if err := inner.SetTransform(core.Matrix4([16]float64{c, 0, s, 0, 0, 1, 0, 0, -s, 0, c, 0, 0, 0, 0, 1})); err != nil {
		t.Fatal(err)
	}
	outer := &Stripe{A: inner, B: NewSolid(blue)}

	if got := outer.Local(core.Point(0.5, 0, 0.5)); !got.Equal(green) {
		t.Errorf("Expected inner stripe color green, got %v", got)
	}
	if got := outer.Local(core.Point(0.5, 0, -0.5)); !got.Equal(red) {
		t.Errorf("Expected inner stripe color red, got %v", got)
	}
	if got := outer.Local(core.Point(1.5, 0, 0.5)); !got.Equal(blue) {
		t.Errorf("Expected outer stripe color blue, got %v", got)
	}
}

func TestBlended(t *testing.T) {
	avg := NewBlended(NewSolid(core.White), NewSolid(core.Black))
	if got := avg.Local(core.Point(0, 0, 0)); !got.Equal(core.NewColor(0.5, 0.5, 0.5)) {
		t.Errorf("Average blend: got %v", got)
	}

	c := core.NewColor(0.2, 0.4, 0.6)
	for _, mode := range []BlendMode{BlendLab, BlendHcl} {
		same := &Blended{A: NewSolid(c), B: NewSolid(c), Weight: 0.3, Mode: mode}
		if got := same.Local(core.Point(0, 0, 0)); !got.Equal(c) {
			t.Errorf("Mode %d: blending a color with itself should return it, got %v", mode, got)
		}
	}

	endpoint := &Blended{A: NewSolid(c), B: NewSolid(core.White), Weight: 0, Mode: BlendLab}
	if got := endpoint.Local(core.Point(0, 0, 0)); !got.Equal(c) {
		t.Errorf("Weight 0 should return A, got %v", got)
	}
}

func TestPerturbed(t *testing.T) {
	inner := NewGradient(core.White, core.Black)

	still := NewPerturbed(inner, 0, 42)
	for _, p := range []core.Tuple{core.Point(0.1, 0.2, 0.3), core.Point(-3.7, 1.1, 8.2)} {
		if got, want := still.Local(p), inner.Local(p); !got.Equal(want) {
			t.Errorf("Zero scale should not perturb: expected %v, got %v", want, got)
		}
	}

	a := NewPerturbed(inner, 0.3, 7)
	b := NewPerturbed(inner, 0.3, 7)
	p := core.Point(0.37, 1.21, -0.58)
	if !a.Local(p).Equal(b.Local(p)) {
		t.Error("Same seed should produce the same color")
	}
}
