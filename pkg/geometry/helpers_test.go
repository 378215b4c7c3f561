package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// add stores a freshly constructed shape, failing the test on constructor errors
func add(t *testing.T, a *Arena, s Shape, err error) Handle {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected constructor error: %v", err)
	}
	return a.Add(s)
}

func addSphere(t *testing.T, a *Arena, m core.Matrix) Handle {
	t.Helper()
	s, err := NewSphere(m, material.Default())
	return add(t, a, s, err)
}

func addGroup(t *testing.T, a *Arena, m core.Matrix) Handle {
	t.Helper()
	g, err := NewGroup(m)
	return add(t, a, g, err)
}

func attach(t *testing.T, a *Arena, group, child Handle) {
	t.Helper()
	if err := a.Attach(group, child); err != nil {
		t.Fatalf("Attach(%d, %d): %v", group, child, err)
	}
}

func ray(ox, oy, oz, dx, dy, dz float64) core.Ray {
	return core.NewRay(core.Point(ox, oy, oz), core.Vector(dx, dy, dz))
}

func normalizedRay(t *testing.T, ox, oy, oz, dx, dy, dz float64) core.Ray {
	t.Helper()
	d, err := core.Vector(dx, dy, dz).Normalize()
	if err != nil {
		t.Fatal(err)
	}
	return core.NewRay(core.Point(ox, oy, oz), d)
}

func expectTs(t *testing.T, xs Intersections, expected ...float64) {
	t.Helper()
	if len(xs) != len(expected) {
		t.Fatalf("Expected %d intersections, got %d (%v)", len(expected), len(xs), xs)
	}
	for i, want := range expected {
		if math.Abs(xs[i].T-want) > 1e-4 {
			t.Errorf("xs[%d].T: expected %f, got %f", i, want, xs[i].T)
		}
	}
}
