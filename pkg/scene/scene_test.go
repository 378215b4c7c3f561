package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

func TestDefaultWorld(t *testing.T) {
	w := DefaultWorld()

	if len(w.Lights) != 1 {
		t.Fatalf("Expected 1 light, got %d", len(w.Lights))
	}
	if !w.Lights[0].Position.Equal(core.Point(-10, 10, -10)) || !w.Lights[0].Intensity.Equal(core.White) {
		t.Errorf("Unexpected light %+v", w.Lights[0])
	}
	if len(w.Objects) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(w.Objects))
	}

	outer := w.Arena.Get(w.Objects[0])
	if !outer.Material.Color.Equal(core.NewColor(0.8, 1.0, 0.6)) || outer.Material.Diffuse != 0.7 || outer.Material.Specular != 0.2 {
		t.Errorf("Unexpected outer material %+v", outer.Material)
	}
	inner := w.Arena.Get(w.Objects[1])
	if !inner.Transform().Equal(transform.Scaling(0.5, 0.5, 0.5)) {
		t.Errorf("Unexpected inner transform %v", inner.Transform())
	}
	if !w.Background.Equal(core.Black) {
		t.Errorf("Expected black background, got %v", w.Background)
	}
}

func TestWorld_Intersect(t *testing.T) {
	w := DefaultWorld()
	xs := w.Intersect(core.NewRay(core.Point(0, 0, -5), core.Vector(0, 0, 1)))

	expected := []float64{4, 4.5, 5.5, 6}
	if len(xs) != len(expected) {
		t.Fatalf("Expected %d intersections, got %d", len(expected), len(xs))
	}
	for i, x := range xs {
		if math.Abs(x.T-expected[i]) > core.Epsilon {
			t.Errorf("xs[%d].T = %f, want %f", i, x.T, expected[i])
		}
	}

	if misses := w.Intersect(core.NewRay(core.Point(0, 5, -5), core.Vector(0, 0, 1))); len(misses) != 0 {
		t.Errorf("Expected no intersections, got %d", len(misses))
	}
}

func TestWorld_AddRoot(t *testing.T) {
	w := NewWorld()
	g, err := geometry.NewGroup(core.Identity())
	if err != nil {
		t.Fatal(err)
	}
	group := w.Arena.Add(g)
	s, err := geometry.NewSphere(core.Identity(), material.Default())
	if err != nil {
		t.Fatal(err)
	}
	child := w.Arena.Add(s)
	if err := w.Arena.Attach(group, child); err != nil {
		t.Fatal(err)
	}

	if err := w.AddRoot(group); err != nil {
		t.Fatalf("AddRoot(group) error: %v", err)
	}

	tests := []struct {
		name string
		h    geometry.Handle
	}{
		{"duplicate", group},
		{"child", child},
		{"unknown", geometry.Handle(42)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.AddRoot(tt.h); !errors.Is(err, geometry.ErrInvalidShape) {
				t.Errorf("Expected ErrInvalidShape, got %v", err)
			}
		})
	}

	if w.PrimitiveCount() != 1 {
		t.Errorf("Expected 1 primitive, got %d", w.PrimitiveCount())
	}
}

func TestBuiltinScenes(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			build, ok := Lookup(name)
			if !ok {
				t.Fatalf("Lookup(%q) failed", name)
			}
			s, err := build()
			if err != nil {
				t.Fatalf("Building %s: %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Scene name = %q, want %q", s.Name, name)
			}
			if s.Camera == nil || s.World == nil {
				t.Fatal("Scene is missing a camera or world")
			}
			if len(s.World.Lights) == 0 {
				t.Error("Scene has no lights")
			}
			if s.World.PrimitiveCount() == 0 {
				t.Error("Scene has no primitives")
			}
			if Describe(name) == "" {
				t.Error("Scene has no description")
			}

			// The center ray should hit something in every built-in scene
			r := s.Camera.RayForPixel(s.Camera.HSize/2, s.Camera.VSize/2)
			if hit, ok := s.World.Intersect(r).Hit(); !ok {
				t.Error("Center ray hit nothing")
			} else if hit.T <= 0 {
				t.Errorf("Center ray hit at t=%f", hit.T)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, ok := Lookup("no-such-scene"); ok {
		t.Error("Expected lookup of an unknown scene to fail")
	}
}

func TestScene_CameraOverrides(t *testing.T) {
	s, err := NewDefaultScene(geometry.CameraConfig{Width: 32, Height: 16})
	if err != nil {
		t.Fatal(err)
	}
	if s.Camera.HSize != 32 || s.Camera.VSize != 16 {
		t.Errorf("Expected 32x16 camera, got %dx%d", s.Camera.HSize, s.Camera.VSize)
	}
	if s.CameraConfig.VFov != 60 {
		t.Errorf("Non-overridden VFov changed to %f", s.CameraConfig.VFov)
	}

	if _, err := NewDefaultScene(geometry.CameraConfig{LookAt: core.Point(0, 1.5, -5)}); !errors.Is(err, geometry.ErrInvalidCamera) {
		t.Errorf("Expected ErrInvalidCamera when looking at the eye, got %v", err)
	}
}

func TestSphereGridScene_IsDivided(t *testing.T) {
	s, err := NewSphereGridScene()
	if err != nil {
		t.Fatal(err)
	}
	// Ground plane plus the grid group
	if len(s.World.Objects) != 2 {
		t.Fatalf("Expected 2 roots, got %d", len(s.World.Objects))
	}
	grid := s.World.Arena.Get(s.World.Objects[1])
	if grid.Kind != geometry.KindGroup {
		t.Fatalf("Expected a group, got %v", grid.Kind)
	}
	if len(grid.Children) > geometry.DefaultLeafThreshold {
		t.Errorf("Grid has %d direct children after Divide", len(grid.Children))
	}
	if s.World.PrimitiveCount() != 401 {
		t.Errorf("Expected 401 primitives, got %d", s.World.PrimitiveCount())
	}
}

func TestIcosphereMesh(t *testing.T) {
	tests := []struct {
		subdivisions int
		faces        int
		vertices     int
	}{
		{0, 20, 12},
		{1, 80, 42},
		{2, 320, 162},
	}
	for _, tt := range tests {
		mesh := NewIcosphereMesh(tt.subdivisions)
		if mesh.TriangleCount() != tt.faces || len(mesh.Vertices) != tt.vertices {
			t.Errorf("Subdivisions %d: got %d faces and %d vertices, want %d and %d",
				tt.subdivisions, mesh.TriangleCount(), len(mesh.Vertices), tt.faces, tt.vertices)
		}
		for i, v := range mesh.Vertices {
			if math.Abs(core.Vector(v.X, v.Y, v.Z).Magnitude()-1) > 1e-9 {
				t.Fatalf("Vertex %d is not on the unit sphere", i)
			}
		}
	}
}

func TestModelScene(t *testing.T) {
	logger := &testLogger{}
	mesh := NewBoxMesh()
	// Stretch the box so fitting has something to do
	for i, v := range mesh.Vertices {
		mesh.Vertices[i] = core.Point(v.X*10, v.Y*40+100, v.Z*10)
	}

	s, err := NewModelScene("box", mesh, logger)
	if err != nil {
		t.Fatal(err)
	}
	model := s.World.Objects[len(s.World.Objects)-1]
	b := s.World.Arena.ParentSpaceBounds(model)
	if math.Abs(b.Min.Y) > 1e-9 || math.Abs(b.Max.Y-modelHeight) > 1e-9 {
		t.Errorf("Model not fitted to the floor: %v", b)
	}
	if len(logger.messages) == 0 {
		t.Error("Expected a load message")
	}

	if _, err := NewModelScene("empty", geometry.Mesh{}, logger); !errors.Is(err, geometry.ErrInvalidShape) {
		t.Errorf("Expected ErrInvalidShape for an empty mesh, got %v", err)
	}
}
