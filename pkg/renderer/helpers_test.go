package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

var errShading = errors.New("shading failed")

// upperHalfFails fails every ray heading upward and shades the rest white
type upperHalfFails struct{}

func (upperHalfFails) RayColor(ray core.Ray, _ *scene.World) (core.Color, error) {
	if ray.Direction.Y > 0 {
		return core.Black, errShading
	}
	return core.White, nil
}

// newTestCamera looks at the origin from (0, 0, -5) with a 90 degree field of view
func newTestCamera(t testing.TB, width, height int) *geometry.Camera {
	t.Helper()
	camera, err := geometry.NewCamera(width, height, math.Pi/2)
	if err != nil {
		t.Fatal(err)
	}
	view, err := transform.View(core.Point(0, 0, -5), core.Point(0, 0, 0), core.Vector(0, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := camera.SetTransform(view); err != nil {
		t.Fatal(err)
	}
	return camera
}

func testConfig(workers, tileSize int) Config {
	config := DefaultConfig()
	config.Workers = workers
	config.TileSize = tileSize
	return config
}

func expectColor(t *testing.T, got, want core.Color, tolerance float64) {
	t.Helper()
	if math.Abs(got.R-want.R) > tolerance || math.Abs(got.G-want.G) > tolerance || math.Abs(got.B-want.B) > tolerance {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

// bookCenter is the default world seen through the center pixel of an 11x11 test camera
var bookCenter = core.NewColor(0.38066, 0.47583, 0.2855)
