package renderer

import (
	"fmt"
	"iter"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Pixel is one rendered image location
type Pixel struct {
	X, Y  int
	Color core.Color
}

// Raytracer shades individual pixels. It holds no mutable state, so one
// Raytracer can be shared by any number of goroutines.
type Raytracer struct {
	world      *scene.World
	camera     *geometry.Camera
	integrator integrator.Integrator
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world *scene.World, camera *geometry.Camera, integratorInst integrator.Integrator) *Raytracer {
	return &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integratorInst,
	}
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.camera.HSize }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.camera.VSize }

// Sample shades one sample of pixel (x, y). Sample 0 goes through the pixel
// center; later samples are spread over the pixel by SampleOffset.
func (rt *Raytracer) Sample(x, y, index int) (core.Color, error) {
	dx, dy := SampleOffset(index)
	ray := rt.camera.RayForOffset(float64(x)+dx, float64(y)+dy)
	c, err := rt.integrator.RayColor(ray, rt.world)
	if err != nil {
		return core.Black, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
	}
	return c, nil
}

// Pixels returns every pixel in row-major order, one ray per pixel. The
// sequence is lazy and can be ranged over more than once. Pixels that fail
// are yielded with their error and a zero color; iteration continues if the
// consumer keeps ranging.
func (rt *Raytracer) Pixels() iter.Seq2[Pixel, error] {
	return func(yield func(Pixel, error) bool) {
		for y := range rt.Height() {
			for x := range rt.Width() {
				c, err := rt.Sample(x, y, 0)
				if err != nil {
					c = core.Black
				}
				if !yield(Pixel{X: x, Y: y, Color: c}, err) {
					return
				}
			}
		}
	}
}

// Pixels renders world through camera one pixel at a time with the default
// shading options
func Pixels(world *scene.World, camera *geometry.Camera) iter.Seq2[Pixel, error] {
	rt := NewRaytracer(world, camera, integrator.NewWhittedIntegrator(integrator.DefaultOptions()))
	return rt.Pixels()
}

// r2 generator constants: the plastic number and its square
var (
	r2A1 = 1 / 1.32471795724474602596
	r2A2 = 1 / (1.32471795724474602596 * 1.32471795724474602596)
)

// SampleOffset returns the position of sample index inside a pixel, in [0, 1).
// Index 0 is the pixel center; later indices follow the R2 low-discrepancy
// sequence so any prefix covers the pixel evenly and renders are repeatable.
func SampleOffset(index int) (float64, float64) {
	if index <= 0 {
		return 0.5, 0.5
	}
	n := float64(index)
	dx := 0.5 + r2A1*n
	dy := 0.5 + r2A2*n
	return dx - math.Floor(dx), dy - math.Floor(dy)
}
