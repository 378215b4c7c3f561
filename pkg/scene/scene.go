package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	World        *World
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	MaxDepth     int // Recommended recursion depth; 0 means the renderer default
}

// Builder creates a scene, optionally overriding its default camera
type Builder func(cameraOverrides ...geometry.CameraConfig) (*Scene, error)

type entry struct {
	description string
	build       Builder
}

var builtins = map[string]entry{
	"spheres":     {"Three spheres on a floor with two walls", NewDefaultScene},
	"reflections": {"Mirror and glass spheres over a checkered floor", NewCausticGlassScene},
	"shapes":      {"Cubes, cylinders and cones", NewCylinderScene},
	"groups":      {"A hexagon assembled from nested groups", NewGroupsScene},
	"csg":         {"Dice carved with constructive solid geometry", NewCSGScene},
	"cornell":     {"Cornell box lit by a point light", NewCornellScene},
	"spheregrid":  {"A 10x10 grid of spheres in a bounding hierarchy", NewSphereGridScene},
	"patterns":    {"One sphere or plane per pattern type", NewTextureTestScene},
	"mesh":        {"A smooth-shaded icosphere built from a triangle mesh", NewTriangleMeshScene},
}

// Lookup returns the builder for a built-in scene
func Lookup(name string) (Builder, bool) {
	e, ok := builtins[name]
	return e.build, ok
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a built-in scene
func Describe(name string) string {
	return builtins[name].description
}

// newScene assembles a scene from a world and a camera config with overrides applied
// NewScene assembles a scene around a populated world. The first override,
// if any, is merged over defaults before the camera is built.
func NewScene(name string, world *World, defaults geometry.CameraConfig, overrides ...geometry.CameraConfig) (*Scene, error) {
	return newScene(name, world, defaults, overrides)
}

func newScene(name string, world *World, defaults geometry.CameraConfig, overrides []geometry.CameraConfig) (*Scene, error) {
	cameraConfig := defaults
	if len(overrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaults, overrides[0])
	}
	camera, err := geometry.NewCameraFromConfig(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	return &Scene{
		Name:         name,
		World:        world,
		Camera:       camera,
		CameraConfig: cameraConfig,
	}, nil
}

// shapeBuilder accumulates the first construction error so scene code can
// add many shapes without checking each one
type shapeBuilder struct {
	world *World
	err   error
}

func (b *shapeBuilder) add(s geometry.Shape, err error) geometry.Handle {
	if b.err != nil {
		return geometry.NoHandle
	}
	if err != nil {
		b.err = err
		return geometry.NoHandle
	}
	return b.world.Add(s)
}

// store adds a shape to the arena without making it a root
func (b *shapeBuilder) store(s geometry.Shape, err error) geometry.Handle {
	if b.err != nil {
		return geometry.NoHandle
	}
	if err != nil {
		b.err = err
		return geometry.NoHandle
	}
	return b.world.Arena.Add(s)
}

func (b *shapeBuilder) attach(group, child geometry.Handle) {
	if b.err != nil {
		return
	}
	b.err = b.world.Arena.Attach(group, child)
}

func (b *shapeBuilder) root(h geometry.Handle) {
	if b.err != nil {
		return
	}
	b.err = b.world.AddRoot(h)
}

func (b *shapeBuilder) light(position core.Tuple, intensity core.Color) {
	if b.err != nil {
		return
	}
	l, err := lights.NewPointLight(position, intensity)
	if err != nil {
		b.err = err
		return
	}
	b.world.AddLight(l)
}

func (b *shapeBuilder) material(opts ...material.Option) material.Material {
	m, err := material.New(opts...)
	if err != nil && b.err == nil {
		b.err = err
	}
	return m
}

// NewGroundPlane creates a floor plane at the given height
func NewGroundPlane(y float64, mat material.Material) (geometry.Shape, error) {
	return geometry.NewPlane(transform.Translation(0, y, 0), mat)
}
