package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// ErrInvalidSceneFile is returned for scene files that parse but describe an unusable scene
var ErrInvalidSceneFile = errors.New("invalid scene file")

// Vec3 is a JSON triple: [x, y, z] or [r, g, b]
type Vec3 [3]float64

func (v Vec3) point() core.Tuple  { return core.Point(v[0], v[1], v[2]) }
func (v Vec3) vector() core.Tuple { return core.Vector(v[0], v[1], v[2]) }
func (v Vec3) color() core.Color  { return core.NewColor(v[0], v[1], v[2]) }

// SceneFile is the top-level JSON scene description
type SceneFile struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Group       string                 `json:"group,omitempty"`
	Variant     string                 `json:"variant,omitempty"`
	MaxDepth    int                    `json:"maxDepth,omitempty"`
	Background  *Vec3                  `json:"background,omitempty"`
	Camera      CameraCfg              `json:"camera"`
	Lights      []LightCfg             `json:"lights"`
	Materials   map[string]MaterialCfg `json:"materials,omitempty"`
	Objects     []ObjectCfg            `json:"objects"`
}

// CameraCfg mirrors geometry.CameraConfig; missing fields keep their defaults
type CameraCfg struct {
	Center *Vec3   `json:"center,omitempty"`
	LookAt *Vec3   `json:"lookAt,omitempty"`
	Up     *Vec3   `json:"up,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	VFov   float64 `json:"vfov,omitempty"` // Degrees
}

// LightCfg is a point light; color defaults to white
type LightCfg struct {
	Position Vec3  `json:"position"`
	Color    *Vec3 `json:"color,omitempty"`
}

// TransformStep is one entry of a transform list. Steps apply in list order;
// exactly one field should be set per step. Rotations are in degrees.
type TransformStep struct {
	Translate *Vec3       `json:"translate,omitempty"`
	Scale     *Vec3       `json:"scale,omitempty"`
	RotateX   *float64    `json:"rotateX,omitempty"`
	RotateY   *float64    `json:"rotateY,omitempty"`
	RotateZ   *float64    `json:"rotateZ,omitempty"`
	Shear     *[6]float64 `json:"shear,omitempty"` // xy, xz, yx, yz, zx, zy
}

// MaterialCfg overrides fields of a base material: the named material in
// Use, else the enclosing object's material, else the default material
type MaterialCfg struct {
	Use             string      `json:"use,omitempty"`
	Color           *Vec3       `json:"color,omitempty"`
	Ambient         *float64    `json:"ambient,omitempty"`
	Diffuse         *float64    `json:"diffuse,omitempty"`
	Specular        *float64    `json:"specular,omitempty"`
	Shininess       *float64    `json:"shininess,omitempty"`
	Reflective      *float64    `json:"reflective,omitempty"`
	Transparency    *float64    `json:"transparency,omitempty"`
	RefractiveIndex *float64    `json:"refractiveIndex,omitempty"`
	Pattern         *PatternCfg `json:"pattern,omitempty"`
}

// PatternCfg describes a pattern. Type is one of solid, stripe, gradient,
// ring, checkers, radial, blend, perturb or image.
type PatternCfg struct {
	Type      string          `json:"type"`
	Colors    []Vec3          `json:"colors,omitempty"`   // Two colors for the two-tone patterns
	Patterns  []PatternCfg    `json:"patterns,omitempty"` // blend: the two inputs
	Inner     *PatternCfg     `json:"inner,omitempty"`    // perturb: the pattern being jittered
	Mode      string          `json:"mode,omitempty"`     // blend: "", "lab" or "hcl"
	Weight    *float64        `json:"weight,omitempty"`   // blend
	Scale     float64         `json:"scale,omitempty"`    // perturb
	Seed      int64           `json:"seed,omitempty"`     // perturb
	File      string          `json:"file,omitempty"`     // image, relative to the scene file
	Mapping   string          `json:"mapping,omitempty"`  // image: planar, spherical or cylindrical
	Transform []TransformStep `json:"transform,omitempty"`
}

// ObjectCfg describes a shape. Type is one of sphere, glass-sphere, plane,
// cube, cylinder, cone, triangle, group, csg or mesh.
type ObjectCfg struct {
	Type      string          `json:"type"`
	Transform []TransformStep `json:"transform,omitempty"`
	Material  *MaterialCfg    `json:"material,omitempty"`

	// cylinder and cone
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Closed bool     `json:"closed,omitempty"`

	// triangle
	Points []Vec3 `json:"points,omitempty"`

	// group
	Children []ObjectCfg `json:"children,omitempty"`

	// csg
	Op    string     `json:"op,omitempty"`
	Left  *ObjectCfg `json:"left,omitempty"`
	Right *ObjectCfg `json:"right,omitempty"`

	// mesh
	File   string `json:"file,omitempty"`   // .ply, .glb or .gltf, relative to the scene file
	Divide int    `json:"divide,omitempty"` // Leaf size for the bounding hierarchy
}

// LoadSceneFile reads and builds a JSON scene file. The first camera
// override, if any, is merged over the file's camera.
func LoadSceneFile(path string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file SceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := BuildScene(file, filepath.Dir(path), cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// BuildScene constructs a scene from a parsed description. Relative mesh and
// image paths are resolved against baseDir.
func BuildScene(file SceneFile, baseDir string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if len(file.Lights) == 0 {
		return nil, fmt.Errorf("%w: scene has no lights", ErrInvalidSceneFile)
	}
	if file.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: maxDepth must be non-negative, got %d", ErrInvalidSceneFile, file.MaxDepth)
	}

	b := &sceneBuilder{
		world:     scene.NewWorld(),
		baseDir:   baseDir,
		materials: map[string]material.Material{},
	}
	if file.Background != nil {
		b.world.Background = file.Background.color()
	}

	for _, l := range file.Lights {
		intensity := core.White
		if l.Color != nil {
			intensity = l.Color.color()
		}
		light, err := lights.NewPointLight(l.Position.point(), intensity)
		if err != nil {
			return nil, err
		}
		b.world.AddLight(light)
	}

	// Named materials build in sorted order so errors are reported consistently
	names := make([]string, 0, len(file.Materials))
	for name := range file.Materials {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		cfg := file.Materials[name]
		if cfg.Use != "" {
			return nil, fmt.Errorf("%w: named material %q cannot use another", ErrInvalidSceneFile, name)
		}
		m, err := b.material(&cfg, material.Default())
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		b.materials[name] = m
	}

	for i, obj := range file.Objects {
		h, err := b.object(obj, material.Default())
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, obj.Type, err)
		}
		if err := b.world.AddRoot(h); err != nil {
			return nil, err
		}
	}

	s, err := scene.NewScene(file.Name, b.world, cameraConfig(file.Camera), cameraOverrides...)
	if err != nil {
		return nil, err
	}
	s.MaxDepth = file.MaxDepth
	return s, nil
}

// cameraConfig merges the file's camera over the default camera
func cameraConfig(c CameraCfg) geometry.CameraConfig {
	override := geometry.CameraConfig{Width: c.Width, Height: c.Height, VFov: c.VFov}
	if c.Center != nil {
		override.Center = c.Center.point()
	}
	if c.LookAt != nil {
		override.LookAt = c.LookAt.point()
	}
	if c.Up != nil {
		override.Up = c.Up.vector()
	}
	return geometry.MergeCameraConfig(geometry.DefaultCameraConfig(), override)
}

// buildTransform composes the steps in list order
func buildTransform(steps []TransformStep) (core.Matrix, error) {
	const deg = math.Pi / 180
	t := transform.New()
	for i, step := range steps {
		set := 0
		if step.Translate != nil {
			t = t.Translate(step.Translate[0], step.Translate[1], step.Translate[2])
			set++
		}
		if step.Scale != nil {
			t = t.Scale(step.Scale[0], step.Scale[1], step.Scale[2])
			set++
		}
		if step.RotateX != nil {
			t = t.RotateX(*step.RotateX * deg)
			set++
		}
		if step.RotateY != nil {
			t = t.RotateY(*step.RotateY * deg)
			set++
		}
		if step.RotateZ != nil {
			t = t.RotateZ(*step.RotateZ * deg)
			set++
		}
		if step.Shear != nil {
			s := step.Shear
			t = t.Shear(s[0], s[1], s[2], s[3], s[4], s[5])
			set++
		}
		if set != 1 {
			return core.Matrix{}, fmt.Errorf("%w: transform step %d sets %d operations, want 1", ErrInvalidSceneFile, i, set)
		}
	}
	return t.Matrix(), nil
}

type sceneBuilder struct {
	world     *scene.World
	baseDir   string
	materials map[string]material.Material
}

func (b *sceneBuilder) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(b.baseDir, p)
}

// material applies cfg over inherited
func (b *sceneBuilder) material(cfg *MaterialCfg, inherited material.Material) (material.Material, error) {
	if cfg == nil {
		return inherited, nil
	}
	m := inherited
	if cfg.Use != "" {
		named, ok := b.materials[cfg.Use]
		if !ok {
			return material.Material{}, fmt.Errorf("%w: unknown material %q", ErrInvalidSceneFile, cfg.Use)
		}
		m = named
	}

	if cfg.Color != nil {
		m.Color = cfg.Color.color()
	}
	for _, field := range []struct {
		value *float64
		dst   *float64
	}{
		{cfg.Ambient, &m.Ambient},
		{cfg.Diffuse, &m.Diffuse},
		{cfg.Specular, &m.Specular},
		{cfg.Shininess, &m.Shininess},
		{cfg.Reflective, &m.Reflective},
		{cfg.Transparency, &m.Transparency},
		{cfg.RefractiveIndex, &m.RefractiveIndex},
	} {
		if field.value != nil {
			*field.dst = *field.value
		}
	}
	if cfg.Pattern != nil {
		p, err := b.pattern(*cfg.Pattern)
		if err != nil {
			return material.Material{}, err
		}
		m.Pattern = p
	}

	if err := m.Validate(); err != nil {
		return material.Material{}, err
	}
	return m, nil
}

// pattern builds a pattern and applies its transform
func (b *sceneBuilder) pattern(cfg PatternCfg) (material.Pattern, error) {
	twoColors := func() (core.Color, core.Color, error) {
		if len(cfg.Colors) != 2 {
			return core.Black, core.Black, fmt.Errorf("%w: %s pattern needs 2 colors, got %d", ErrInvalidSceneFile, cfg.Type, len(cfg.Colors))
		}
		return cfg.Colors[0].color(), cfg.Colors[1].color(), nil
	}

	var p material.Pattern
	switch cfg.Type {
	case "solid":
		if len(cfg.Colors) != 1 {
			return nil, fmt.Errorf("%w: solid pattern needs 1 color, got %d", ErrInvalidSceneFile, len(cfg.Colors))
		}
		p = material.NewSolid(cfg.Colors[0].color())
	case "stripe", "gradient", "ring", "checkers", "radial":
		a, c, err := twoColors()
		if err != nil {
			return nil, err
		}
		switch cfg.Type {
		case "stripe":
			p = material.NewStripe(a, c)
		case "gradient":
			p = material.NewGradient(a, c)
		case "ring":
			p = material.NewRing(a, c)
		case "checkers":
			p = material.NewCheckers(a, c)
		case "radial":
			p = material.NewRadialGradient(a, c)
		}
	case "blend":
		if len(cfg.Patterns) != 2 {
			return nil, fmt.Errorf("%w: blend needs 2 patterns, got %d", ErrInvalidSceneFile, len(cfg.Patterns))
		}
		first, err := b.pattern(cfg.Patterns[0])
		if err != nil {
			return nil, err
		}
		second, err := b.pattern(cfg.Patterns[1])
		if err != nil {
			return nil, err
		}
		blended := material.NewBlended(first, second)
		switch cfg.Mode {
		case "":
		case "lab":
			blended.Mode = material.BlendLab
		case "hcl":
			blended.Mode = material.BlendHcl
		default:
			return nil, fmt.Errorf("%w: unknown blend mode %q", ErrInvalidSceneFile, cfg.Mode)
		}
		if cfg.Weight != nil {
			blended.Weight = *cfg.Weight
		}
		p = blended
	case "perturb":
		if cfg.Inner == nil {
			return nil, fmt.Errorf("%w: perturb needs an inner pattern", ErrInvalidSceneFile)
		}
		inner, err := b.pattern(*cfg.Inner)
		if err != nil {
			return nil, err
		}
		p = material.NewPerturbed(inner, cfg.Scale, cfg.Seed)
	case "image":
		mapping, err := parseMapping(cfg.Mapping)
		if err != nil {
			return nil, err
		}
		tex, err := LoadImageTexture(b.path(cfg.File), mapping)
		if err != nil {
			return nil, err
		}
		p = tex
	default:
		return nil, fmt.Errorf("%w: unknown pattern type %q", ErrInvalidSceneFile, cfg.Type)
	}

	if len(cfg.Transform) > 0 {
		m, err := buildTransform(cfg.Transform)
		if err != nil {
			return nil, err
		}
		settable, ok := p.(interface{ SetTransform(core.Matrix) error })
		if !ok {
			return nil, fmt.Errorf("%w: %s pattern cannot be transformed", ErrInvalidSceneFile, cfg.Type)
		}
		if err := settable.SetTransform(m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func parseMapping(name string) (material.UVMapping, error) {
	switch name {
	case "", "planar":
		return material.PlanarMap, nil
	case "spherical":
		return material.SphericalMap, nil
	case "cylindrical":
		return material.CylindricalMap, nil
	}
	return 0, fmt.Errorf("%w: unknown uv mapping %q", ErrInvalidSceneFile, name)
}

// object adds obj (and its descendants) to the arena and returns its handle.
// The shape is left unparented.
func (b *sceneBuilder) object(obj ObjectCfg, inherited material.Material) (geometry.Handle, error) {
	m, err := buildTransform(obj.Transform)
	if err != nil {
		return geometry.NoHandle, err
	}
	mat, err := b.material(obj.Material, inherited)
	if err != nil {
		return geometry.NoHandle, err
	}
	arena := b.world.Arena

	var shape geometry.Shape
	switch obj.Type {
	case "sphere":
		shape, err = geometry.NewSphere(m, mat)
	case "glass-sphere":
		glass := material.NewGlass()
		if obj.Material != nil {
			glass, err = b.material(obj.Material, glass)
			if err != nil {
				return geometry.NoHandle, err
			}
		}
		shape, err = geometry.NewSphere(m, glass)
	case "plane":
		shape, err = geometry.NewPlane(m, mat)
	case "cube":
		shape, err = geometry.NewCube(m, mat)
	case "cylinder", "cone":
		minimum, maximum := math.Inf(-1), math.Inf(1)
		if obj.Min != nil {
			minimum = *obj.Min
		}
		if obj.Max != nil {
			maximum = *obj.Max
		}
		if obj.Type == "cylinder" {
			shape, err = geometry.NewCylinder(m, mat, minimum, maximum, obj.Closed)
		} else {
			shape, err = geometry.NewCone(m, mat, minimum, maximum, obj.Closed)
		}
	case "triangle":
		if len(obj.Points) != 3 {
			return geometry.NoHandle, fmt.Errorf("%w: triangle needs 3 points, got %d", ErrInvalidSceneFile, len(obj.Points))
		}
		if len(obj.Transform) > 0 {
			return geometry.NoHandle, fmt.Errorf("%w: transform a triangle through a group", ErrInvalidSceneFile)
		}
		shape, err = geometry.NewTriangle(obj.Points[0].point(), obj.Points[1].point(), obj.Points[2].point(), mat)
	case "group":
		return b.group(obj, m, mat)
	case "csg":
		return b.csg(obj, m, mat)
	case "mesh":
		return b.mesh(obj, m, mat)
	default:
		return geometry.NoHandle, fmt.Errorf("%w: unknown object type %q", ErrInvalidSceneFile, obj.Type)
	}
	if err != nil {
		return geometry.NoHandle, err
	}
	return arena.Add(shape), nil
}

func (b *sceneBuilder) group(obj ObjectCfg, m core.Matrix, mat material.Material) (geometry.Handle, error) {
	g, err := geometry.NewGroup(m)
	if err != nil {
		return geometry.NoHandle, err
	}
	gh := b.world.Arena.Add(g)
	for i, child := range obj.Children {
		ch, err := b.object(child, mat)
		if err != nil {
			return geometry.NoHandle, fmt.Errorf("child %d (%s): %w", i, child.Type, err)
		}
		if err := b.world.Arena.Attach(gh, ch); err != nil {
			return geometry.NoHandle, err
		}
	}
	if obj.Divide > 0 {
		b.world.Arena.Divide(gh, obj.Divide)
	}
	return gh, nil
}

func (b *sceneBuilder) csg(obj ObjectCfg, m core.Matrix, mat material.Material) (geometry.Handle, error) {
	op, err := geometry.ParseCSGOp(obj.Op)
	if err != nil {
		return geometry.NoHandle, err
	}
	if obj.Left == nil || obj.Right == nil {
		return geometry.NoHandle, fmt.Errorf("%w: csg needs left and right operands", ErrInvalidSceneFile)
	}
	left, err := b.object(*obj.Left, mat)
	if err != nil {
		return geometry.NoHandle, fmt.Errorf("left: %w", err)
	}
	right, err := b.object(*obj.Right, mat)
	if err != nil {
		return geometry.NoHandle, fmt.Errorf("right: %w", err)
	}
	return b.world.Arena.AddCSG(op, left, right, m)
}

func (b *sceneBuilder) mesh(obj ObjectCfg, m core.Matrix, mat material.Material) (geometry.Handle, error) {
	mesh, err := LoadMesh(b.path(obj.File))
	if err != nil {
		return geometry.NoHandle, err
	}

	h, _, err := b.world.Arena.AddMesh(mesh, m, mat)
	if err != nil {
		return geometry.NoHandle, err
	}
	threshold := obj.Divide
	if threshold <= 0 {
		threshold = geometry.DefaultLeafThreshold
	}
	b.world.Arena.Divide(h, threshold)
	return h, nil
}
