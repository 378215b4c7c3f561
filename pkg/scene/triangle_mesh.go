package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// NewTriangleMeshScene creates a scene showcasing flat and smooth triangle meshes
func NewTriangleMeshScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.Point(0, 2, -6),
		LookAt: core.Point(0, 0.9, 0),
		Up:     core.Vector(0, 1, 0),
		Width:  600,
		Height: 338,
		VFov:   45,
	}

	world := NewWorld()
	world.Background = core.NewColor(0.5, 0.7, 1.0)
	b := &shapeBuilder{world: world}

	b.add(NewGroundPlane(0, b.material(
		material.WithColor(core.NewColor(0.7, 0.7, 0.7)),
		material.WithSpecular(0),
		material.WithReflective(0.15),
	)))

	addMesh := func(mesh geometry.Mesh, m core.Matrix, mat material.Material) {
		if b.err != nil {
			return
		}
		h, _, err := world.Arena.AddMesh(mesh, m, mat)
		if err != nil {
			b.err = err
			return
		}
		world.Arena.Divide(h, geometry.DefaultLeafThreshold)
		b.root(h)
	}

	// Box rotated to show three faces
	addMesh(NewBoxMesh(),
		transform.New().RotateY(math.Pi/6).Translate(-2, 0.5, 0).Matrix(),
		b.material(
			material.WithColor(core.NewColor(0.8, 0.2, 0.2)),
			material.WithSpecular(0.6),
			material.WithReflective(0.2),
		))

	// Pyramid
	addMesh(NewPyramidMesh(),
		transform.New().Scale(1.5, 2, 1.5).RotateY(math.Pi/4).Matrix(),
		b.material(
			material.WithColor(core.NewColor(0.2, 0.3, 0.8)),
			material.WithSpecular(0.2),
		))

	// Smooth-shaded icosphere
	addMesh(NewIcosphereMesh(2),
		transform.New().Scale(0.8, 0.8, 0.8).Translate(2, 0.8, 0).Matrix(),
		b.material(
			material.WithColor(core.NewColor(0.8, 0.6, 0.2)),
			material.WithSpecular(0.9),
			material.WithShininess(300),
			material.WithReflective(0.3),
		))

	b.light(core.Point(2, 6, -3), core.NewColor(1, 0.92, 0.85))
	b.light(core.Point(-3, 4, -2), core.NewColor(0.3, 0.35, 0.4))
	if b.err != nil {
		return nil, b.err
	}
	return newScene("mesh", world, defaultCameraConfig, cameraOverrides)
}

// NewBoxMesh returns a unit cube centered on the origin as 12 triangles
func NewBoxMesh() geometry.Mesh {
	h := 0.5
	return geometry.Mesh{
		Vertices: []core.Tuple{
			core.Point(-h, -h, -h), // 0: left-bottom-back
			core.Point(+h, -h, -h), // 1: right-bottom-back
			core.Point(+h, +h, -h), // 2: right-top-back
			core.Point(-h, +h, -h), // 3: left-top-back
			core.Point(-h, -h, +h), // 4: left-bottom-front
			core.Point(+h, -h, +h), // 5: right-bottom-front
			core.Point(+h, +h, +h), // 6: right-top-front
			core.Point(-h, +h, +h), // 7: left-top-front
		},
		Faces: []int{
			0, 1, 2, 0, 2, 3, // z-
			4, 6, 5, 4, 7, 6, // z+
			0, 3, 7, 0, 7, 4, // x-
			1, 5, 6, 1, 6, 2, // x+
			0, 4, 5, 0, 5, 1, // y-
			3, 2, 6, 3, 6, 7, // y+
		},
	}
}

// NewPyramidMesh returns a square pyramid with its base on y=0 and apex at y=1
func NewPyramidMesh() geometry.Mesh {
	return geometry.Mesh{
		Vertices: []core.Tuple{
			core.Point(-0.5, 0, -0.5),
			core.Point(0.5, 0, -0.5),
			core.Point(0.5, 0, 0.5),
			core.Point(-0.5, 0, 0.5),
			core.Point(0, 1, 0),
		},
		Faces: []int{
			0, 2, 1, 0, 3, 2, // base
			0, 1, 4,
			1, 2, 4,
			2, 3, 4,
			3, 0, 4,
		},
	}
}

// NewIcosphereMesh returns a unit sphere made by subdividing an icosahedron.
// Normals are set per vertex, so the mesh renders smooth.
func NewIcosphereMesh(subdivisions int) geometry.Mesh {
	t := (1 + math.Sqrt(5)) / 2
	raw := [][3]float64{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	var vertices []core.Tuple
	onSphere := func(x, y, z float64) int {
		l := math.Sqrt(x*x + y*y + z*z)
		vertices = append(vertices, core.Point(x/l, y/l, z/l))
		return len(vertices) - 1
	}
	for _, v := range raw {
		onSphere(v[0], v[1], v[2])
	}

	for range subdivisions {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			pa, pb := vertices[a], vertices[b]
			idx := onSphere((pa.X+pb.X)/2, (pa.Y+pb.Y)/2, (pa.Z+pb.Z)/2)
			midpoints[key] = idx
			return idx
		}

		next := make([]int, 0, len(faces)*4)
		for i := 0; i < len(faces); i += 3 {
			a, b, c := faces[i], faces[i+1], faces[i+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca,
			)
		}
		faces = next
	}

	normals := make([]core.Tuple, len(vertices))
	for i, v := range vertices {
		normals[i] = core.Vector(v.X, v.Y, v.Z)
	}
	return geometry.Mesh{Vertices: vertices, Faces: faces, Normals: normals}
}
