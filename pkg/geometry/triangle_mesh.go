package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Mesh is an indexed triangle list as produced by the model loaders
type Mesh struct {
	Vertices []core.Tuple // Points
	Faces    []int        // Each group of 3 indices forms a triangle
	Normals  []core.Tuple // Optional per-vertex normals; enables smooth shading
}

// TriangleCount returns the number of faces
func (m Mesh) TriangleCount() int {
	return len(m.Faces) / 3
}

// AddMesh creates a group holding one triangle per face and returns its handle.
// Degenerate faces are skipped; their count is returned alongside the handle.
// Call Divide on the result to build a hierarchy for large meshes.
func (a *Arena) AddMesh(mesh Mesh, transform core.Matrix, mat material.Material) (Handle, int, error) {
	if len(mesh.Faces)%3 != 0 {
		return NoHandle, 0, fmt.Errorf("%w: face indices must be a multiple of 3, got %d", ErrInvalidShape, len(mesh.Faces))
	}
	smooth := len(mesh.Normals) > 0
	if smooth && len(mesh.Normals) != len(mesh.Vertices) {
		return NoHandle, 0, fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidShape, len(mesh.Normals), len(mesh.Vertices))
	}
	for _, idx := range mesh.Faces {
		if idx < 0 || idx >= len(mesh.Vertices) {
			return NoHandle, 0, fmt.Errorf("%w: face index %d out of range", ErrInvalidShape, idx)
		}
	}

	group, err := NewGroup(transform)
	if err != nil {
		return NoHandle, 0, err
	}
	gh := a.Add(group)

	skipped := 0
	for i := 0; i < len(mesh.Faces); i += 3 {
		i0, i1, i2 := mesh.Faces[i], mesh.Faces[i+1], mesh.Faces[i+2]
		p1, p2, p3 := mesh.Vertices[i0], mesh.Vertices[i1], mesh.Vertices[i2]

		var tri Shape
		if smooth {
			tri, err = NewSmoothTriangle(p1, p2, p3, mesh.Normals[i0], mesh.Normals[i1], mesh.Normals[i2], mat)
		} else {
			tri, err = NewTriangle(p1, p2, p3, mat)
		}
		if err != nil {
			skipped++
			continue
		}
		if err := a.Attach(gh, a.Add(tri)); err != nil {
			return NoHandle, skipped, err
		}
	}
	return gh, skipped, nil
}
