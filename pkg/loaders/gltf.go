package loaders

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/qmuntal/gltf"
)

// ErrInvalidGLTF is returned for glTF content the loader cannot turn into triangles
var ErrInvalidGLTF = errors.New("invalid glTF data")

// LoadGLB loads every triangle primitive of a .glb or .gltf file into one mesh.
// Node transforms are ignored; the mesh is in the file's model space.
func LoadGLB(path string) (geometry.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return geometry.Mesh{}, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := MeshFromGLTF(doc)
	if err != nil {
		return geometry.Mesh{}, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// MeshFromGLTF extracts triangle geometry from a decoded document. Normals
// are kept only when every primitive provides them.
func MeshFromGLTF(doc *gltf.Document) (geometry.Mesh, error) {
	var mesh geometry.Mesh
	allNormals := true

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				// Lines and points have no surface
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return geometry.Mesh{}, fmt.Errorf("mesh %q positions: %w", m.Name, err)
			}

			var normals [][3]float32
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = readVec3Accessor(doc, normIdx)
				if err != nil {
					return geometry.Mesh{}, fmt.Errorf("mesh %q normals: %w", m.Name, err)
				}
			}
			if len(normals) != len(positions) {
				allNormals = false
			}

			base := len(mesh.Vertices)
			for i, p := range positions {
				mesh.Vertices = append(mesh.Vertices, core.Point(float64(p[0]), float64(p[1]), float64(p[2])))
				if allNormals {
					n := normals[i]
					mesh.Normals = append(mesh.Normals, core.Vector(float64(n[0]), float64(n[1]), float64(n[2])))
				}
			}

			if prim.Indices != nil {
				indices, err := readIndices(doc, *prim.Indices)
				if err != nil {
					return geometry.Mesh{}, fmt.Errorf("mesh %q indices: %w", m.Name, err)
				}
				for i := 0; i+2 < len(indices); i += 3 {
					mesh.Faces = append(mesh.Faces, base+indices[i], base+indices[i+1], base+indices[i+2])
				}
			} else {
				// Unindexed primitives list their triangles in order
				for i := 0; i+2 < len(positions); i += 3 {
					mesh.Faces = append(mesh.Faces, base+i, base+i+1, base+i+2)
				}
			}
		}
	}

	if !allNormals {
		mesh.Normals = nil
	}
	if len(mesh.Faces) == 0 {
		return geometry.Mesh{}, fmt.Errorf("%w: no triangle primitives", ErrInvalidGLTF)
	}
	for _, idx := range mesh.Faces {
		if idx < 0 || idx >= len(mesh.Vertices) {
			return geometry.Mesh{}, fmt.Errorf("%w: index %d out of range", ErrInvalidGLTF, idx)
		}
	}
	return mesh, nil
}

// accessorBytes returns the bytes of the buffer view behind an accessor
// along with the element stride
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elementSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("%w: accessor has no buffer view", ErrInvalidGLTF)
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("%w: buffer view %d out of range", ErrInvalidGLTF, *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("%w: buffer %d out of range", ErrInvalidGLTF, view.Buffer)
	}
	data := doc.Buffers[view.Buffer].Data
	if data == nil {
		return nil, 0, fmt.Errorf("%w: buffer has no data", ErrInvalidGLTF)
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elementSize
	}
	if stride < elementSize {
		return nil, 0, fmt.Errorf("%w: stride %d shorter than element size %d", ErrInvalidGLTF, stride, elementSize)
	}
	start := view.ByteOffset + accessor.ByteOffset
	if start < 0 || start > len(data) || accessor.Count < 0 {
		return nil, 0, fmt.Errorf("%w: accessor reads past the end of its buffer", ErrInvalidGLTF)
	}
	if accessor.Count == 0 {
		return data[start:start], stride, nil
	}
	// Checked in rows; Count*stride may overflow
	available := len(data) - start
	if available < elementSize || accessor.Count-1 > (available-elementSize)/stride {
		return nil, 0, fmt.Errorf("%w: accessor reads past the end of its buffer", ErrInvalidGLTF)
	}
	end := start + (accessor.Count-1)*stride + elementSize
	return data[start:end], stride, nil
}

// readVec3Accessor reads float VEC3 data
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([][3]float32, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrInvalidGLTF, accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("%w: expected float VEC3, got %v/%v", ErrInvalidGLTF, accessor.Type, accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}
	result := make([][3]float32, accessor.Count)
	for i := range accessor.Count {
		offset := i * stride
		for j := range 3 {
			result[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset+j*4:]))
		}
	}
	return result, nil
}

// readIndices reads an unsigned SCALAR index accessor
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrInvalidGLTF, accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("%w: expected SCALAR indices, got %v", ErrInvalidGLTF, accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("%w: unexpected index type %v", ErrInvalidGLTF, accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}
	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		b := data[i*stride:]
		switch size {
		case 1:
			result[i] = int(b[0])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return result, nil
}
