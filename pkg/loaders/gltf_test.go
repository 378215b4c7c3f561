package loaders

import (
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/qmuntal/gltf"
)

// triangleDocument builds a one-triangle document with optional normals and indices
func triangleDocument(withNormals, withIndices bool) *gltf.Document {
	var data []byte
	appendFloats := func(vs ...float32) {
		for _, v := range vs {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
		}
	}

	appendFloats(0, 0, 0, 1, 0, 0, 0, 1, 0)
	doc := &gltf.Document{
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteOffset: 0, ByteLength: 36}},
		Accessors: []*gltf.Accessor{{
			BufferView:    gltf.Index(0),
			Count:         3,
			Type:          gltf.AccessorVec3,
			ComponentType: gltf.ComponentFloat,
		}},
	}
	prim := &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: 0}}

	if withNormals {
		offset := len(data)
		appendFloats(0, 0, 1, 0, 0, 1, 0, 0, 1)
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{Buffer: 0, ByteOffset: offset, ByteLength: 36})
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    gltf.Index(len(doc.BufferViews) - 1),
			Count:         3,
			Type:          gltf.AccessorVec3,
			ComponentType: gltf.ComponentFloat,
		})
		prim.Attributes[gltf.NORMAL] = len(doc.Accessors) - 1
	}

	if withIndices {
		offset := len(data)
		for _, idx := range []uint16{2, 1, 0} {
			data = binary.LittleEndian.AppendUint16(data, idx)
		}
		data = append(data, 0, 0) // pad to 4 bytes
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{Buffer: 0, ByteOffset: offset, ByteLength: 6})
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    gltf.Index(len(doc.BufferViews) - 1),
			Count:         3,
			Type:          gltf.AccessorScalar,
			ComponentType: gltf.ComponentUshort,
		})
		prim.Indices = gltf.Index(len(doc.Accessors) - 1)
	}

	doc.Buffers = []*gltf.Buffer{{ByteLength: len(data), Data: data}}
	doc.Meshes = []*gltf.Mesh{{Name: "triangle", Primitives: []*gltf.Primitive{prim}}}
	return doc
}

func TestMeshFromGLTF(t *testing.T) {
	tests := []struct {
		name        string
		normals     bool
		indices     bool
		wantFaces   []int
		wantNormals int
	}{
		{"positions only", false, false, []int{0, 1, 2}, 0},
		{"with normals", true, false, []int{0, 1, 2}, 3},
		{"indexed", false, true, []int{2, 1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := MeshFromGLTF(triangleDocument(tt.normals, tt.indices))
			if err != nil {
				t.Fatal(err)
			}
			if len(mesh.Vertices) != 3 || !mesh.Vertices[1].Equal(core.Point(1, 0, 0)) {
				t.Errorf("Unexpected vertices %v", mesh.Vertices)
			}
			if len(mesh.Normals) != tt.wantNormals {
				t.Errorf("Expected %d normals, got %d", tt.wantNormals, len(mesh.Normals))
			}
			for i, idx := range tt.wantFaces {
				if mesh.Faces[i] != idx {
					t.Errorf("Face index %d: expected %d, got %d", i, idx, mesh.Faces[i])
				}
			}
		})
	}
}

func TestMeshFromGLTF_Errors(t *testing.T) {
	t.Run("no triangles", func(t *testing.T) {
		doc := triangleDocument(false, false)
		doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines
		if _, err := MeshFromGLTF(doc); !errors.Is(err, ErrInvalidGLTF) {
			t.Errorf("Expected ErrInvalidGLTF, got %v", err)
		}
	})

	t.Run("accessor past buffer", func(t *testing.T) {
		doc := triangleDocument(false, false)
		doc.Accessors[0].Count = 100
		if _, err := MeshFromGLTF(doc); !errors.Is(err, ErrInvalidGLTF) {
			t.Errorf("Expected ErrInvalidGLTF, got %v", err)
		}
	})

	t.Run("overflowing accessor count", func(t *testing.T) {
		doc := triangleDocument(false, false)
		doc.Accessors[0].Count = math.MaxInt / 4
		if _, err := MeshFromGLTF(doc); !errors.Is(err, ErrInvalidGLTF) {
			t.Errorf("Expected ErrInvalidGLTF, got %v", err)
		}
	})

	t.Run("wrong accessor type", func(t *testing.T) {
		doc := triangleDocument(false, false)
		doc.Accessors[0].Type = gltf.AccessorVec2
		if _, err := MeshFromGLTF(doc); !errors.Is(err, ErrInvalidGLTF) {
			t.Errorf("Expected ErrInvalidGLTF, got %v", err)
		}
	})
}

func TestLoadGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triangle.glb")
	if err := gltf.SaveBinary(triangleDocument(true, true), path); err != nil {
		t.Fatal(err)
	}

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.TriangleCount() != 1 || len(mesh.Normals) != 3 {
		t.Errorf("Expected one smooth triangle, got %d faces and %d normals", mesh.TriangleCount(), len(mesh.Normals))
	}

	if _, err := LoadGLB(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
