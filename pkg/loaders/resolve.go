package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrUnknownScene is returned when a scene reference matches nothing
var ErrUnknownScene = errors.New("unknown scene")

// ResolveScene builds the scene a user refers to. Accepted forms are a
// built-in name, "file:<name>" for <scenesDir>/<name>.json, a path to a
// JSON scene file, or a path to a .ply, .glb or .gltf model.
func ResolveScene(ref, scenesDir string, logger core.Logger, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty scene name", ErrUnknownScene)
	}
	if build, ok := scene.Lookup(ref); ok {
		return build(cameraOverrides...)
	}

	if name, ok := strings.CutPrefix(ref, "file:"); ok {
		if scenesDir == "" || strings.ContainsAny(name, `/\`) || name == ".." {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScene, ref)
		}
		ref = filepath.Join(scenesDir, name+".json")
	}

	ext := strings.ToLower(filepath.Ext(ref))
	switch ext {
	case ".json", ".ply", ".glb", ".gltf":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, ref)
	}
	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownScene, err)
	}

	if ext == ".json" {
		return LoadSceneFile(ref, cameraOverrides...)
	}

	mesh, err := LoadMesh(ref)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
	logger.Printf("Loaded %s: %d vertices, %d triangles\n", ref, len(mesh.Vertices), mesh.TriangleCount())
	return scene.NewModelScene(name, mesh, logger, cameraOverrides...)
}

// LoadMesh reads a .ply, .glb or .gltf model by extension
func LoadMesh(path string) (geometry.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		return LoadPLY(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return geometry.Mesh{}, fmt.Errorf("%w: unsupported mesh file %q", ErrInvalidSceneFile, path)
	}
}
