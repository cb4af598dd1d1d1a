package scene

import (
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/urdf-viewer/pkg/math"
)

// ErrMeshNotFound is returned by loaders when the mesh file is missing.
var ErrMeshNotFound = errors.New("mesh file not found")

// MeshData is decoded triangle geometry in the mesh's own frame, already scaled.
type MeshData struct {
	Positions []math.Vec3
	Indices   []uint32
}

// MeshLoader decodes mesh files. Implementations live with the renderer.
type MeshLoader interface {
	Load(path string, scale math.Vec3) (*MeshData, error)
}

// MeshLoaderFunc adapts a function to MeshLoader.
type MeshLoaderFunc func(path string, scale math.Vec3) (*MeshData, error)

// Load calls f.
func (f MeshLoaderFunc) Load(path string, scale math.Vec3) (*MeshData, error) {
	return f(path, scale)
}

// StatLoader only checks that mesh files exist. It returns empty mesh data,
// which is enough for tools that need paths but not triangles.
type StatLoader struct{}

// Load reports ErrMeshNotFound for missing files.
func (StatLoader) Load(path string, _ math.Vec3) (*MeshData, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMeshNotFound, path)
		}
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &MeshData{}, nil
}
